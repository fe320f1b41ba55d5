// Package auth implements signed, expiring admin bearer tokens. A token
// carries a subject and an expiry, signed with HMAC-SHA256 under a shared
// secret, so verification is stateless and needs no token store.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Issue creates a signed token for subject, valid for ttl from now.
// The subject must not contain ':' since it delimits the token fields.
func Issue(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("token secret is empty")
	}
	if subject == "" || strings.Contains(subject, ":") {
		return "", fmt.Errorf("invalid token subject")
	}
	expiry := time.Now().Add(ttl).Unix()
	payload := fmt.Sprintf("%s:%d", subject, expiry)
	token := payload + ":" + sign(secret, payload)
	return base64.RawURLEncoding.EncodeToString([]byte(token)), nil
}

// Verify checks the token's signature and expiry and returns its subject.
func Verify(secret, token string) (string, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("malformed token")
	}
	parts := strings.Split(string(decoded), ":")
	if len(parts) != 3 {
		return "", fmt.Errorf("malformed token")
	}
	subject, expiryRaw, signature := parts[0], parts[1], parts[2]

	payload := subject + ":" + expiryRaw
	if !hmac.Equal([]byte(signature), []byte(sign(secret, payload))) {
		return "", fmt.Errorf("invalid token signature")
	}

	expiry, err := strconv.ParseInt(expiryRaw, 10, 64)
	if err != nil {
		return "", fmt.Errorf("malformed token expiry")
	}
	if time.Now().Unix() > expiry {
		return "", fmt.Errorf("token expired")
	}
	return subject, nil
}

func sign(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
