package service

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// GenerateBaseName derives a unique, URL-safe base name (no extension) for
// the on-disk renditions of one upload. The title drives the slug when
// usable, otherwise the original filename's base; a random 8-hex suffix
// keeps repeated uploads of the same title from colliding.
func GenerateBaseName(originalFilename, title string) string {
	slug := slugify(title, 50)
	if slug == "" {
		base := strings.TrimSuffix(originalFilename, filepath.Ext(originalFilename))
		slug = slugify(base, 30)
	}
	if slug == "" {
		slug = "image"
	}

	suffix := uuid.New().String()[:8]
	return slug + "-" + suffix
}

// slugify lowercases, strips everything outside [a-z0-9 -], collapses
// whitespace and hyphen runs to single hyphens, and truncates to maxLen.
func slugify(s string, maxLen int) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '-':
			b.WriteByte('-')
		}
	}

	slug := b.String()
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")

	if len(slug) > maxLen {
		slug = strings.Trim(slug[:maxLen], "-")
	}
	return slug
}
