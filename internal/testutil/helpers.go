package testutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"catalogd/internal/config"
	"catalogd/internal/repository"
)

// ErrMockCacheMiss aliases the repository cache-miss sentinel so service
// code sees the same error from mocks as from real backends
var ErrMockCacheMiss = repository.ErrCacheMiss

// ErrMockNotFound signals a missing object in storage mocks
var ErrMockNotFound = errors.New("not found")

// TestConfig returns a configuration suitable for unit tests
func TestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:    "8080",
			GinMode: "debug",
		},
		Repository: config.RepositoryConfig{
			Type:      "badger",
			Directory: "./testdata/catalog",
		},
		Storage: config.StorageConfig{
			Type:          "local",
			UploadDir:     "./testdata/uploads",
			PublicBaseURL: "http://localhost:8080",
		},
		Image: config.ImageConfig{
			MaxFileSize:     10 * 1024 * 1024,
			Quality:         85,
			MaxWidth:        8192,
			MaxHeight:       8192,
			BackgroundColor: "#ffffff",
		},
		Cache: config.CacheConfig{
			TTL: 30 * time.Second,
		},
		RateLimit: config.RateLimitConfig{
			Upload: 10,
			Public: 120,
			Admin:  60,
		},
		Logger: config.LoggerConfig{
			Level:  "error",
			Format: "console",
		},
		CORS: config.CORSConfig{
			Enabled:         true,
			AllowAllOrigins: true,
		},
		Auth: config.AuthConfig{
			Enabled:     true,
			TokenSecret: "test-secret-test-secret-test-secret!",
			TokenTTL:    time.Hour,
		},
	}
}

// MakeTestJPEG encodes a solid-color JPEG of the given dimensions
func MakeTestJPEG(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill(img, color.RGBA{R: 60, G: 90, B: 160, A: 255})

	var buf bytes.Buffer
	_ = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
	return buf.Bytes()
}

// MakeTestPNG encodes a solid-color PNG of the given dimensions
func MakeTestPNG(width, height int) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	fill(img, color.RGBA{R: 200, G: 40, B: 40, A: 255})

	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func fill(img interface {
	Set(x, y int, c color.Color)
	Bounds() image.Rectangle
}, c color.Color) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

// CreateTestRequest creates a test HTTP request
func CreateTestRequest(method, path string, body io.Reader) *http.Request {
	return httptest.NewRequest(method, path, body)
}

// CreateMultipartRequest creates a multipart form request with one file
func CreateMultipartRequest(method, path string, formData map[string]string, fileField, filename string, fileContent []byte) *http.Request {
	var body bytes.Buffer
	boundary := "test-boundary"

	for key, value := range formData {
		body.WriteString("--" + boundary + "\r\n")
		body.WriteString("Content-Disposition: form-data; name=\"" + key + "\"\r\n\r\n")
		body.WriteString(value + "\r\n")
	}

	if fileField != "" && filename != "" {
		body.WriteString("--" + boundary + "\r\n")
		body.WriteString("Content-Disposition: form-data; name=\"" + fileField + "\"; filename=\"" + filename + "\"\r\n")
		body.WriteString("Content-Type: image/jpeg\r\n\r\n")
		body.Write(fileContent)
		body.WriteString("\r\n")
	}

	body.WriteString("--" + boundary + "--\r\n")

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)
	return req
}

// ParseJSONResponse parses a recorded JSON response into target
func ParseJSONResponse(resp *httptest.ResponseRecorder, target interface{}) error {
	return json.Unmarshal(resp.Body.Bytes(), target)
}

// newByteReader wraps a byte slice in a Reader
func newByteReader(data []byte) io.Reader {
	return bytes.NewReader(data)
}
