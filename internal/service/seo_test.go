package service

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 80, B: 160, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func makePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// padTo appends filler after the end-of-image marker; decoders ignore it
// but the byte length counts toward the size brackets.
func padTo(data []byte, size int) []byte {
	if len(data) >= size {
		return data
	}
	padded := make([]byte, size)
	copy(padded, data)
	return padded
}

func TestSEOService_Analyze(t *testing.T) {
	seo := NewSEOService()

	t.Run("large_jpeg_scores_fifty", func(t *testing.T) {
		data := padTo(makeJPEG(t, 1200, 800), 600*1024)
		analysis := seo.Analyze(data, "IMG_4821.jpg", "Blue Wedding Suit", "product")

		// jpeg 15 + under-1MB 10 + within-1080p 15 + width>=800 10
		assert.Equal(t, 50, analysis.Score)
		assert.Equal(t, "Blue Wedding Suit - product image optimized for web", analysis.SuggestedAltText)
		assert.Equal(t, "Blue Wedding Suit", analysis.SuggestedSEOTitle)
		assert.Contains(t, analysis.Recommendations, "Image is larger than 500KB, compress further for faster loading")
		assert.Contains(t, analysis.Recommendations, "Convert image to WebP format for better performance")
	})

	t.Run("small_jpeg_under_1200_wide", func(t *testing.T) {
		data := makeJPEG(t, 800, 600)
		analysis := seo.Analyze(data, "x.jpg", "Blue Wedding Suit", "product")

		// jpeg 15 + under-100KB 20 + within-1080p 15 + width>=800 10 + under-1200 5
		assert.Equal(t, 65, analysis.Score)
	})

	t.Run("degrades_on_garbage_input", func(t *testing.T) {
		analysis := seo.Analyze([]byte("not an image at all"), "broken-upload.jpg", "Title", "product")

		assert.Equal(t, 0, analysis.Score)
		assert.Equal(t, "broken-upload", analysis.SuggestedAltText)
		assert.Equal(t, "broken-upload", analysis.SuggestedSEOTitle)
		assert.Equal(t, []string{"Image analysis failed - manual review recommended"}, analysis.Recommendations)
		assert.NotNil(t, analysis.TechnicalSEO)
	})

	t.Run("short_title_recommendation", func(t *testing.T) {
		data := makeJPEG(t, 800, 600)
		analysis := seo.Analyze(data, "x.jpg", "Suit", "product")
		assert.Contains(t, analysis.Recommendations, "Add a descriptive title of at least 10 characters")
	})

	t.Run("alt_text_falls_back_to_filename", func(t *testing.T) {
		data := makeJPEG(t, 800, 600)
		analysis := seo.Analyze(data, "summer-banner.jpg", "", "banner")
		assert.Equal(t, "summer-banner - banner image optimized for web", analysis.SuggestedAltText)
	})

	t.Run("alt_text_capped_at_125", func(t *testing.T) {
		data := makeJPEG(t, 100, 100)
		long := ""
		for len(long) < 200 {
			long += "very long title "
		}
		analysis := seo.Analyze(data, "x.jpg", long, "product")
		assert.LessOrEqual(t, len(analysis.SuggestedAltText), 125)
	})
}

func TestSEOService_TechnicalSEO(t *testing.T) {
	seo := NewSEOService()

	t.Run("landscape_jpeg", func(t *testing.T) {
		analysis := seo.Analyze(makeJPEG(t, 1600, 900), "x.jpg", "A Landscape Shot", "hero")
		tech := analysis.TechnicalSEO

		assert.Equal(t, "16:9", tech.AspectRatio)
		assert.True(t, tech.IsLandscape)
		assert.False(t, tech.IsSquare)
		assert.False(t, tech.IsPortrait)
		assert.Equal(t, "ycbcr", tech.ColorSpace)
		assert.False(t, tech.HasAlpha)
		assert.Equal(t, "1.4MP", tech.Density)
	})

	t.Run("square_png_has_alpha", func(t *testing.T) {
		analysis := seo.Analyze(makePNG(t, 400, 400), "x.png", "A Square Badge", "gallery")
		tech := analysis.TechnicalSEO

		assert.Equal(t, "1:1", tech.AspectRatio)
		assert.True(t, tech.IsSquare)
		assert.True(t, tech.HasAlpha)
		assert.Equal(t, "srgb", tech.ColorSpace)
	})

	t.Run("dominant_color_sampled", func(t *testing.T) {
		analysis := seo.Analyze(makeJPEG(t, 200, 200), "x.jpg", "A Solid Color", "product")
		assert.Regexp(t, "^#[0-9a-f]{6}$", analysis.TechnicalSEO.DominantColor)
	})
}
