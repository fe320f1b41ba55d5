package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	xwebp "golang.org/x/image/webp"
)

func TestProcessorService_DetectFormat(t *testing.T) {
	processor := NewProcessorService(8192, 8192)

	t.Run("jpeg_magic_bytes", func(t *testing.T) {
		data := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 16)...)
		format, err := processor.DetectFormat(data)
		assert.NoError(t, err)
		assert.Equal(t, "image/jpeg", format)
	})

	t.Run("png_magic_bytes", func(t *testing.T) {
		data := append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 16)...)
		format, err := processor.DetectFormat(data)
		assert.NoError(t, err)
		assert.Equal(t, "image/png", format)
	})

	t.Run("gif_magic_bytes", func(t *testing.T) {
		data := append([]byte("GIF89a"), make([]byte, 16)...)
		format, err := processor.DetectFormat(data)
		assert.NoError(t, err)
		assert.Equal(t, "image/gif", format)
	})

	t.Run("webp_riff_header", func(t *testing.T) {
		data := append([]byte("RIFF\x00\x00\x00\x00WEBP"), make([]byte, 16)...)
		format, err := processor.DetectFormat(data)
		assert.NoError(t, err)
		assert.Equal(t, "image/webp", format)
	})

	t.Run("real_encoded_jpeg", func(t *testing.T) {
		format, err := processor.DetectFormat(makeJPEG(t, 10, 10))
		assert.NoError(t, err)
		assert.Equal(t, "image/jpeg", format)
	})

	t.Run("too_short", func(t *testing.T) {
		_, err := processor.DetectFormat([]byte{0xFF, 0xD8})
		assert.Error(t, err)
	})

	t.Run("unsupported_format", func(t *testing.T) {
		data := append([]byte("BM"), make([]byte, 32)...)
		_, err := processor.DetectFormat(data)
		assert.Error(t, err)
	})
}

func TestProcessorService_GetDimensions(t *testing.T) {
	processor := NewProcessorService(8192, 8192)

	t.Run("jpeg_dimensions", func(t *testing.T) {
		width, height, err := processor.GetDimensions(makeJPEG(t, 640, 480))
		assert.NoError(t, err)
		assert.Equal(t, 640, width)
		assert.Equal(t, 480, height)
	})

	t.Run("invalid_data", func(t *testing.T) {
		_, _, err := processor.GetDimensions([]byte("garbage"))
		assert.Error(t, err)
	})
}

func TestProcessorService_ValidateImage(t *testing.T) {
	processor := NewProcessorService(8192, 8192)

	t.Run("valid_jpeg", func(t *testing.T) {
		assert.NoError(t, processor.ValidateImage(makeJPEG(t, 100, 100), 10*1024*1024))
	})

	t.Run("oversized_rejected", func(t *testing.T) {
		data := makeJPEG(t, 100, 100)
		err := processor.ValidateImage(data, int64(len(data))-1)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds maximum")
	})

	t.Run("empty_rejected", func(t *testing.T) {
		assert.Error(t, processor.ValidateImage([]byte{}, 1024))
	})

	t.Run("undecodable_rejected", func(t *testing.T) {
		data := append([]byte("RIFF\x00\x00\x00\x00WEBP"), make([]byte, 16)...)
		assert.Error(t, processor.ValidateImage(data, 1024))
	})
}

func TestProcessorService_Transcode(t *testing.T) {
	processor := NewProcessorService(8192, 8192)

	opts := func() TranscodeOptions {
		return TranscodeOptions{
			BaseName:        "blue-wedding-suit-abcd1234",
			Quality:         85,
			BackgroundColor: "#ffffff",
		}
	}

	t.Run("produces_both_renditions", func(t *testing.T) {
		result, err := processor.Transcode(makeJPEG(t, 640, 480), opts())
		assert.NoError(t, err)
		assert.NotEmpty(t, result.WebP)
		assert.NotEmpty(t, result.JPEG)
		assert.Equal(t, 640, result.Width)
		assert.Equal(t, 480, result.Height)
		assert.Equal(t, "jpeg", result.OriginalFormat)

		// The primary rendition must be decodable WebP
		decoded, err := xwebp.Decode(bytes.NewReader(result.WebP))
		assert.NoError(t, err)
		assert.Equal(t, 640, decoded.Bounds().Dx())

		// And the fallback must carry the JPEG signature
		assert.True(t, bytes.HasPrefix(result.JPEG, []byte{0xFF, 0xD8, 0xFF}))
	})

	t.Run("downscales_to_fit_box", func(t *testing.T) {
		o := opts()
		o.MaxWidth, o.MaxHeight = 320, 320
		result, err := processor.Transcode(makeJPEG(t, 640, 480), o)
		assert.NoError(t, err)
		assert.Equal(t, 320, result.Width)
		assert.Equal(t, 240, result.Height)
		assert.Equal(t, 640, result.OriginalWidth)
		assert.Equal(t, 480, result.OriginalHeight)
	})

	t.Run("never_upscales", func(t *testing.T) {
		o := opts()
		o.MaxWidth, o.MaxHeight = 4000, 4000
		result, err := processor.Transcode(makeJPEG(t, 640, 480), o)
		assert.NoError(t, err)
		assert.Equal(t, 640, result.Width)
		assert.Equal(t, 480, result.Height)
	})

	t.Run("width_only_box", func(t *testing.T) {
		o := opts()
		o.MaxWidth = 320
		result, err := processor.Transcode(makeJPEG(t, 640, 480), o)
		assert.NoError(t, err)
		assert.Equal(t, 320, result.Width)
		assert.Equal(t, 240, result.Height)
	})

	t.Run("flattens_png_alpha_for_jpeg", func(t *testing.T) {
		result, err := processor.Transcode(makePNG(t, 100, 100), opts())
		assert.NoError(t, err)
		assert.Equal(t, "png", result.OriginalFormat)
		assert.True(t, bytes.HasPrefix(result.JPEG, []byte{0xFF, 0xD8, 0xFF}))
	})

	t.Run("rejects_oversized_source", func(t *testing.T) {
		small := NewProcessorService(500, 500)
		_, err := small.Transcode(makeJPEG(t, 640, 480), opts())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "exceed maximum allowed")
	})

	t.Run("bad_background_color", func(t *testing.T) {
		o := opts()
		o.BackgroundColor = "not-a-color"
		_, err := processor.Transcode(makeJPEG(t, 100, 100), o)
		assert.Error(t, err)
	})

	t.Run("undecodable_source", func(t *testing.T) {
		_, err := processor.Transcode([]byte("garbage"), opts())
		assert.Error(t, err)
	})
}

func TestClampQuality(t *testing.T) {
	assert.Equal(t, 85, clampQuality(0))
	assert.Equal(t, 1, clampQuality(-10))
	assert.Equal(t, 100, clampQuality(150))
	assert.Equal(t, 42, clampQuality(42))
}
