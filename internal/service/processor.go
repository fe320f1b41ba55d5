package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"

	"catalogd/pkg/logger"

	"github.com/disintegration/imaging"
	"github.com/icza/gox/imagex/colorx"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	"go.uber.org/zap"
	xwebp "golang.org/x/image/webp"

	_ "image/gif"
	_ "image/png"
)

// ProcessorServiceImpl implements the ProcessorService interface
type ProcessorServiceImpl struct {
	maxWidth  int // Maximum allowed image width
	maxHeight int // Maximum allowed image height
}

// NewProcessorService creates a new image processor service
func NewProcessorService(maxWidth, maxHeight int) ProcessorService {
	if maxWidth <= 0 {
		maxWidth = 8192 // Default maximum width
	}
	if maxHeight <= 0 {
		maxHeight = 8192 // Default maximum height
	}

	return &ProcessorServiceImpl{
		maxWidth:  maxWidth,
		maxHeight: maxHeight,
	}
}

// DetectFormat detects image format from data
func (p *ProcessorServiceImpl) DetectFormat(data []byte) (string, error) {
	if len(data) < 12 {
		return "", fmt.Errorf("insufficient data for format detection")
	}

	// Use http.DetectContentType for initial detection
	contentType := http.DetectContentType(data)

	switch contentType {
	case "image/jpeg":
		return "image/jpeg", nil
	case "image/png":
		return "image/png", nil
	case "image/gif":
		return "image/gif", nil
	case "image/webp":
		return "image/webp", nil
	default:
		// Try more specific detection
		return p.detectFormatByHeader(data)
	}
}

// detectFormatByHeader detects format by examining file headers
func (p *ProcessorServiceImpl) detectFormatByHeader(data []byte) (string, error) {
	// JPEG: FF D8 FF
	if bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}) {
		return "image/jpeg", nil
	}

	// PNG: 89 50 4E 47 0D 0A 1A 0A
	if bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}) {
		return "image/png", nil
	}

	// GIF: 47 49 46 38 (GIF8)
	if bytes.HasPrefix(data, []byte{0x47, 0x49, 0x46, 0x38}) {
		return "image/gif", nil
	}

	// WebP: RIFF....WEBP
	if bytes.HasPrefix(data, []byte{0x52, 0x49, 0x46, 0x46}) && len(data) >= 12 {
		if bytes.Equal(data[8:12], []byte{0x57, 0x45, 0x42, 0x50}) {
			return "image/webp", nil
		}
	}

	return "", fmt.Errorf("unsupported image format")
}

// GetDimensions extracts image dimensions
func (p *ProcessorServiceImpl) GetDimensions(data []byte) (width, height int, err error) {
	img, _, err := p.decodeImage(data)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image for dimensions: %w", err)
	}

	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy(), nil
}

// ValidateImage checks if image data is valid
func (p *ProcessorServiceImpl) ValidateImage(data []byte, maxSize int64) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("image size %d bytes exceeds maximum allowed %d bytes",
			len(data), maxSize)
	}

	if len(data) == 0 {
		return fmt.Errorf("empty image data")
	}

	format, err := p.DetectFormat(data)
	if err != nil {
		return fmt.Errorf("invalid image format: %w", err)
	}

	width, height, err := p.GetDimensions(data)
	if err != nil {
		return fmt.Errorf("invalid image dimensions: %w", err)
	}

	logger.Debug("Image validation passed",
		zap.String("format", format),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("size", len(data)))

	return nil
}

// Transcode decodes the raw image, optionally downscales it to fit the
// requested box (never upscales), and encodes the WebP primary plus the
// JPEG fallback rendition at the same quality.
func (p *ProcessorServiceImpl) Transcode(data []byte, opts TranscodeOptions) (*TranscodeResult, error) {
	logger.Debug("Transcoding image",
		zap.String("base_name", opts.BaseName),
		zap.Int("quality", opts.Quality),
		zap.Int("max_width", opts.MaxWidth),
		zap.Int("max_height", opts.MaxHeight))

	srcImage, format, err := p.decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode source image: %w", err)
	}

	bounds := srcImage.Bounds()
	originalWidth, originalHeight := bounds.Dx(), bounds.Dy()
	if originalWidth > p.maxWidth || originalHeight > p.maxHeight {
		return nil, fmt.Errorf("source dimensions %dx%d exceed maximum allowed %dx%d",
			originalWidth, originalHeight, p.maxWidth, p.maxHeight)
	}

	quality := clampQuality(opts.Quality)

	resized := srcImage
	if opts.MaxWidth > 0 || opts.MaxHeight > 0 {
		fitWidth, fitHeight := opts.MaxWidth, opts.MaxHeight
		if fitWidth <= 0 {
			fitWidth = originalWidth
		}
		if fitHeight <= 0 {
			fitHeight = originalHeight
		}
		// Fit never upscales when the box is larger than the source
		if fitWidth < originalWidth || fitHeight < originalHeight {
			resized = imaging.Fit(srcImage, fitWidth, fitHeight, imaging.Lanczos)
		}
	}

	webpData, err := p.encodeWebP(resized, quality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode webp rendition: %w", err)
	}

	jpegData, err := p.encodeJPEG(resized, quality, opts.BackgroundColor)
	if err != nil {
		return nil, fmt.Errorf("failed to encode jpeg rendition: %w", err)
	}

	outBounds := resized.Bounds()
	result := &TranscodeResult{
		WebP:           webpData,
		JPEG:           jpegData,
		Width:          outBounds.Dx(),
		Height:         outBounds.Dy(),
		OriginalWidth:  originalWidth,
		OriginalHeight: originalHeight,
		OriginalFormat: format,
		OriginalSize:   int64(len(data)),
	}

	logger.Debug("Transcoding completed",
		zap.Int("original_size", len(data)),
		zap.Int("webp_size", len(webpData)),
		zap.Int("jpeg_size", len(jpegData)),
		zap.Int("width", result.Width),
		zap.Int("height", result.Height))

	return result, nil
}

// Helper methods

// decodeImage decodes image data into image.Image
func (p *ProcessorServiceImpl) decodeImage(data []byte) (image.Image, string, error) {
	reader := bytes.NewReader(data)

	img, format, err := image.Decode(reader)
	if err != nil {
		// Try WebP specifically (not in standard library)
		reader.Seek(0, 0)
		if webpImg, webpErr := xwebp.Decode(reader); webpErr == nil {
			return webpImg, "webp", nil
		}
		return nil, "", err
	}

	return img, format, nil
}

// encodeWebP encodes the bitmap as lossy WebP at the given quality
func (p *ProcessorServiceImpl) encodeWebP(img image.Image, quality int) ([]byte, error) {
	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(quality))
	if err != nil {
		return nil, fmt.Errorf("failed to create webp encoder options: %w", err)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, options); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeJPEG encodes the bitmap as JPEG, flattening any alpha channel
// onto the configured background color since JPEG has no transparency
func (p *ProcessorServiceImpl) encodeJPEG(img image.Image, quality int, backgroundColor string) ([]byte, error) {
	if backgroundColor == "" {
		backgroundColor = "#ffffff"
	}
	background, err := colorx.ParseHexColor(backgroundColor)
	if err != nil {
		return nil, fmt.Errorf("failed to parse background color HEX: %w", err)
	}

	bounds := img.Bounds()
	canvas := imaging.New(bounds.Dx(), bounds.Dy(), background)
	flattened := imaging.Paste(canvas, img, image.Pt(0, 0))

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flattened, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// clampQuality forces quality into [1,100], defaulting to 85
func clampQuality(quality int) int {
	if quality == 0 {
		return 85
	}
	if quality < 1 {
		return 1
	}
	if quality > 100 {
		return 100
	}
	return quality
}
