package service

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"catalogd/pkg/logger"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	xwebp "golang.org/x/image/webp"
)

// SEOServiceImpl implements the SEOService interface
type SEOServiceImpl struct{}

// NewSEOService creates a new upload-time SEO analyzer
func NewSEOService() SEOService {
	return &SEOServiceImpl{}
}

// Analyze inspects the raw image and the caller-supplied title/category and
// derives suggested metadata plus a heuristic score. Analysis failures
// degrade to a zero-score bundle instead of propagating.
func (s *SEOServiceImpl) Analyze(data []byte, filename, title, category string) *SEOAnalysis {
	analysis, err := s.analyze(data, filename, title, category)
	if err != nil {
		logger.Warn("SEO analysis failed, returning degraded result",
			zap.String("filename", filename),
			zap.Error(err))
		fallback := strings.TrimSuffix(filename, filepath.Ext(filename))
		return &SEOAnalysis{
			SuggestedAltText:  fallback,
			SuggestedSEOTitle: fallback,
			TechnicalSEO:      &TechnicalSEO{},
			Score:             0,
			Recommendations:   []string{"Image analysis failed - manual review recommended"},
		}
	}
	return analysis
}

func (s *SEOServiceImpl) analyze(data []byte, filename, title, category string) (*SEOAnalysis, error) {
	reader := bytes.NewReader(data)
	img, format, err := image.Decode(reader)
	if err != nil {
		reader.Seek(0, 0)
		webpImg, webpErr := xwebp.Decode(reader)
		if webpErr != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
		img, format = webpImg, "webp"
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("degenerate image dimensions %dx%d", width, height)
	}

	score := 0
	recommendations := []string{}

	// Encoded format
	switch format {
	case "webp":
		score += 25
	case "jpeg":
		score += 15
	case "png":
		score += 10
	}

	// Byte size, first matching bracket only
	size := int64(len(data))
	switch {
	case size < 100*1024:
		score += 20
	case size < 500*1024:
		score += 15
	case size < 1024*1024:
		score += 10
	}

	// Dimension ceiling
	switch {
	case width <= 1920 && height <= 1080:
		score += 15
	case width <= 2560 && height <= 1440:
		score += 10
	}

	// Responsive friendliness
	if width >= 800 {
		score += 10
	}
	if width < 1200 {
		score += 5
	}

	if score > 100 {
		score = 100
	}

	if size > 500*1024 {
		recommendations = append(recommendations, "Image is larger than 500KB, compress further for faster loading")
	}
	if width > 2560 {
		recommendations = append(recommendations, "Image is very large, consider resizing for web use")
	}
	if len(strings.TrimSpace(title)) < 10 {
		recommendations = append(recommendations, "Add a descriptive title of at least 10 characters")
	}
	if format != "webp" {
		recommendations = append(recommendations, "Convert image to WebP format for better performance")
	}

	return &SEOAnalysis{
		SuggestedAltText:  suggestAltText(filename, title, category),
		SuggestedSEOTitle: suggestSEOTitle(filename, title),
		TechnicalSEO:      s.technicalSEO(img, width, height),
		Score:             score,
		Recommendations:   recommendations,
	}, nil
}

// suggestAltText derives accessibility text from the title and category,
// falling back to the filename base when no title was given
func suggestAltText(filename, title, category string) string {
	base := strings.TrimSpace(title)
	if base == "" {
		base = strings.TrimSuffix(filename, filepath.Ext(filename))
	}
	suggestion := fmt.Sprintf("%s - %s image optimized for web", base, category)
	if len(suggestion) > 125 {
		suggestion = suggestion[:125]
	}
	return suggestion
}

// suggestSEOTitle proposes a search-facing title bounded to 60 characters
func suggestSEOTitle(filename, title string) string {
	suggestion := strings.TrimSpace(title)
	if suggestion == "" {
		suggestion = strings.TrimSuffix(filename, filepath.Ext(filename))
	}
	if len(suggestion) > 60 {
		suggestion = strings.TrimSpace(suggestion[:60])
	}
	return suggestion
}

// technicalSEO reports orientation, color characteristics and pixel density
func (s *SEOServiceImpl) technicalSEO(img image.Image, width, height int) *TechnicalSEO {
	divisor := gcd(width, height)

	colorSpace := "srgb"
	hasAlpha := false
	switch img.(type) {
	case *image.NRGBA, *image.RGBA, *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
	case *image.Gray, *image.Gray16:
		colorSpace = "grayscale"
	case *image.YCbCr:
		colorSpace = "ycbcr"
	case *image.CMYK:
		colorSpace = "cmyk"
	}

	// Sample the dominant color by collapsing the bitmap to one pixel
	dominant := imaging.Resize(img, 1, 1, imaging.Lanczos)
	r, g, b, _ := dominant.At(0, 0).RGBA()

	return &TechnicalSEO{
		AspectRatio:   fmt.Sprintf("%d:%d", width/divisor, height/divisor),
		IsLandscape:   width > height,
		IsSquare:      width == height,
		IsPortrait:    height > width,
		ColorSpace:    colorSpace,
		HasAlpha:      hasAlpha,
		DominantColor: fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8),
		Density:       fmt.Sprintf("%.1fMP", float64(width*height)/1e6),
	}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
