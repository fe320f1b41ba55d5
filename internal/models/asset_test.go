package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTags(t *testing.T) {
	t.Run("lowercase_dedupe_drop_empties", func(t *testing.T) {
		tags := NormalizeTags([]string{"Wedding", "Formal", " ", "formal"})
		assert.Equal(t, []string{"wedding", "formal"}, tags)
	})

	t.Run("preserves_first_occurrence_order", func(t *testing.T) {
		tags := NormalizeTags([]string{"b", "A", "B", "a", "c"})
		assert.Equal(t, []string{"b", "a", "c"}, tags)
	})

	t.Run("trims_whitespace", func(t *testing.T) {
		tags := NormalizeTags([]string{"  suit  ", "\ttie"})
		assert.Equal(t, []string{"suit", "tie"}, tags)
	})

	t.Run("empty_input", func(t *testing.T) {
		assert.Empty(t, NormalizeTags(nil))
		assert.Empty(t, NormalizeTags([]string{"", "  "}))
	})
}

func TestParseTagList(t *testing.T) {
	t.Run("csv_round_trip", func(t *testing.T) {
		tags := ParseTagList("Wedding, Formal, , formal")
		assert.Equal(t, []string{"wedding", "formal"}, tags)
	})

	t.Run("empty_string", func(t *testing.T) {
		assert.Empty(t, ParseTagList(""))
		assert.Empty(t, ParseTagList("   "))
	})
}

func TestIsValidCategory(t *testing.T) {
	t.Run("accepts_known_categories", func(t *testing.T) {
		for _, category := range ValidCategories {
			assert.True(t, IsValidCategory(category), category)
		}
	})

	t.Run("rejects_unknown", func(t *testing.T) {
		assert.False(t, IsValidCategory("invalid"))
		assert.False(t, IsValidCategory(""))
		assert.False(t, IsValidCategory("Product"))
	})
}

func validAsset() *ImageAsset {
	return &ImageAsset{
		ID:          "11111111-2222-3333-4444-555555555555",
		Title:       "Blue Wedding Suit",
		Description: "Tailored blue wedding suit",
		ImageURL:    "http://localhost:8080/uploads/images/blue-wedding-suit-abcd1234.webp",
		AltText:     "Blue Wedding Suit - product image optimized for web",
		Category:    CategoryProduct,
		Tags:        []string{"wedding", "formal"},
		IsActive:    true,
		Metadata: AssetMetadata{
			FileSize:           120000,
			Dimensions:         Dimensions{Width: 1200, Height: 800},
			Format:             "webp",
			OriginalFormat:     "jpeg",
			CompressionQuality: 85,
			IsOptimized:        true,
		},
		UploadedBy: "admin",
	}
}

func TestImageAsset_Validate(t *testing.T) {
	t.Run("valid_asset", func(t *testing.T) {
		assert.NoError(t, validAsset().Validate())
	})

	t.Run("missing_title", func(t *testing.T) {
		asset := validAsset()
		asset.Title = "  "
		err := asset.Validate()
		assert.Error(t, err)
		assert.IsType(t, ValidationError{}, err)
		assert.Equal(t, "title", err.(ValidationError).Field)
	})

	t.Run("title_too_long", func(t *testing.T) {
		asset := validAsset()
		asset.Title = strings.Repeat("x", 101)
		assert.Error(t, asset.Validate())
	})

	t.Run("description_too_long", func(t *testing.T) {
		asset := validAsset()
		asset.Description = strings.Repeat("x", 501)
		assert.Error(t, asset.Validate())
	})

	t.Run("alt_text_required", func(t *testing.T) {
		asset := validAsset()
		asset.AltText = ""
		err := asset.Validate()
		assert.Error(t, err)
		assert.Equal(t, "altText", err.(ValidationError).Field)
	})

	t.Run("alt_text_too_long", func(t *testing.T) {
		asset := validAsset()
		asset.AltText = strings.Repeat("x", 126)
		assert.Error(t, asset.Validate())
	})

	t.Run("invalid_category", func(t *testing.T) {
		asset := validAsset()
		asset.Category = "invalid"
		err := asset.Validate()
		assert.Error(t, err)
		assert.Equal(t, "category", err.(ValidationError).Field)
	})

	t.Run("seo_title_charset", func(t *testing.T) {
		asset := validAsset()
		asset.SEOTitle = "Blue Suit! On Sale?"
		err := asset.Validate()
		assert.Error(t, err)
		assert.Equal(t, "seoTitle", err.(ValidationError).Field)

		asset.SEOTitle = "Blue Wedding Suit - 2024"
		assert.NoError(t, asset.Validate())
	})

	t.Run("quality_bounds", func(t *testing.T) {
		asset := validAsset()
		asset.Metadata.CompressionQuality = 0
		assert.Error(t, asset.Validate())

		asset.Metadata.CompressionQuality = 101
		assert.Error(t, asset.Validate())

		asset.Metadata.CompressionQuality = 1
		assert.NoError(t, asset.Validate())
	})

	t.Run("empty_tag_rejected", func(t *testing.T) {
		asset := validAsset()
		asset.Tags = []string{"wedding", " "}
		err := asset.Validate()
		assert.Error(t, err)
		assert.Equal(t, "tags", err.(ValidationError).Field)
	})
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.0 KB", FormatFileSize(1024))
	assert.Equal(t, "1.5 MB", FormatFileSize(1024*1024+512*1024))
	assert.Equal(t, "2.0 GB", FormatFileSize(2*1024*1024*1024))
}

func TestImageAsset_ToResponse(t *testing.T) {
	asset := validAsset()
	response := asset.ToResponse()

	assert.Equal(t, asset.ID, response.ID)
	assert.Equal(t, "117.2 KB", response.FormattedFileSize)
	assert.Equal(t, "1200x800", response.FormattedDimensions)
	assert.Greater(t, response.SEOScore, 0)
	assert.NotNil(t, response.SEORecommendations)
}

func TestImageAsset_ToProductView(t *testing.T) {
	asset := validAsset()
	product := asset.ToProductView()

	assert.Equal(t, asset.ID, product.ID)
	assert.Equal(t, asset.Title, product.Name)
	assert.Equal(t, asset.ImageURL, product.Image)
	assert.Equal(t, float64(0), product.Price)
	assert.Equal(t, float64(0), product.RentalPrice)
	assert.Equal(t, []string{"S", "M", "L", "XL"}, product.Sizes)
	assert.Equal(t, []string{"as shown"}, product.Colors)
	assert.True(t, product.Available)
	assert.Equal(t, "in-stock", product.Stock)
}

func TestErrorTypes(t *testing.T) {
	t.Run("validation_error", func(t *testing.T) {
		err := ValidationError{Field: "title", Message: "title is required"}
		assert.Contains(t, err.Error(), "title")
	})

	t.Run("not_found_error", func(t *testing.T) {
		err := NotFoundError{Resource: "image", ID: "abc"}
		assert.Contains(t, err.Error(), "abc")
	})

	t.Run("auth_error_is_uniform", func(t *testing.T) {
		err := AuthError{Reason: "token expired"}
		assert.Equal(t, "unauthorized", err.Error())
	})
}
