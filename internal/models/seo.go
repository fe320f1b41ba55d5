package models

import "strings"

// ScoreAsset computes the persisted-record SEO score and the matching
// recommendations from the asset's current fields. The score is additive
// and capped at 100; recommendations are emitted in a fixed order so
// repeated reads of an unchanged record produce identical output.
func ScoreAsset(a *ImageAsset) (int, []string) {
	score := 0
	recommendations := []string{}

	// Alt text
	altLen := len(a.AltText)
	switch {
	case altLen >= 10 && altLen <= 125:
		score += 25
	case altLen > 0:
		score += 15
		recommendations = append(recommendations, "Alt text should be between 10 and 125 characters")
	default:
		recommendations = append(recommendations, "Add descriptive alt text for accessibility and SEO")
	}

	// Title
	titleLen := len(a.Title)
	switch {
	case titleLen >= 10 && titleLen <= 60:
		score += 20
	case titleLen > 0:
		score += 10
		recommendations = append(recommendations, "Title should be between 10 and 60 characters")
	default:
		recommendations = append(recommendations, "Add a descriptive title")
	}

	// SEO title
	seoTitleLen := len(a.SEOTitle)
	switch {
	case seoTitleLen >= 10 && seoTitleLen <= 60:
		score += 15
	case seoTitleLen > 0:
		score += 8
		recommendations = append(recommendations, "SEO title should be between 10 and 60 characters")
	default:
		recommendations = append(recommendations, "Add an SEO title")
	}

	// SEO description
	seoDescLen := len(a.SEODescription)
	switch {
	case seoDescLen >= 120 && seoDescLen <= 160:
		score += 15
	case seoDescLen >= 50:
		score += 10
		recommendations = append(recommendations, "SEO description should be between 120 and 160 characters")
	case seoDescLen > 0:
		score += 5
		recommendations = append(recommendations, "SEO description should be between 120 and 160 characters")
	default:
		recommendations = append(recommendations, "Add an SEO description")
	}

	// Focus keyword
	if a.FocusKeyword != "" {
		score += 5
		keyword := strings.ToLower(a.FocusKeyword)
		if strings.Contains(strings.ToLower(a.Title), keyword) ||
			strings.Contains(strings.ToLower(a.AltText), keyword) {
			score += 5
		} else {
			recommendations = append(recommendations, "Include the focus keyword in the title or alt text")
		}
	} else {
		recommendations = append(recommendations, "Add a focus keyword")
	}

	// Format
	switch strings.ToLower(a.Metadata.Format) {
	case "webp":
		score += 10
	case "jpg", "jpeg", "png":
		score += 5
		recommendations = append(recommendations, "Convert image to WebP format for better performance")
	default:
		recommendations = append(recommendations, "Convert image to WebP format for better performance")
	}

	// Optimization flag
	if a.Metadata.IsOptimized {
		score += 5
	} else {
		recommendations = append(recommendations, "Optimize the image to reduce file size")
	}

	// File size advisory, not scored
	if a.Metadata.FileSize > 500*1024 {
		recommendations = append(recommendations, "File size exceeds 500KB, consider further compression")
	}

	if score > 100 {
		score = 100
	}
	return score, recommendations
}
