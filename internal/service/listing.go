package service

import (
	"sort"
	"strings"

	"catalogd/internal/models"
)

// sortFields is the allowlist of sortable asset fields
var sortFields = map[string]bool{
	"createdAt":    true,
	"updatedAt":    true,
	"title":        true,
	"category":     true,
	"displayOrder": true,
}

const (
	defaultAdminPageSize  = 20
	defaultPublicPageSize = 50
	maxPageSize           = 100
)

// normalizeFilter fills defaults and bounds the page window
func normalizeFilter(filter models.ListFilter, defaultLimit int) models.ListFilter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if !sortFields[filter.SortBy] {
		filter.SortBy = "createdAt"
	}
	if filter.SortOrder != "asc" && filter.SortOrder != "desc" {
		filter.SortOrder = "desc"
	}
	filter.Tags = models.NormalizeTags(filter.Tags)
	return filter
}

// filterAssets applies the category, active, search and tag predicates
func filterAssets(assets []*models.ImageAsset, filter models.ListFilter) []*models.ImageAsset {
	matched := make([]*models.ImageAsset, 0, len(assets))
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	for _, asset := range assets {
		if filter.Category != "" && asset.Category != filter.Category {
			continue
		}
		if filter.IsActive != nil && asset.IsActive != *filter.IsActive {
			continue
		}
		if search != "" && !matchesSearch(asset, search, filter.MatchAltText) {
			continue
		}
		if len(filter.Tags) > 0 && !matchesAnyTag(asset, filter.Tags) {
			continue
		}
		matched = append(matched, asset)
	}
	return matched
}

// matchesSearch checks a case-insensitive substring match across the
// asset's text fields
func matchesSearch(asset *models.ImageAsset, search string, matchAltText bool) bool {
	if strings.Contains(strings.ToLower(asset.Title), search) {
		return true
	}
	if strings.Contains(strings.ToLower(asset.Description), search) {
		return true
	}
	if matchAltText && strings.Contains(strings.ToLower(asset.AltText), search) {
		return true
	}
	for _, tag := range asset.Tags {
		if strings.Contains(tag, search) {
			return true
		}
	}
	return false
}

// matchesAnyTag checks whether the asset carries at least one of the
// requested tags
func matchesAnyTag(asset *models.ImageAsset, tags []string) bool {
	for _, want := range tags {
		for _, have := range asset.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// sortAssets orders assets by the requested field and direction
func sortAssets(assets []*models.ImageAsset, sortBy, sortOrder string) {
	asc := sortOrder == "asc"
	sort.SliceStable(assets, func(i, j int) bool {
		var less bool
		switch sortBy {
		case "title":
			less = strings.ToLower(assets[i].Title) < strings.ToLower(assets[j].Title)
		case "category":
			less = assets[i].Category < assets[j].Category
		case "displayOrder":
			less = assets[i].DisplayOrder < assets[j].DisplayOrder
		case "updatedAt":
			less = assets[i].UpdatedAt.Before(assets[j].UpdatedAt)
		default: // createdAt
			less = assets[i].CreatedAt.Before(assets[j].CreatedAt)
		}
		if asc {
			return less
		}
		return !less
	})
}

// paginate slices one page out of the filtered set and reports the window
func paginate(assets []*models.ImageAsset, page, limit int) ([]*models.ImageAsset, models.Pagination) {
	total := int64(len(assets))
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * limit
	if start > len(assets) {
		start = len(assets)
	}
	end := start + limit
	if end > len(assets) {
		end = len(assets)
	}

	return assets[start:end], models.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}
