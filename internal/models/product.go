package models

// ProductView maps a catalog asset into the shape the storefront gallery
// renders. Commerce fields have no backing data in the catalog, so they
// carry fixed placeholder defaults and the presentation layer never sees
// missing values.
type ProductView struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	AltText      string   `json:"altText"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	Price        float64  `json:"price"`
	RentalPrice  float64  `json:"rentalPrice"`
	Sizes        []string `json:"sizes"`
	Colors       []string `json:"colors"`
	Available    bool     `json:"available"`
	Stock        string   `json:"stock"`
	DisplayOrder int      `json:"displayOrder"`
}

// ToProductView applies the storefront defaults for fields the catalog
// does not track.
func (a *ImageAsset) ToProductView() ProductView {
	return ProductView{
		ID:           a.ID,
		Name:         a.Title,
		Description:  a.Description,
		Image:        a.ImageURL,
		AltText:      a.AltText,
		Category:     a.Category,
		Tags:         a.Tags,
		Price:        0,
		RentalPrice:  0,
		Sizes:        []string{"S", "M", "L", "XL"},
		Colors:       []string{"as shown"},
		Available:    true,
		Stock:        "in-stock",
		DisplayOrder: a.DisplayOrder,
	}
}
