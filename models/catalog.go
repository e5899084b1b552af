package models

import "time"

// Catalog image size keys as used by the server's image URL sets.
const (
	ImageSizeThumb = "thumb"
	ImageSizeView  = "view"
	ImageSizeZoom  = "zoom"
)

// Branding carries the dealer's presentation metadata attached to catalogs
// and stores.
type Branding struct {
	Name    string `json:"name"`
	URLName string `json:"url_name"`
	Website string `json:"website,omitempty"`
	Logo    string `json:"logo,omitempty"`
	Color   string `json:"color,omitempty"`
}

// Catalog is the read-only catalog model returned by the catalog endpoints.
// The SDK never mutates catalogs; they are served cache-then-network.
type Catalog struct {
	ID              string    `json:"id"`
	Label           string    `json:"label"`
	BackgroundColor string    `json:"background_color,omitempty"`
	RunFrom         time.Time `json:"run_from"`
	RunTill         time.Time `json:"run_till"`
	PageCount       int       `json:"page_count"`
	OfferCount      int       `json:"offer_count"`

	Branding *Branding `json:"branding,omitempty"`

	DealerID string `json:"dealer_id"`
	StoreID  string `json:"store_id,omitempty"`

	// ImageURLBySize maps an image size key (thumb/view/zoom) to the cover
	// image URL in that size.
	ImageURLBySize map[string]string `json:"images,omitempty"`

	// PageImageURLsBySize maps an image size key to the ordered page image
	// URLs in that size.
	PageImageURLsBySize map[string][]string `json:"pages,omitempty"`
}

// ImageURL returns the cover image URL for the given size key, or an empty
// string if the catalog carries no image in that size.
func (c *Catalog) ImageURL(size string) string {
	return c.ImageURLBySize[size]
}

// PageImageURLs returns the ordered page image URLs for the given size key.
func (c *Catalog) PageImageURLs(size string) []string {
	return c.PageImageURLsBySize[size]
}

// Store is the read-only store model returned by the store endpoints.
type Store struct {
	ID        string    `json:"id"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	ZipCode   string    `json:"zip_code"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	DealerID  string    `json:"dealer_id"`
	Branding  *Branding `json:"branding,omitempty"`
}

// CatalogQuery filters and pages a catalog listing request.
type CatalogQuery struct {
	CatalogIDs []string
	DealerIDs  []string
	StoreIDs   []string

	// OrderBy holds server-side sort keys, e.g. "-popularity".
	OrderBy []string

	Limit  int
	Offset int
}
