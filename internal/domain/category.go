package domain

// DefaultCategoryColor is used when a category is created without an
// explicit color.
const DefaultCategoryColor = "#90A4AE"

// Category is a user-owned label for grouping tasks. Names are unique per
// owner; the color is a 6-digit hex string used by clients for display.
type Category struct {
	Timestamps
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
}
