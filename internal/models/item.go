package models

// MenuItem represents a single orderable entry in the menu catalog.
// Base items come from the static menu document; user-created items are
// appended at runtime and persisted. IDs are unique across both.
type MenuItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Icon     string  `json:"icon"`
	IconName string  `json:"icon-name,omitempty"`
	Image    string  `json:"image,omitempty"`
}

// NewCategorySentinel in ItemDraft.Category signals that the submitter wants
// a category that does not exist yet; the name is carried in NewCategory.
const NewCategorySentinel = "NEW_CATEGORY"

// ItemDraft is an incoming request to create a menu item. Price arrives as a
// free-form string so parse failures can be reported per-field instead of
// failing JSON decoding.
type ItemDraft struct {
	Name        string `json:"name" validate:"required,max=50"`
	Price       string `json:"price" validate:"required"`
	Category    string `json:"category"`
	NewCategory string `json:"newCategory,omitempty"`
	Icon        string `json:"icon,omitempty"`
	IconName    string `json:"iconName,omitempty"`
	Image       string `json:"image,omitempty" validate:"omitempty,url"`
}
