package models

import "github.com/google/uuid"

// MenuCategory is the closed set of menu sections.
type MenuCategory string

const (
	CategoryAppetizers MenuCategory = "appetizers"
	CategoryMains      MenuCategory = "mains"
	CategoryPizza      MenuCategory = "pizza"
	CategoryPasta      MenuCategory = "pasta"
	CategorySalads     MenuCategory = "salads"
	CategoryDesserts   MenuCategory = "desserts"
	CategoryBeverages  MenuCategory = "beverages"
	CategorySides      MenuCategory = "sides"
)

// MenuCategories lists every category in display order.
var MenuCategories = []MenuCategory{
	CategoryAppetizers,
	CategoryMains,
	CategoryPizza,
	CategoryPasta,
	CategorySalads,
	CategoryDesserts,
	CategoryBeverages,
	CategorySides,
}

// Valid reports whether c is one of MenuCategories.
func (c MenuCategory) Valid() bool {
	for _, known := range MenuCategories {
		if c == known {
			return true
		}
	}
	return false
}

// MenuItem is a dish or drink offered by the restaurant.
// Rating and ReviewCount are derived from Review rows.
type MenuItem struct {
	BaseModel
	Name        string       `gorm:"not null" json:"name"`
	Description string       `json:"description"`
	Price       float64      `gorm:"not null" json:"price"`
	Category    MenuCategory `gorm:"type:varchar(32);index;not null" json:"category"`
	Image       string       `json:"image"`
	IsAvailable bool         `json:"is_available"`
	IsFeatured  bool         `json:"is_featured"`
	PrepTime    int          `json:"prep_time"`
	Rating      float64      `json:"rating"`
	ReviewCount int          `json:"review_count"`
	Ingredients StringList   `json:"ingredients"`
	Allergens   StringList   `json:"allergens"`
	Reviews     []Review     `json:"reviews,omitempty"`
}

// Review is a single customer rating of a menu item.
type Review struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_reviews_user_item" json:"user_id"`
	User       *User     `json:"user,omitempty"`
	MenuItemID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_reviews_user_item" json:"menu_item_id"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `json:"comment"`
}
