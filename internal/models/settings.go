package models

// Settings stores the restaurant profile managed via the admin panel.
// There should be only one row (singleton pattern).
type Settings struct {
	BaseModel
	RestaurantName string       `json:"restaurant_name"`
	Tagline        string       `json:"tagline"`
	Description    string       `json:"description"`
	Phone          string       `json:"phone"`
	Email          string       `json:"email"`
	Address        string       `json:"address"`
	Currency       string       `json:"currency"`
	Hours          OpeningHours `gorm:"embedded;embeddedPrefix:hours_" json:"hours"`

	DeliveryEnabled       bool    `json:"delivery_enabled"`
	DeliveryRadiusKm      float64 `json:"delivery_radius_km"`
	MinimumOrder          float64 `json:"minimum_order"`
	DeliveryFee           float64 `json:"delivery_fee"`
	FreeDeliveryThreshold float64 `json:"free_delivery_threshold"`
	TaxRate               float64 `json:"tax_rate"`

	Social SocialLinks `gorm:"embedded;embeddedPrefix:social_" json:"social"`
}

// OpeningHours holds a free-form opening window per weekday, e.g. "11:00 - 22:00".
type OpeningHours struct {
	Monday    string `json:"monday"`
	Tuesday   string `json:"tuesday"`
	Wednesday string `json:"wednesday"`
	Thursday  string `json:"thursday"`
	Friday    string `json:"friday"`
	Saturday  string `json:"saturday"`
	Sunday    string `json:"sunday"`
}

type SocialLinks struct {
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
	TikTok    string `json:"tiktok"`
	Youtube   string `json:"youtube"`
}

// DefaultSettings returns the record created on first read.
func DefaultSettings() Settings {
	weekday := "11:00 - 22:00"
	weekend := "10:00 - 23:00"
	return Settings{
		RestaurantName: "Bistro",
		Tagline:        "Fresh food, made to order",
		Description:    "A neighbourhood kitchen serving seasonal dishes.",
		Phone:          "+1 555 010 0100",
		Email:          "hello@bistro.example",
		Address:        "1 Main Street",
		Currency:       "USD",
		Hours: OpeningHours{
			Monday:    weekday,
			Tuesday:   weekday,
			Wednesday: weekday,
			Thursday:  weekday,
			Friday:    weekend,
			Saturday:  weekend,
			Sunday:    weekend,
		},
		DeliveryEnabled:       true,
		DeliveryRadiusKm:      10,
		MinimumOrder:          0,
		DeliveryFee:           5.99,
		FreeDeliveryThreshold: 50,
		TaxRate:               0.08,
	}
}
