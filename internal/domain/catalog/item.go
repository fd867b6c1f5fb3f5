package catalog

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("product not found")
	ErrMissingTitle    = errors.New("title is required")
	ErrInvalidPrice    = errors.New("actual price must not be negative")
	ErrInvalidDiscount = errors.New("discounted price must be between 0 and the actual price")
)

// Item is a catalog product record. The catalog service owns these; the
// storefront only reads them, and the admin console mutates them through
// the same service.
type Item struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Category        string          `json:"category"`
	ActualPrice     decimal.Decimal `json:"actual_price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	DiscountPercent int             `json:"discount_percent"`
	Description     string          `json:"description"`
	Specs           []string        `json:"specs"`
	Benefits        []string        `json:"benefits"`
	Featured        bool            `json:"featured"`
	ImageURL        string          `json:"image_url"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Category is one of the store's fixed shopping categories.
type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Categories is the fixed category list products are filed under.
var Categories = []Category{
	{Name: "Skincare", Slug: "skincare"},
	{Name: "Facial Care", Slug: "facial-care"},
	{Name: "Hair Care", Slug: "hair-care"},
	{Name: "Scents", Slug: "perfumes"},
	{Name: "Baby Care", Slug: "baby-care"},
}

// ValidCategory reports whether slug is one of the fixed categories.
func ValidCategory(slug string) bool {
	for _, c := range Categories {
		if c.Slug == slug {
			return true
		}
	}
	return false
}

// Validate checks the price invariants on an item.
func (i Item) Validate() error {
	if i.Title == "" {
		return ErrMissingTitle
	}
	if i.ActualPrice.IsNegative() {
		return ErrInvalidPrice
	}
	if i.DiscountedPrice.IsNegative() || i.DiscountedPrice.GreaterThan(i.ActualPrice) {
		return ErrInvalidDiscount
	}
	return nil
}

// DiscountPercent derives the integer discount percentage from the two
// prices, rounded to the nearest whole percent. A zero actual price means
// no discount.
func DiscountPercent(actual, discounted decimal.Decimal) int {
	if actual.IsZero() {
		return 0
	}
	pct := actual.Sub(discounted).Div(actual).Mul(decimal.NewFromInt(100))
	return int(pct.Round(0).IntPart())
}
