package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Category groups grocery items on the list.
type Category string

const (
	CategoryProduce Category = "Produce"
	CategoryDairy   Category = "Dairy"
	CategoryBakery  Category = "Bakery"
	CategoryMeat    Category = "Meat"
	CategoryFrozen  Category = "Frozen"
	CategoryPantry  Category = "Pantry"
	CategoryOther   Category = "Other"

	// CategoryAll is only meaningful as a filter selection; items never carry it.
	CategoryAll Category = "All"
)

var (
	ErrEmptyName       = errors.New("item name must not be empty")
	ErrInvalidPrice    = errors.New("price must be a non-negative number")
	ErrInvalidCategory = errors.New("unknown category")
)

// Categories lists every category an item may carry, in display order.
func Categories() []Category {
	return []Category{
		CategoryProduce,
		CategoryDairy,
		CategoryBakery,
		CategoryMeat,
		CategoryFrozen,
		CategoryPantry,
		CategoryOther,
	}
}

// Valid reports whether c is an item category (CategoryAll is not).
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory resolves a case-insensitive category name. "All" is accepted
// so filter selections can be parsed with the same helper.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, string(CategoryAll)) {
		return CategoryAll, nil
	}
	for _, c := range Categories() {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// Item represents a single entry on a grocery list.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	// Assigned by the client so optimistic inserts keep their identity.
	ID string `json:"id"`

	// OwnerID is the user this item belongs to.
	OwnerID string `json:"owner_id"`

	// Name is the trimmed, non-empty item name (e.g., "Milk").
	Name string `json:"name"`

	// Category is one of Categories().
	Category Category `json:"category"`

	// Completed is set once the item has been picked up.
	Completed bool `json:"completed"`

	// Price is stored exactly as provided; rounding is a display concern.
	Price float64 `json:"price"`

	// CreatedAt is the Unix timestamp in milliseconds. Lists are ordered by it, newest first.
	CreatedAt int64 `json:"created_at"`
}

// Validate checks the fields a user can edit.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if !i.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, i.Category)
	}
	return ValidatePrice(i.Price)
}

// ValidatePrice rejects negative, NaN and infinite prices.
func ValidatePrice(price float64) error {
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return ErrInvalidPrice
	}
	return nil
}
