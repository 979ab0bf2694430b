package calculator

import (
	"math"

	"github.com/mmynk/basket/internal/models"
)

// CategoryTotal is the count and price sum for one category.
type CategoryTotal struct {
	Category models.Category
	Count    int
	Total    float64
}

// Summary aggregates a grocery list.
type Summary struct {
	Count     int
	Completed int

	// Total is the sum of every item's price.
	Total float64

	// Remaining is the sum of prices of items not yet completed.
	Remaining float64

	// ByCategory has one entry per category present, in models.Categories() order.
	ByCategory []CategoryTotal
}

// Summarize computes totals for a list of items.
// Sums are rounded to cents only at the end so stored prices keep full precision.
func Summarize(items []models.Item) Summary {
	var s Summary
	perCategory := make(map[models.Category]*CategoryTotal)

	for _, item := range items {
		s.Count++
		s.Total += item.Price
		if item.Completed {
			s.Completed++
		} else {
			s.Remaining += item.Price
		}

		ct, ok := perCategory[item.Category]
		if !ok {
			ct = &CategoryTotal{Category: item.Category}
			perCategory[item.Category] = ct
		}
		ct.Count++
		ct.Total += item.Price
	}

	for _, c := range models.Categories() {
		if ct, ok := perCategory[c]; ok {
			ct.Total = roundCents(ct.Total)
			s.ByCategory = append(s.ByCategory, *ct)
		}
	}
	s.Total = roundCents(s.Total)
	s.Remaining = roundCents(s.Remaining)

	return s
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
