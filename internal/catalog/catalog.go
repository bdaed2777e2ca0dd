// Package catalog decides which products are currently offerable on the
// cashier screen.
package catalog

import (
	"strings"
	"time"

	"github.com/adibratta/my-pos/internal/domain"
)

// Category is the cashier screen's type filter.
type Category string

const (
	CategoryAll      Category = "ALL"
	CategoryReady    Category = Category(domain.TypeReady)
	CategoryPreOrder Category = Category(domain.TypePreOrder)
)

// ParseCategory maps a raw filter value onto a known category, defaulting
// to ALL.
func ParseCategory(raw string) Category {
	switch Category(strings.ToUpper(strings.TrimSpace(raw))) {
	case CategoryReady:
		return CategoryReady
	case CategoryPreOrder:
		return CategoryPreOrder
	default:
		return CategoryAll
	}
}

// Offerable reports whether a product may be sold at the given instant.
// READY products are always offerable, even at zero stock (the cart rejects
// adding those). Pre-order products are offerable through the end of their
// deadline day, 23:59:59.999 in now's location, and drop out of the catalog
// entirely once strictly past it.
func Offerable(p domain.Product, now time.Time) bool {
	if p.Type != domain.TypePreOrder {
		return true
	}
	deadline := strings.TrimSpace(p.PODeadline)
	if deadline == "" {
		return true
	}
	day, err := time.ParseInLocation("2006-01-02", deadline, now.Location())
	if err != nil {
		return true
	}
	return now.Before(day.AddDate(0, 0, 1))
}

// Filter returns the offerable subset matching the search query
// (case-insensitive substring on name) and category.
func Filter(products []domain.Product, query string, category Category, now time.Time) []domain.Product {
	query = strings.ToLower(strings.TrimSpace(query))

	result := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		if category != CategoryAll && Category(p.Type) != category {
			continue
		}
		if !Offerable(p, now) {
			continue
		}
		result = append(result, p)
	}
	return result
}
