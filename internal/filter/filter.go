// Package filter holds predicates used to search the product catalog.
package filter

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/flicky/go-shop/internal/model"
)

// Filter reports whether a product belongs in a search result. Filters carry
// no mutable state.
type Filter interface {
	Matches(p *model.Product) bool
}

// Func adapts a plain function to Filter.
type Func func(p *model.Product) bool

func (f Func) Matches(p *model.Product) bool { return f(p) }

// Keyword matches a case-insensitive substring of the name, manufacturer or
// any category.
type Keyword struct {
	keyword string
}

func NewKeyword(keyword string) Keyword {
	return Keyword{keyword: strings.ToLower(keyword)}
}

func (f Keyword) Matches(p *model.Product) bool {
	if strings.Contains(strings.ToLower(p.Name()), f.keyword) ||
		strings.Contains(strings.ToLower(p.Manufacturer()), f.keyword) {
		return true
	}
	for _, c := range p.Categories() {
		if strings.Contains(strings.ToLower(c), f.keyword) {
			return true
		}
	}
	return false
}

// PriceRange matches prices in [Min, Max]. Min > Max matches nothing.
type PriceRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

func NewPriceRange(min, max decimal.Decimal) PriceRange {
	return PriceRange{Min: min, Max: max}
}

func (f PriceRange) Matches(p *model.Product) bool {
	price := p.Price()
	return price.GreaterThanOrEqual(f.Min) && price.LessThanOrEqual(f.Max)
}

// Manufacturer matches a case-insensitive substring of the manufacturer.
type Manufacturer struct {
	manufacturer string
}

func NewManufacturer(manufacturer string) Manufacturer {
	return Manufacturer{manufacturer: strings.ToLower(manufacturer)}
}

func (f Manufacturer) Matches(p *model.Product) bool {
	return strings.Contains(strings.ToLower(p.Manufacturer()), f.manufacturer)
}

// All matches when every filter matches. With no filters it matches
// everything.
func All(filters ...Filter) Filter {
	return Func(func(p *model.Product) bool {
		for _, f := range filters {
			if !f.Matches(p) {
				return false
			}
		}
		return true
	})
}

// Any matches when at least one filter matches.
func Any(filters ...Filter) Filter {
	return Func(func(p *model.Product) bool {
		for _, f := range filters {
			if f.Matches(p) {
				return true
			}
		}
		return false
	})
}
