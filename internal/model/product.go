package model

import (
	"fmt"
	"math"
	"sync"

	"github.com/shopspring/decimal"
)

const (
	MinRating = 0.0
	MaxRating = 5.0
)

// Product is a catalog entry. Everything except the rating is fixed at
// construction.
type Product struct {
	id           string
	name         string
	price        decimal.Decimal
	manufacturer string
	categories   []string

	mu     sync.RWMutex
	rating *float64
}

func NewProduct(id, name string, price decimal.Decimal, manufacturer string, categories []string) *Product {
	return &Product{
		id:           id,
		name:         name,
		price:        price,
		manufacturer: manufacturer,
		categories:   append([]string(nil), categories...),
	}
}

func (p *Product) ID() string             { return p.id }
func (p *Product) Name() string           { return p.name }
func (p *Product) Price() decimal.Decimal { return p.price }
func (p *Product) Manufacturer() string   { return p.manufacturer }

func (p *Product) Categories() []string {
	return append([]string(nil), p.categories...)
}

// Rating reports the current rating and whether the product was ever rated.
func (p *Product) Rating() (float64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.rating == nil {
		return 0, false
	}
	return *p.rating, true
}

// UpdateRating replaces the rating. Values outside [MinRating, MaxRating]
// are rejected and leave the previous rating in place.
func (p *Product) UpdateRating(r float64) error {
	if math.IsNaN(r) || r < MinRating || r > MaxRating {
		return fmt.Errorf("%w: %v not in [%v, %v]", ErrRatingOutOfRange, r, MinRating, MaxRating)
	}
	p.mu.Lock()
	p.rating = &r
	p.mu.Unlock()
	return nil
}
