// Package catalog holds the product list shared by every user of the shop.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/flicky/go-shop/internal/filter"
	"github.com/flicky/go-shop/internal/model"
)

var ErrDuplicateProduct = errors.New("duplicate product id")

type Catalog struct {
	mu       sync.RWMutex
	products []*model.Product
	byID     map[string]*model.Product
}

func New() *Catalog {
	return &Catalog{byID: make(map[string]*model.Product)}
}

// AddProduct appends p. Ids are unique; a second product with the same id is
// rejected.
func (c *Catalog) AddProduct(p *model.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byID[p.ID()]; ok {
		return fmt.Errorf("add product %s: %w", p.ID(), ErrDuplicateProduct)
	}
	c.products = append(c.products, p)
	c.byID[p.ID()] = p
	return nil
}

func (c *Catalog) ProductByID(id string) (*model.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	return p, ok
}

func (c *Catalog) AllProducts() []*model.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*model.Product(nil), c.products...)
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}

// FilterProducts returns matching products in catalog order.
func (c *Catalog) FilterProducts(f filter.Filter) []*model.Product {
	all := c.AllProducts()
	out := make([]*model.Product, 0, len(all))
	for _, p := range all {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// RecommendedProducts ranks the products u has rated, best first. Equal
// ratings keep the order in which u rated them.
func (c *Catalog) RecommendedProducts(u *model.User) []*model.Product {
	type ranked struct {
		p      *model.Product
		rating float64
	}
	rated := u.RatedProducts()
	items := make([]ranked, 0, len(rated))
	for _, p := range rated {
		r, ok := p.Rating()
		if !ok {
			continue
		}
		items = append(items, ranked{p: p, rating: r})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].rating > items[j].rating })

	out := make([]*model.Product, len(items))
	for i, it := range items {
		out[i] = it.p
	}
	return out
}
