package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/flicky/go-shop/internal/catalog"
	"github.com/flicky/go-shop/internal/filter"
	"github.com/flicky/go-shop/internal/model"
)

// Ratings entered by users must be within [MinUserRating, MaxUserRating];
// the product itself accepts the wider model.MinRating..model.MaxRating.
const (
	MinUserRating = 1.0
	MaxUserRating = 5.0
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

func (s *Shop) Catalog() *catalog.Catalog { return s.catalog }

func (s *Shop) Products(_ context.Context) []*model.Product {
	return s.catalog.AllProducts()
}

func (s *Shop) Product(_ context.Context, id string) (*model.Product, error) {
	p, ok := s.catalog.ProductByID(id)
	if !ok {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *Shop) Search(_ context.Context, f filter.Filter) []*model.Product {
	return s.catalog.FilterProducts(f)
}

func (s *Shop) RateProduct(ctx context.Context, sess *model.Session, productID string, rating float64) (*model.Product, error) {
	p, err := s.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	if rating < MinUserRating || rating > MaxUserRating {
		return nil, ErrInvalidRating
	}
	if err := p.UpdateRating(rating); err != nil {
		return nil, fmt.Errorf("update rating: %w", err)
	}
	sess.User.AddRatedProduct(p)
	return p, nil
}

func (s *Shop) Recommendations(_ context.Context, sess *model.Session) []*model.Product {
	return s.catalog.RecommendedProducts(sess.User)
}
