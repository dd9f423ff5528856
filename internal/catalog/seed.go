package catalog

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/flicky/go-shop/internal/model"
)

type SeedProduct struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Price        string   `yaml:"price"`
	Manufacturer string   `yaml:"manufacturer"`
	Categories   []string `yaml:"categories"`
}

func DefaultSeed() []SeedProduct {
	return []SeedProduct{
		{ID: "1", Name: "Smartphone", Price: "49000", Manufacturer: "Tech", Categories: []string{"electronics", "phones"}},
		{ID: "2", Name: "Laptop", Price: "139000", Manufacturer: "Tech", Categories: []string{"electronics", "computers"}},
		{ID: "3", Name: "Headphones", Price: "19999", Manufacturer: "Audio", Categories: []string{"electronics", "audio"}},
		{ID: "4", Name: "Book", Price: "679", Manufacturer: "Book", Categories: []string{"books", "literature"}},
		{ID: "5", Name: "Mouse", Price: "5899", Manufacturer: "Tech", Categories: []string{"electronics", "computers", "accessories"}},
	}
}

// LoadSeedFile reads a YAML list of products.
func LoadSeedFile(path string) ([]SeedProduct, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed []SeedProduct
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return seed, nil
}

func Seed(c *Catalog, seed []SeedProduct) error {
	for _, s := range seed {
		if s.ID == "" {
			return fmt.Errorf("seed product %q: empty id", s.Name)
		}
		price, err := decimal.NewFromString(s.Price)
		if err != nil {
			return fmt.Errorf("seed product %s: parse price: %w", s.ID, err)
		}
		if price.IsNegative() {
			return fmt.Errorf("seed product %s: negative price %s", s.ID, price)
		}
		if err := c.AddProduct(model.NewProduct(s.ID, s.Name, price, s.Manufacturer, s.Categories)); err != nil {
			return err
		}
	}
	return nil
}
