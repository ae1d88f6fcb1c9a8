package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
	"github.com/vetpharmacy/inventory-api/internal/core/ports"
)

// DefaultCategories are inserted into an empty store by the Seeder.
var DefaultCategories = []string{
	"Antibiotics",
	"Vaccines",
	"Parasite Control",
	"Pain Relief",
	"Vitamins and Supplements",
	"Skin and Coat Care",
	"Dental Care",
	"Ear Care",
	"Eye Care",
	"Digestive Health",
}

type sampleProduct struct {
	name          string
	category      string
	quantity      int
	arrivedAgo    time.Duration
	shelfLife     time.Duration
	writeOffAllow bool
}

const day = 24 * time.Hour

var sampleProducts = []sampleProduct{
	{"Amoxicillin 15%", "Antibiotics", 100, 10 * day, 365 * day, true},
	{"Ivermectin for dogs", "Parasite Control", 50, 5 * day, 730 * day, true},
	{"Vitamix B-complex", "Vitamins and Supplements", 30, 20 * day, 180 * day, true},
	{"Cat shampoo", "Skin and Coat Care", 20, 2 * day, 365 * day, false},
	{"Nobivac DHPPi vaccine", "Vaccines", 15, 30 * day, 120 * day, false},
}

// Seeder fills an empty store with reference data.
type Seeder struct {
	categories ports.CategoryRepository
	products   ports.ProductRepository
	logger     zerolog.Logger
	now        func() time.Time
}

func NewSeeder(categories ports.CategoryRepository, products ports.ProductRepository, logger zerolog.Logger) *Seeder {
	return &Seeder{categories: categories, products: products, logger: logger, now: time.Now}
}

// Seed inserts the default categories and sample products. It does nothing
// when at least one category already exists.
func (s *Seeder) Seed(ctx context.Context) error {
	n, err := s.categories.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed: count categories: %w", err)
	}
	if n > 0 {
		s.logger.Debug().Int64("categories", n).Msg("store already seeded")
		return nil
	}

	ids := make(map[string]int64, len(DefaultCategories))
	for _, name := range DefaultCategories {
		c := &domain.Category{Name: name}
		if err := s.categories.Create(ctx, c); err != nil {
			return fmt.Errorf("seed: create category %q: %w", name, err)
		}
		ids[name] = c.ID
	}

	today := s.now().UTC().Truncate(day)
	for _, sp := range sampleProducts {
		arrived := today.Add(-sp.arrivedAgo)
		p := &domain.Product{
			Name:              sp.name,
			Quantity:          sp.quantity,
			ArrivalDate:       arrived,
			ExpiryDate:        arrived.Add(sp.shelfLife),
			IsWriteOffAllowed: sp.writeOffAllow,
			CategoryID:        ids[sp.category],
		}
		if err := s.products.Create(ctx, p); err != nil {
			return fmt.Errorf("seed: create product %q: %w", sp.name, err)
		}
	}

	s.logger.Info().
		Int("categories", len(DefaultCategories)).
		Int("products", len(sampleProducts)).
		Msg("store seeded")
	return nil
}
