package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
	"github.com/vetpharmacy/inventory-api/internal/core/ports"
)

type ProductService struct {
	repo       ports.ProductRepository
	categories ports.CategoryRepository
	logger     zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, categories ports.CategoryRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, categories: categories, logger: logger}
}

func (s *ProductService) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	created, err := s.validate(ctx, p)
	if err != nil {
		return nil, err
	}
	created.ID = 0
	if err := s.repo.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.logger.Info().Int64("product_id", created.ID).Int64("category_id", created.CategoryID).Msg("product created")

	// Re-read so the response carries the embedded category.
	full, err := s.repo.FindByID(ctx, created.ID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("product_id", created.ID).Msg("re-read after create failed, returning product without category")
		return created, nil
	}
	return full, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, domain.Invalid("id must be a positive integer")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, filter ports.ProductFilter) (*ports.PageResult[*domain.Product], error) {
	switch filter.Sort {
	case "":
		filter.Sort = domain.SortDesc
	case domain.SortAsc, domain.SortDesc:
	default:
		return nil, domain.Invalid("sort must be asc or desc")
	}
	if filter.CategoryID < 0 {
		return nil, domain.Invalid("category_id must be a positive integer")
	}
	filter.Page = filter.Page.Normalize()

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return newPage(items, total, filter.Page), nil
}

// Update replaces the product identified by id.
func (s *ProductService) Update(ctx context.Context, id int64, p *domain.Product) error {
	if err := checkPathID(id, p.ID); err != nil {
		return err
	}
	updated, err := s.validate(ctx, p)
	if err != nil {
		return err
	}
	updated.ID = id
	if err := s.repo.Update(ctx, updated); err != nil {
		return resolveStaleWrite(ctx, err, id, s.repo.Exists, domain.ErrProductNotFound)
	}
	return nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.Invalid("id must be a positive integer")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

// validate returns a cleaned copy of p with the category reference checked.
func (s *ProductService) validate(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	name, err := cleanName("name", p.Name)
	if err != nil {
		return nil, err
	}
	if p.Quantity < 0 {
		return nil, domain.Invalid("quantity must not be negative")
	}
	if p.ArrivalDate.IsZero() || p.ExpiryDate.IsZero() {
		return nil, domain.Invalid("arrival_date and expiry_date are required")
	}
	if p.CategoryID <= 0 {
		return nil, domain.Invalid("category_id is required")
	}
	ok, err := s.categories.Exists(ctx, p.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("check category: %w", err)
	}
	if !ok {
		return nil, domain.ErrUnknownCategory
	}

	out := *p
	out.Name = name
	out.Category = nil
	return &out, nil
}
