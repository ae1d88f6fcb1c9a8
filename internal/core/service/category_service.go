package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
	"github.com/vetpharmacy/inventory-api/internal/core/ports"
)

type CategoryService struct {
	repo   ports.CategoryRepository
	logger zerolog.Logger
}

func NewCategoryService(repo ports.CategoryRepository, logger zerolog.Logger) *CategoryService {
	return &CategoryService{repo: repo, logger: logger}
}

func (s *CategoryService) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	name, err := cleanName("name", c.Name)
	if err != nil {
		return nil, err
	}
	created := &domain.Category{Name: name}
	if err := s.repo.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.logger.Info().Int64("category_id", created.ID).Msg("category created")
	return created, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	if id <= 0 {
		return nil, domain.Invalid("id must be a positive integer")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *CategoryService) List(ctx context.Context, filter ports.CategoryFilter) (*ports.PageResult[*domain.Category], error) {
	filter.Page = filter.Page.Normalize()
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return newPage(items, total, filter.Page), nil
}

// Update replaces the category identified by id.
func (s *CategoryService) Update(ctx context.Context, id int64, c *domain.Category) error {
	if err := checkPathID(id, c.ID); err != nil {
		return err
	}
	name, err := cleanName("name", c.Name)
	if err != nil {
		return err
	}
	err = s.repo.Update(ctx, &domain.Category{ID: id, Name: name})
	if err != nil {
		return resolveStaleWrite(ctx, err, id, s.repo.Exists, domain.ErrCategoryNotFound)
	}
	return nil
}

// Delete removes the category and, through the store, its products.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.Invalid("id must be a positive integer")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("category_id", id).Msg("category deleted")
	return nil
}
