package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kasirkita/internal/model"
	"kasirkita/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// categoryService implements CategoryService.
type categoryService struct {
	categoryRepo repository.CategoryRepository
	logger       zerolog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(categoryRepo repository.CategoryRepository, logger zerolog.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		logger:       logger.With().Str("service", "category").Logger(),
	}
}

// GetAll retrieves all categories.
func (s *categoryService) GetAll(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

// GetByID retrieves a single category.
func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, model.ErrCategoryNotFound
	}
	return category, nil
}

// Create creates a new category.
func (s *categoryService) Create(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Category name is required")
	}

	category := &model.Category{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info().Str("category_id", category.ID.String()).Str("name", name).Msg("category created")

	return category, nil
}

// FindOrCreate resolves a category by name, creating it on first use.
func (s *categoryService) FindOrCreate(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Category name is required")
	}

	category, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}
	if category != nil {
		return category, nil
	}

	return s.Create(ctx, name)
}
