package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kasirkita/internal/cache"
	"kasirkita/internal/model"
	"kasirkita/internal/repository"
	"kasirkita/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	categories  CategoryService
	images      storage.ImageStore
	cache       cache.ProductCache
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	categories CategoryService,
	images storage.ImageStore,
	productCache cache.ProductCache,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo: productRepo,
		categories:  categories,
		images:      images,
		cache:       productCache,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves all products with pagination.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	products, err := s.productRepo.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

// GetByID retrieves a single product, read-through cached.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	if cached, err := s.cache.Get(ctx, id); err != nil {
		// Cache trouble never fails a read.
		s.logger.Warn().Err(err).Str("product_id", id.String()).Msg("product cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	if err := s.cache.Set(ctx, product); err != nil {
		s.logger.Warn().Err(err).Str("product_id", id.String()).Msg("product cache write failed")
	}

	return product, nil
}

// Create creates a product, storing the image when present.
func (s *productService) Create(ctx context.Context, createdBy uuid.UUID, input *model.ProductInput, image *ImageUpload) (*model.Product, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	product := &model.Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(*input.Name),
		Description: input.Description,
		Price:       *input.Price,
		Stock:       *input.Stock,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if input.Category != nil && strings.TrimSpace(*input.Category) != "" {
		category, err := s.categories.FindOrCreate(ctx, *input.Category)
		if err != nil {
			return nil, err
		}
		product.CategoryID = &category.ID
		product.Category = category
	}

	if image != nil {
		ref, err := s.storeImage(ctx, image)
		if err != nil {
			return nil, err
		}
		product.ImageURL = &ref
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		// Do not leave an orphaned image behind a failed insert.
		if product.ImageURL != nil {
			s.removeImage(ctx, *product.ImageURL)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID.String()).
		Str("name", product.Name).
		Msg("product created")

	return product, nil
}

// Update modifies a product; absent input fields keep their value.
func (s *productService) Update(ctx context.Context, id uuid.UUID, input *model.ProductInput, image *ImageUpload) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, model.NewDomainError(model.ErrCodeValidation, "Product name is required")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, model.NewDomainError(model.ErrCodeValidation, "Price must not be negative")
		}
		product.Price = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, model.NewDomainError(model.ErrCodeValidation, "Stock must not be negative")
		}
		product.Stock = *input.Stock
	}
	if input.Category != nil && strings.TrimSpace(*input.Category) != "" {
		category, err := s.categories.FindOrCreate(ctx, *input.Category)
		if err != nil {
			return nil, err
		}
		product.CategoryID = &category.ID
		product.Category = category
	}

	oldImage := product.ImageURL
	if image != nil {
		ref, err := s.storeImage(ctx, image)
		if err != nil {
			return nil, err
		}
		product.ImageURL = &ref
	}

	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		if image != nil && product.ImageURL != nil {
			s.removeImage(ctx, *product.ImageURL)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	// The replaced image is only removed once the row points elsewhere.
	if image != nil && oldImage != nil {
		s.removeImage(ctx, *oldImage)
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("product_id", id.String()).Msg("product cache invalidation failed")
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product updated")

	return product, nil
}

// Delete removes a product and its stored image.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return model.ErrProductNotFound
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	if product.ImageURL != nil {
		s.removeImage(ctx, *product.ImageURL)
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("product_id", id.String()).Msg("product cache invalidation failed")
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product deleted")

	return nil
}

func (s *productService) storeImage(ctx context.Context, image *ImageUpload) (string, error) {
	filename := uuid.New().String() + image.Ext

	ref, err := s.images.Save(ctx, filename, image.Content)
	if err != nil {
		return "", fmt.Errorf("failed to store product image: %w", err)
	}

	return ref, nil
}

func (s *productService) removeImage(ctx context.Context, ref string) {
	if err := s.images.Delete(ctx, ref); err != nil {
		s.logger.Warn().Err(err).Str("ref", ref).Msg("failed to remove product image")
	}
}

func validateCreate(input *model.ProductInput) error {
	if input == nil {
		return model.NewDomainError(model.ErrCodeValidation, "Product data is required")
	}
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return model.NewDomainError(model.ErrCodeValidation, "Product name is required")
	}
	if input.Price == nil {
		return model.NewDomainError(model.ErrCodeValidation, "Price is required")
	}
	if *input.Price < 0 {
		return model.NewDomainError(model.ErrCodeValidation, "Price must not be negative")
	}
	if input.Stock == nil {
		return model.NewDomainError(model.ErrCodeValidation, "Stock is required")
	}
	if *input.Stock < 0 {
		return model.NewDomainError(model.ErrCodeValidation, "Stock must not be negative")
	}
	return nil
}
