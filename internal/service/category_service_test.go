package service

import (
	"context"
	"testing"

	"kasirkita/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetAll(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByName(ctx context.Context, name string) (*model.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func TestCategoryService_FindOrCreate_ExistingCategory(t *testing.T) {
	ctx := context.Background()

	existing := &model.Category{ID: uuid.New(), Name: "Drinks"}

	mockRepo := new(MockCategoryRepository)
	service := NewCategoryService(mockRepo, zerolog.Nop())

	mockRepo.On("GetByName", ctx, "Drinks").Return(existing, nil)

	category, err := service.FindOrCreate(ctx, "Drinks")

	require.NoError(t, err)
	assert.Equal(t, existing, category)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestCategoryService_FindOrCreate_NewCategory(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockCategoryRepository)
	service := NewCategoryService(mockRepo, zerolog.Nop())

	mockRepo.On("GetByName", ctx, "Snacks").Return(nil, nil)
	mockRepo.On("Create", ctx, mock.AnythingOfType("*model.Category")).Return(nil)

	category, err := service.FindOrCreate(ctx, "Snacks")

	require.NoError(t, err)
	require.NotNil(t, category)
	assert.Equal(t, "Snacks", category.Name)
	assert.NotEqual(t, uuid.Nil, category.ID)

	mockRepo.AssertExpectations(t)
}

func TestCategoryService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	categoryID := uuid.New()

	mockRepo := new(MockCategoryRepository)
	service := NewCategoryService(mockRepo, zerolog.Nop())

	mockRepo.On("GetByID", ctx, categoryID).Return(nil, nil)

	category, err := service.GetByID(ctx, categoryID)

	require.Error(t, err)
	assert.Equal(t, model.ErrCategoryNotFound, err)
	assert.Nil(t, category)
}
