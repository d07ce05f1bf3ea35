package catalog

import (
	"context"
	"testing"

	"github.com/coffeehouse/backend/internal/domain/catalog"
	"github.com/coffeehouse/backend/internal/domain/shared"
	"github.com/coffeehouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, category catalog.Category, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, category, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindFeatured(ctx context.Context, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func newTestProduct(t *testing.T, name string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, catalog.CategoryCoffee, valueobject.NewMoneyVNDFromInt(50000))
	require.NoError(t, err)
	product.ClearDomainEvents()
	return product
}

func TestProductService_Create(t *testing.T) {
	t.Run("creates product with slug", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)

		repo.On("ExistsBySlug", mock.Anything, "ca-phe-sua-da").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

		resp, err := svc.Create(context.Background(), CreateProductRequest{
			Name:     "Cà Phê Sữa Đá",
			Category: "coffee",
			Price:    decimal.NewFromInt(50000),
			Featured: true,
		})

		require.NoError(t, err)
		assert.Equal(t, "ca-phe-sua-da", resp.Slug)
		assert.Equal(t, "available", resp.Status)
		assert.True(t, resp.Featured)
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate slug", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)

		repo.On("ExistsBySlug", mock.Anything, "espresso").Return(true, nil)

		resp, err := svc.Create(context.Background(), CreateProductRequest{
			Name:     "Espresso",
			Category: "coffee",
			Price:    decimal.NewFromInt(40000),
		})

		assert.Nil(t, resp)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DUPLICATE_PRODUCT", domainErr.Code)
		repo.AssertNotCalled(t, "Save")
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)

		resp, err := svc.Create(context.Background(), CreateProductRequest{
			Name:     "Mystery Drink",
			Category: "soda",
			Price:    decimal.NewFromInt(30000),
		})

		assert.Nil(t, resp)
		assert.Error(t, err)
	})
}

func TestProductService_Update(t *testing.T) {
	t.Run("applies partial update", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)

		product := newTestProduct(t, "Trà Đào")
		newPrice := decimal.NewFromInt(38000)
		soldOut := "sold_out"

		repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		repo.On("Save", mock.Anything, product).Return(nil)

		resp, err := svc.Update(context.Background(), product.ID, UpdateProductRequest{
			Price:  &newPrice,
			Status: &soldOut,
		})

		require.NoError(t, err)
		assert.Equal(t, "Trà Đào", resp.Name)
		assert.True(t, newPrice.Equal(resp.Price))
		assert.Equal(t, "sold_out", resp.Status)
		repo.AssertExpectations(t)
	})

	t.Run("returns not found for missing product", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)

		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		resp, err := svc.Update(context.Background(), id, UpdateProductRequest{})

		assert.Nil(t, resp)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestProductService_Delete(t *testing.T) {
	repo := new(MockProductRepository)
	svc := NewProductService(repo)

	product := newTestProduct(t, "Croissant")
	repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	repo.On("Delete", mock.Anything, product.ID).Return(nil)

	err := svc.Delete(context.Background(), product.ID)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestProductService_List(t *testing.T) {
	repo := new(MockProductRepository)
	svc := NewProductService(repo)

	products := []catalog.Product{*newTestProduct(t, "Cold Brew"), *newTestProduct(t, "Bạc Xỉu")}

	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 && f.Filters["category"] == "coffee"
	})).Return(products, nil)
	repo.On("Count", mock.Anything, mock.Anything).Return(int64(2), nil)

	resp, total, err := svc.List(context.Background(), ProductListFilter{Category: "coffee"})

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, resp, 2)
}

func TestProductService_ListFeatured(t *testing.T) {
	repo := new(MockProductRepository)
	svc := NewProductService(repo)

	repo.On("FindFeatured", mock.Anything, DefaultFeaturedLimit).
		Return([]catalog.Product{*newTestProduct(t, "Cold Brew")}, nil)

	resp, err := svc.ListFeatured(context.Background(), 0)

	require.NoError(t, err)
	assert.Len(t, resp, 1)
}
