package catalog

import (
	"context"

	"github.com/coffeehouse/backend/internal/domain/catalog"
	"github.com/coffeehouse/backend/internal/domain/shared"
	"github.com/coffeehouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// DefaultFeaturedLimit caps the storefront home page product strip
const DefaultFeaturedLimit = 8

// ProductService handles product catalog operations.
// Writes are admin-only; reads back both the storefront and the back office.
type ProductService struct {
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// SetEventPublisher sets the event publisher for catalog change events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	price := valueobject.NewMoneyVND(req.Price)

	product, err := catalog.NewProduct(req.Name, catalog.Category(req.Category), price)
	if err != nil {
		return nil, err
	}

	exists, err := s.productRepo.ExistsBySlug(ctx, product.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "A product with a similar name already exists")
	}

	product.Description = req.Description
	if err := product.SetImageURL(req.ImageURL); err != nil {
		return nil, err
	}
	if req.Featured {
		product.SetFeatured(true)
	}
	if req.SortOrder != 0 {
		product.SetSortOrder(req.SortOrder)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil || req.Category != nil {
		name := product.Name
		if req.Name != nil {
			name = *req.Name
		}
		description := product.Description
		if req.Description != nil {
			description = *req.Description
		}
		category := product.Category
		if req.Category != nil {
			category = catalog.Category(*req.Category)
		}
		if err := product.Update(name, description, category); err != nil {
			return nil, err
		}
	}

	if req.Price != nil {
		if err := product.ChangePrice(valueobject.NewMoneyVND(*req.Price)); err != nil {
			return nil, err
		}
	}
	if req.ImageURL != nil {
		if err := product.SetImageURL(*req.ImageURL); err != nil {
			return nil, err
		}
	}
	if req.Featured != nil {
		product.SetFeatured(*req.Featured)
	}
	if req.SortOrder != nil {
		product.SetSortOrder(*req.SortOrder)
	}
	if req.Status != nil {
		if err := s.applyStatus(product, catalog.ProductStatus(*req.Status)); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product from the catalog
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	product.MarkDeleted()

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publishEvents(ctx, product)
	return nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetBySlug retrieves a product by its URL slug
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Featured != nil {
		domainFilter.Filters["featured"] = *filter.Featured
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// ListByCategory retrieves products in one category
func (s *ProductService) ListByCategory(ctx context.Context, category string, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if !catalog.Category(category).IsValid() {
		return nil, 0, shared.NewDomainError("INVALID_CATEGORY", "Unknown product category")
	}
	filter.Category = category
	return s.List(ctx, filter)
}

// ListFeatured retrieves the featured products for the home page
func (s *ProductService) ListFeatured(ctx context.Context, limit int) ([]ProductResponse, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	products, err := s.productRepo.FindFeatured(ctx, limit)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

func (s *ProductService) applyStatus(product *catalog.Product, status catalog.ProductStatus) error {
	switch status {
	case catalog.ProductStatusAvailable:
		product.MarkAvailable()
	case catalog.ProductStatusSoldOut:
		product.MarkSoldOut()
	case catalog.ProductStatusHidden:
		product.Hide()
	default:
		return shared.NewDomainError("INVALID_STATUS", "Unknown product status")
	}
	return nil
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Catalog events are informational; a publish failure never fails the write
	_ = s.eventPublisher.Publish(ctx, events...)
	product.ClearDomainEvents()
}
