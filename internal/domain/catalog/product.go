package catalog

import (
	"strings"
	"time"

	"github.com/coffeehouse/backend/internal/domain/shared"
	"github.com/coffeehouse/backend/internal/domain/shared/valueobject"
)

// ProductStatus represents the availability of a product in the storefront
type ProductStatus string

const (
	ProductStatusAvailable ProductStatus = "available"
	ProductStatusSoldOut   ProductStatus = "sold_out"
	ProductStatusHidden    ProductStatus = "hidden"
)

// IsValid checks if the status is one of the known values
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusAvailable, ProductStatusSoldOut, ProductStatusHidden:
		return true
	}
	return false
}

// Category groups products on the storefront menu (e.g. "coffee", "tea", "pastry")
type Category string

const (
	CategoryCoffee Category = "coffee"
	CategoryTea    Category = "tea"
	CategoryJuice  Category = "juice"
	CategoryPastry Category = "pastry"
	CategoryOther  Category = "other"
)

// IsValid checks if the category is one of the known values
func (c Category) IsValid() bool {
	switch c {
	case CategoryCoffee, CategoryTea, CategoryJuice, CategoryPastry, CategoryOther:
		return true
	}
	return false
}

// Product represents a drink or food item sold by the shop
// It is the aggregate root for catalog operations
type Product struct {
	shared.BaseAggregateRoot
	Name        string            `gorm:"type:varchar(200);not null"`
	Slug        string            `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description string            `gorm:"type:text"`
	Category    Category          `gorm:"type:varchar(30);not null;index"`
	Price       valueobject.Money `gorm:"type:decimal(18,0);not null"`
	ImageURL    string            `gorm:"type:varchar(500)"`
	Featured    bool              `gorm:"not null;default:false"`
	Status      ProductStatus     `gorm:"type:varchar(20);not null;default:'available';index"`
	SortOrder   int               `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product in the available state
func NewProduct(name string, category Category, price valueobject.Money) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown product category")
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              Slugify(name),
		Category:          category,
		Price:             price,
		Status:            ProductStatusAvailable,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's display information
func (p *Product) Update(name, description string, category Category) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown product category")
	}

	p.Name = name
	p.Slug = Slugify(name)
	p.Description = description
	p.Category = category
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// ChangePrice updates the selling price
func (p *Product) ChangePrice(price valueobject.Money) error {
	if err := validatePrice(price); err != nil {
		return err
	}

	oldPrice := p.Price
	p.Price = price
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))

	return nil
}

// SetImageURL sets the product image
func (p *Product) SetImageURL(url string) error {
	if len(url) > 500 {
		return shared.NewDomainError("INVALID_IMAGE_URL", "Image URL cannot exceed 500 characters")
	}

	p.ImageURL = url
	p.UpdatedAt = time.Now()

	return nil
}

// SetFeatured toggles the featured flag used by the storefront home page
func (p *Product) SetFeatured(featured bool) {
	p.Featured = featured
	p.UpdatedAt = time.Now()
}

// SetSortOrder sets the display order within a category
func (p *Product) SetSortOrder(order int) {
	p.SortOrder = order
	p.UpdatedAt = time.Now()
}

// MarkSoldOut marks the product as temporarily unavailable
func (p *Product) MarkSoldOut() {
	p.changeStatus(ProductStatusSoldOut)
}

// MarkAvailable makes the product orderable again
func (p *Product) MarkAvailable() {
	p.changeStatus(ProductStatusAvailable)
}

// Hide removes the product from the storefront without deleting it
func (p *Product) Hide() {
	p.changeStatus(ProductStatusHidden)
}

func (p *Product) changeStatus(status ProductStatus) {
	if p.Status == status {
		return
	}

	oldStatus := p.Status
	p.Status = status
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus))
}

// IsOrderable reports whether the product can be added to a cart
func (p *Product) IsOrderable() bool {
	return p.Status == ProductStatusAvailable
}

// MarkDeleted records a deletion event before the product is removed
func (p *Product) MarkDeleted() {
	p.AddDomainEvent(NewProductDeletedEvent(p))
}

// Slugify turns a display name into a URL-safe slug
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return nil
}
