package cart

import (
	"time"

	"github.com/coffeehouse/backend/internal/domain/cart"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemRequest represents a request to add a product to the cart.
// An omitted quantity adds a single unit.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"omitempty,min=1"`
}

// UpdateItemRequest represents a request to change an item's quantity.
// Values below one are floored at one, mirroring the storefront stepper.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// ItemResponse represents a cart line in API responses
type ItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	ImageURL    string          `json:"image_url"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CartResponse represents the cart in API responses
type CartResponse struct {
	OwnerID   string          `json:"owner_id"`
	Items     []ItemResponse  `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToCartResponse converts a domain Cart to a response DTO
func ToCartResponse(c *cart.Cart) CartResponse {
	items := make([]ItemResponse, len(c.Items))
	for i, item := range c.Items {
		items[i] = ItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice.Amount(),
			ImageURL:    item.ImageURL,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal().Amount(),
		}
	}

	return CartResponse{
		OwnerID:   c.OwnerID,
		Items:     items,
		ItemCount: c.ItemCount(),
		Subtotal:  c.Subtotal().Amount(),
		UpdatedAt: c.UpdatedAt,
	}
}
