package cart

import (
	"time"

	"github.com/coffeehouse/backend/internal/domain/shared"
	"github.com/coffeehouse/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// MaxQuantityPerItem caps a single line item
const MaxQuantityPerItem = 99

// Item is one product line in a cart
type Item struct {
	ProductID   uuid.UUID         `json:"product_id"`
	ProductName string            `json:"product_name"`
	UnitPrice   valueobject.Money `json:"unit_price"`
	ImageURL    string            `json:"image_url,omitempty"`
	Quantity    int               `json:"quantity"`
}

// LineTotal returns unit price times quantity
func (i Item) LineTotal() valueobject.Money {
	return i.UnitPrice.MulInt(int64(i.Quantity))
}

// Cart holds a customer's in-progress selection
// It is stored as a single JSON document keyed by owner
type Cart struct {
	OwnerID   string    `json:"owner_id"`
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCart creates an empty cart for the owner
func NewCart(ownerID string) *Cart {
	return &Cart{
		OwnerID:   ownerID,
		Items:     []Item{},
		UpdatedAt: time.Now(),
	}
}

// AddItem adds a product to the cart, merging with an existing line
func (c *Cart) AddItem(productID uuid.UUID, name string, unitPrice valueobject.Money, imageURL string, quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			next := c.Items[idx].Quantity + quantity
			if next > MaxQuantityPerItem {
				next = MaxQuantityPerItem
			}
			c.Items[idx].Quantity = next
			c.touch()
			return nil
		}
	}

	if quantity > MaxQuantityPerItem {
		quantity = MaxQuantityPerItem
	}

	c.Items = append(c.Items, Item{
		ProductID:   productID,
		ProductName: name,
		UnitPrice:   unitPrice,
		ImageURL:    imageURL,
		Quantity:    quantity,
	})
	c.touch()

	return nil
}

// UpdateQuantity sets the quantity of a line item
// Quantities below one are floored at one; removal goes through RemoveItem
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	if quantity > MaxQuantityPerItem {
		quantity = MaxQuantityPerItem
	}

	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items[idx].Quantity = quantity
			c.touch()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_IN_CART", "Product is not in the cart")
}

// RemoveItem removes a line item from the cart
func (c *Cart) RemoveItem(productID uuid.UUID) error {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.touch()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_IN_CART", "Product is not in the cart")
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = []Item{}
	c.touch()
}

// IsEmpty reports whether the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the total quantity across all lines
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Subtotal sums all line totals
func (c *Cart) Subtotal() valueobject.Money {
	subtotal := valueobject.ZeroVND()
	for _, item := range c.Items {
		subtotal = subtotal.MustAdd(item.LineTotal())
	}
	return subtotal
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
}
