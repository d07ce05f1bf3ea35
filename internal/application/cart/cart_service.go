package cart

import (
	"context"

	"github.com/coffeehouse/backend/internal/domain/cart"
	"github.com/coffeehouse/backend/internal/domain/catalog"
	"github.com/coffeehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartService handles cart operations for one owner (a signed-in customer
// or a guest session). Every mutation broadcasts exactly one ChangedEvent
// so header badges and open cart views can re-read.
type CartService struct {
	store          cart.Store
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(store cart.Store, productRepo catalog.ProductRepository, publisher shared.EventPublisher, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		store:          store,
		productRepo:    productRepo,
		eventPublisher: publisher,
		logger:         logger,
	}
}

// Get returns the owner's cart, empty if none exists
func (s *CartService) Get(ctx context.Context, ownerID string) (*CartResponse, error) {
	c, err := s.store.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	response := ToCartResponse(c)
	return &response, nil
}

// AddItem adds a product to the cart, merging quantity when the product
// is already present. The price and name are snapshotted from the catalog.
func (s *CartService) AddItem(ctx context.Context, ownerID string, req AddItemRequest) (*CartResponse, error) {
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsOrderable() {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available for ordering")
	}

	c, err := s.store.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if err := c.AddItem(product.ID, product.Name, product.Price, product.ImageURL, req.Quantity); err != nil {
		return nil, err
	}

	return s.saveAndBroadcast(ctx, c)
}

// UpdateQuantity sets an item's quantity; values below one are floored at one
func (s *CartService) UpdateQuantity(ctx context.Context, ownerID string, productID uuid.UUID, quantity int) (*CartResponse, error) {
	c, err := s.store.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if err := c.UpdateQuantity(productID, quantity); err != nil {
		return nil, err
	}

	return s.saveAndBroadcast(ctx, c)
}

// RemoveItem removes a product from the cart
func (s *CartService) RemoveItem(ctx context.Context, ownerID string, productID uuid.UUID) (*CartResponse, error) {
	c, err := s.store.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if err := c.RemoveItem(productID); err != nil {
		return nil, err
	}

	return s.saveAndBroadcast(ctx, c)
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, ownerID string) (*CartResponse, error) {
	c, err := s.store.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	c.Clear()

	return s.saveAndBroadcast(ctx, c)
}

func (s *CartService) saveAndBroadcast(ctx context.Context, c *cart.Cart) (*CartResponse, error) {
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}

	s.broadcast(ctx, c)

	response := ToCartResponse(c)
	return &response, nil
}

// broadcast publishes one ChangedEvent per mutation. Listeners re-reading
// the store is the contract; a publish failure only costs a refresh, so it
// is logged and the mutation still succeeds.
func (s *CartService) broadcast(ctx context.Context, c *cart.Cart) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, cart.NewChangedEvent(c)); err != nil {
		s.logger.Warn("failed to broadcast cart change",
			zap.String("owner_id", c.OwnerID),
			zap.Error(err),
		)
	}
}
