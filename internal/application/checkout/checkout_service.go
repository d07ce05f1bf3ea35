package checkout

import (
	"context"
	"time"

	"github.com/coffeehouse/backend/internal/domain/cart"
	"github.com/coffeehouse/backend/internal/domain/catalog"
	"github.com/coffeehouse/backend/internal/domain/order"
	"github.com/coffeehouse/backend/internal/domain/shared"
	"github.com/coffeehouse/backend/internal/domain/shared/valueobject"
	"github.com/coffeehouse/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutService turns a cart into an order.
// The order write carries the OrderPlacedEvent through the outbox in the
// same transaction; the cart is cleared only after the order is durable.
type CheckoutService struct {
	cartStore      cart.Store
	productRepo    catalog.ProductRepository
	orderRepo      order.OrderRepository
	paymentChecker PaymentChecker
	eventPublisher shared.EventPublisher
	policy         config.CheckoutConfig
	logger         *zap.Logger
	now            func() time.Time
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	cartStore cart.Store,
	productRepo catalog.ProductRepository,
	orderRepo order.OrderRepository,
	paymentChecker PaymentChecker,
	policy config.CheckoutConfig,
	logger *zap.Logger,
) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		cartStore:      cartStore,
		productRepo:    productRepo,
		orderRepo:      orderRepo,
		paymentChecker: paymentChecker,
		policy:         policy,
		logger:         logger,
		now:            time.Now,
	}
}

// SetEventPublisher sets the publisher used for the cart-clear broadcast
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Checkout converts the customer's cart into a pending order.
// Shipping fee applies only to cash on delivery; bank transfer and QR ship
// free as a payment incentive.
func (s *CheckoutService) Checkout(ctx context.Context, customerID uuid.UUID, customerEmail string, req CheckoutRequest) (*CheckoutResponse, error) {
	method := order.PaymentMethod(req.PaymentMethod)
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	c, err := s.cartStore.Get(ctx, customerID.String())
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, shared.ErrEmptyCart
	}

	items, err := s.buildOrderItems(ctx, c)
	if err != nil {
		return nil, err
	}

	shippingFee := valueobject.ZeroVND()
	if method == order.PaymentMethodCOD {
		shippingFee = valueobject.NewMoneyVNDFromInt(s.policy.CODShippingFee)
	}

	orderNumber, err := s.nextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(
		orderNumber,
		customerID,
		customerEmail,
		method,
		order.ShippingInfo{
			RecipientName: req.Shipping.FullName,
			Phone:         req.Shipping.Phone,
			Address:       req.Shipping.Address,
			City:          req.Shipping.City,
			District:      req.Shipping.District,
			Ward:          req.Shipping.Ward,
			Note:          req.Shipping.Note,
		},
		items,
		shippingFee,
	)
	if err != nil {
		return nil, err
	}

	// The order write is the hard step; failure aborts with the cart intact
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	// Clearing the cart is best effort once the order is durable; a stale
	// cart is an annoyance, a lost order is not
	if err := s.cartStore.Delete(ctx, customerID.String()); err != nil {
		s.logger.Warn("failed to clear cart after checkout",
			zap.String("order_number", o.OrderNumber),
			zap.Error(err),
		)
	} else {
		s.broadcastCartCleared(ctx, customerID)
	}

	response := toCheckoutResponse(o, nextStepFor(method))
	return &response, nil
}

// ConfirmTransfer records a customer's bank transfer declaration and marks
// the order paid. Confirming an already-paid order succeeds without change.
func (s *CheckoutService) ConfirmTransfer(ctx context.Context, customerID, orderID uuid.UUID, req ConfirmTransferRequest) (*PaymentStatusResponse, error) {
	o, err := s.ownedOrder(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}
	if o.PaymentMethod != order.PaymentMethodBanking {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Order is not a bank transfer order")
	}

	if o.PaymentStatus != order.PaymentStatusPaid {
		if err := o.MarkPaid(); err != nil {
			return nil, err
		}
		if err := s.orderRepo.Save(ctx, o); err != nil {
			return nil, err
		}
		s.logger.Info("bank transfer confirmed",
			zap.String("order_number", o.OrderNumber),
			zap.String("reference", req.Reference),
		)
	}

	response := toPaymentStatusResponse(o)
	return &response, nil
}

// CheckPayment asks the payment checker whether a QR payment landed and
// marks the order paid when it did. This is user triggered, not a poller.
func (s *CheckoutService) CheckPayment(ctx context.Context, customerID, orderID uuid.UUID) (*PaymentStatusResponse, error) {
	o, err := s.ownedOrder(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}
	if o.PaymentMethod != order.PaymentMethodQR {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Order is not a QR payment order")
	}

	if o.PaymentStatus != order.PaymentStatusPaid {
		paid, err := s.paymentChecker.Check(ctx, o)
		if err != nil {
			return nil, err
		}
		if paid {
			if err := o.MarkPaid(); err != nil {
				return nil, err
			}
			if err := s.orderRepo.Save(ctx, o); err != nil {
				return nil, err
			}
		}
	}

	response := toPaymentStatusResponse(o)
	return &response, nil
}

func (s *CheckoutService) buildOrderItems(ctx context.Context, c *cart.Cart) ([]order.OrderItem, error) {
	ids := make([]uuid.UUID, len(c.Items))
	for i, item := range c.Items {
		ids[i] = item.ProductID
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	items := make([]order.OrderItem, 0, len(c.Items))
	for _, line := range c.Items {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "A cart item no longer exists in the catalog")
		}
		if !product.IsOrderable() {
			return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "A cart item is no longer available")
		}

		// Charge the current catalog price, not the price at add time
		item, err := order.NewOrderItem(product.ID, product.Name, product.Price, line.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// nextOrderNumber builds a time-based display number with a daily sequence.
// Uniqueness is display grade; the database key is the order ID.
func (s *CheckoutService) nextOrderNumber(ctx context.Context) (string, error) {
	at := s.now()
	midnight := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())

	todays, err := s.orderRepo.CountOrdersSince(ctx, midnight)
	if err != nil {
		return "", err
	}
	return order.FormatOrderNumber(at, todays+1), nil
}

func (s *CheckoutService) ownedOrder(ctx context.Context, customerID, orderID uuid.UUID) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != customerID {
		return nil, shared.ErrForbidden
	}
	return o, nil
}

func (s *CheckoutService) broadcastCartCleared(ctx context.Context, customerID uuid.UUID) {
	if s.eventPublisher == nil {
		return
	}
	cleared := cart.NewCart(customerID.String())
	if err := s.eventPublisher.Publish(ctx, cart.NewChangedEvent(cleared)); err != nil {
		s.logger.Warn("failed to broadcast cart clear", zap.Error(err))
	}
}

func nextStepFor(method order.PaymentMethod) string {
	switch method {
	case order.PaymentMethodBanking:
		return NextStepBankTransferUpload
	case order.PaymentMethodQR:
		return NextStepQRPayment
	default:
		return NextStepOrderConfirmation
	}
}
