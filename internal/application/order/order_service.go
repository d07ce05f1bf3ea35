package order

import (
	"context"
	"time"

	"github.com/coffeehouse/backend/internal/domain/order"
	"github.com/coffeehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DefaultTopProducts is how many best sellers the dashboard shows
const DefaultTopProducts = 5

// OrderService handles order queries and lifecycle transitions.
// Status changes go through the domain state machine; the repository writes
// the resulting events to the outbox in the same transaction as the order.
type OrderService struct {
	orderRepo order.OrderRepository
	statsRepo order.StatsRepository
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo order.OrderRepository, statsRepo order.StatsRepository) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		statsRepo: statsRepo,
	}
}

// GetMine returns one of the customer's own orders.
// Another customer's order comes back as forbidden, not as not found, so
// the caller can tell a bad ID from a bad owner.
func (s *OrderService) GetMine(ctx context.Context, customerID, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.ownedOrder(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// GetMineByNumber returns one of the customer's own orders by its number
func (s *OrderService) GetMineByNumber(ctx context.Context, customerID uuid.UUID, orderNumber string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != customerID {
		return nil, shared.ErrForbidden
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// ListMine returns the customer's order history, newest first
func (s *OrderService) ListMine(ctx context.Context, customerID uuid.UUID, filter OrderListFilter) ([]ListItemResponse, int64, error) {
	f := buildFilter(filter)
	f.Filters["customer_id"] = customerID

	orders, err := s.orderRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	return ToListItemResponses(orders), total, nil
}

// Get returns any order by ID; admin only, enforced at the transport layer
func (s *OrderService) Get(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// List returns orders matching the filter for the admin board
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]ListItemResponse, int64, error) {
	f := buildFilter(filter)

	orders, err := s.orderRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	return ToListItemResponses(orders), total, nil
}

// CountByStatus returns the per-status totals shown above the admin board
func (s *OrderService) CountByStatus(ctx context.Context) (map[string]int64, error) {
	counts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(counts))
	for status, count := range counts {
		result[string(status)] = count
	}

	return result, nil
}

// UpdateStatus moves an order to the target status.
// Invalid transitions are rejected by the domain state machine.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	target := order.OrderStatus(req.Status)
	if !target.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}

	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.TransitionTo(target); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// Cancel cancels an order with the admin's reason
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// CancelMine lets a customer cancel their own order while it is still pending
func (s *OrderService) CancelMine(ctx context.Context, customerID, orderID uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	o, err := s.ownedOrder(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}

	if o.Status != order.OrderStatusPending {
		return nil, shared.NewDomainError("INVALID_STATUS_TRANSITION",
			"Only pending orders can be cancelled by the customer")
	}

	if err := o.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// Stats computes the dashboard aggregates over the requested window
func (s *OrderService) Stats(ctx context.Context, filter StatsFilter) (*StatsResponse, error) {
	var from, to time.Time
	if filter.From != nil {
		from = *filter.From
	}
	if filter.To != nil {
		// Dates bind at midnight; extend to the end of the day so the
		// window includes the chosen end date
		to = filter.To.Add(24*time.Hour - time.Nanosecond)
	}

	topN := filter.TopN
	if topN <= 0 {
		topN = DefaultTopProducts
	}

	stats, err := s.statsRepo.Collect(ctx, from, to, topN)
	if err != nil {
		return nil, err
	}

	response := ToStatsResponse(stats)
	return &response, nil
}

func (s *OrderService) ownedOrder(ctx context.Context, customerID, orderID uuid.UUID) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != customerID {
		return nil, shared.ErrForbidden
	}
	return o, nil
}

func buildFilter(filter OrderListFilter) shared.Filter {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	f := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		Search:   filter.Search,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}

	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.PaymentMethod != "" {
		f.Filters["payment_method"] = filter.PaymentMethod
	}
	if filter.StartDate != nil {
		f.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		f.Filters["end_date"] = filter.EndDate.Add(24*time.Hour - time.Nanosecond)
	}

	return f
}
