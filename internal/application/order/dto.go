package order

import (
	"time"

	"github.com/coffeehouse/backend/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UpdateStatusRequest represents an admin status transition
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CancelOrderRequest represents a cancellation with its reason
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// OrderListFilter represents filter options for order lists
type OrderListFilter struct {
	Search        string     `form:"search"`
	Status        string     `form:"status"`
	PaymentMethod string     `form:"payment_method"`
	StartDate     *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate       *time.Time `form:"end_date" time_format:"2006-01-02"`
	Page          int        `form:"page"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// StatsFilter bounds the dashboard window
type StatsFilter struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
	TopN int        `form:"top_n" binding:"omitempty,min=1,max=50"`
}

// ItemResponse represents an order line in API responses
type ItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// ShippingResponse represents the delivery details
type ShippingResponse struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city,omitempty"`
	District      string `json:"district,omitempty"`
	Ward          string `json:"ward,omitempty"`
	Note          string `json:"note,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID            uuid.UUID        `json:"id"`
	OrderNumber   string           `json:"order_number"`
	CustomerID    uuid.UUID        `json:"customer_id"`
	CustomerEmail string           `json:"customer_email"`
	Status        string           `json:"status"`
	PaymentMethod string           `json:"payment_method"`
	PaymentStatus string           `json:"payment_status"`
	Shipping      ShippingResponse `json:"shipping"`
	Items         []ItemResponse   `json:"items"`
	ItemCount     int              `json:"item_count"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
	ShippingFee   decimal.Decimal  `json:"shipping_fee"`
	Total         decimal.Decimal  `json:"total"`
	ConfirmedAt   *time.Time       `json:"confirmed_at,omitempty"`
	ShippedAt     *time.Time       `json:"shipped_at,omitempty"`
	DeliveredAt   *time.Time       `json:"delivered_at,omitempty"`
	CancelledAt   *time.Time       `json:"cancelled_at,omitempty"`
	PaidAt        *time.Time       `json:"paid_at,omitempty"`
	CancelReason  string           `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ListItemResponse represents an order in list responses (less detail)
type ListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	CustomerEmail string          `json:"customer_email"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus string          `json:"payment_status"`
	ItemCount     int             `json:"item_count"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TopProductResponse represents a best seller on the dashboard
type TopProductResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// StatsResponse represents the admin dashboard aggregates
type StatsResponse struct {
	TotalOrders     int64                `json:"total_orders"`
	PendingOrders   int64                `json:"pending_orders"`
	DeliveredOrders int64                `json:"delivered_orders"`
	CancelledOrders int64                `json:"cancelled_orders"`
	TotalCustomers  int64                `json:"total_customers"`
	Revenue         decimal.Decimal      `json:"revenue"`
	OrdersByStatus  map[string]int64     `json:"orders_by_status"`
	TopProducts     []TopProductResponse `json:"top_products"`
}

// ToOrderResponse converts a domain Order to a response DTO
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]ItemResponse, len(o.Items))
	for i := range o.Items {
		items[i] = ItemResponse{
			ID:          o.Items[i].ID,
			ProductID:   o.Items[i].ProductID,
			ProductName: o.Items[i].ProductName,
			UnitPrice:   o.Items[i].UnitPrice.Amount(),
			Quantity:    o.Items[i].Quantity,
			LineTotal:   o.Items[i].LineTotal.Amount(),
		}
	}

	return OrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerID:    o.CustomerID,
		CustomerEmail: o.CustomerEmail,
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		PaymentStatus: string(o.PaymentStatus),
		Shipping: ShippingResponse{
			RecipientName: o.Shipping.RecipientName,
			Phone:         o.Shipping.Phone,
			Address:       o.Shipping.Address,
			City:          o.Shipping.City,
			District:      o.Shipping.District,
			Ward:          o.Shipping.Ward,
			Note:          o.Shipping.Note,
		},
		Items:        items,
		ItemCount:    o.ItemCount(),
		Subtotal:     o.Subtotal.Amount(),
		ShippingFee:  o.ShippingFee.Amount(),
		Total:        o.Total.Amount(),
		ConfirmedAt:  o.ConfirmedAt,
		ShippedAt:    o.ShippedAt,
		DeliveredAt:  o.DeliveredAt,
		CancelledAt:  o.CancelledAt,
		PaidAt:       o.PaidAt,
		CancelReason: o.CancelReason,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// ToListItemResponse converts a domain Order to a list DTO
func ToListItemResponse(o *order.Order) ListItemResponse {
	return ListItemResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerEmail: o.CustomerEmail,
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		PaymentStatus: string(o.PaymentStatus),
		ItemCount:     o.ItemCount(),
		Total:         o.Total.Amount(),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// ToListItemResponses converts a slice of domain orders to list DTOs
func ToListItemResponses(orders []order.Order) []ListItemResponse {
	responses := make([]ListItemResponse, len(orders))
	for i := range orders {
		responses[i] = ToListItemResponse(&orders[i])
	}
	return responses
}

// ToStatsResponse converts domain stats to a response DTO
func ToStatsResponse(stats *order.Stats) StatsResponse {
	byStatus := make(map[string]int64, len(stats.OrdersByStatus))
	for status, count := range stats.OrdersByStatus {
		byStatus[string(status)] = count
	}

	top := make([]TopProductResponse, len(stats.TopProducts))
	for i, p := range stats.TopProducts {
		top[i] = TopProductResponse{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			Quantity:    p.Quantity,
			Revenue:     p.Revenue.Amount(),
		}
	}

	return StatsResponse{
		TotalOrders:     stats.TotalOrders,
		PendingOrders:   stats.PendingOrders,
		DeliveredOrders: stats.DeliveredOrders,
		CancelledOrders: stats.CancelledOrders,
		TotalCustomers:  stats.TotalCustomers,
		Revenue:         stats.Revenue.Amount(),
		OrdersByStatus:  byStatus,
		TopProducts:     top,
	}
}
