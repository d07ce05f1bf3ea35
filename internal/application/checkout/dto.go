package checkout

import (
	"time"

	"github.com/coffeehouse/backend/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NextStep values route the customer after a successful checkout
const (
	NextStepOrderConfirmation  = "order-confirmation"
	NextStepBankTransferUpload = "bank-transfer-upload"
	NextStepQRPayment          = "qr-payment"
)

// ShippingInput is the checkout shipping form
type ShippingInput struct {
	FullName string `json:"full_name" binding:"required,min=1,max=100"`
	Phone    string `json:"phone" binding:"required,min=6,max=20"`
	Address  string `json:"address" binding:"required,min=1,max=500"`
	City     string `json:"city" binding:"max=100"`
	District string `json:"district" binding:"max=100"`
	Ward     string `json:"ward" binding:"max=100"`
	Note     string `json:"note" binding:"max=500"`
}

// CheckoutRequest represents a checkout submission
type CheckoutRequest struct {
	PaymentMethod string        `json:"payment_method" binding:"required"`
	Shipping      ShippingInput `json:"shipping" binding:"required"`
}

// ConfirmTransferRequest carries the customer's bank transfer reference
type ConfirmTransferRequest struct {
	Reference string `json:"reference" binding:"max=200"`
}

// CheckoutResponse summarizes the created order and where to go next
type CheckoutResponse struct {
	OrderID       uuid.UUID       `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	ShippingFee   decimal.Decimal `json:"shipping_fee"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus string          `json:"payment_status"`
	NextStep      string          `json:"next_step"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PaymentStatusResponse reports the outcome of a payment action
type PaymentStatusResponse struct {
	OrderID       uuid.UUID  `json:"order_id"`
	OrderNumber   string     `json:"order_number"`
	Paid          bool       `json:"paid"`
	PaymentStatus string     `json:"payment_status"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

func toCheckoutResponse(o *order.Order, nextStep string) CheckoutResponse {
	return CheckoutResponse{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		Subtotal:      o.Subtotal.Amount(),
		ShippingFee:   o.ShippingFee.Amount(),
		Total:         o.Total.Amount(),
		PaymentMethod: string(o.PaymentMethod),
		PaymentStatus: string(o.PaymentStatus),
		NextStep:      nextStep,
		CreatedAt:     o.CreatedAt,
	}
}

func toPaymentStatusResponse(o *order.Order) PaymentStatusResponse {
	return PaymentStatusResponse{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		Paid:          o.PaymentStatus == order.PaymentStatusPaid,
		PaymentStatus: string(o.PaymentStatus),
		PaidAt:        o.PaidAt,
	}
}
