package checkout

import (
	"context"
	"math/rand"
	"sync"

	"github.com/coffeehouse/backend/internal/domain/order"
)

// PaymentChecker verifies whether a QR payment has landed.
// The production implementation would query the payment gateway; the
// default is a simulation kept behind this interface so it can be swapped
// without touching the checkout flow.
type PaymentChecker interface {
	// Check reports whether the payment for the order has been received
	Check(ctx context.Context, o *order.Order) (bool, error)
}

// SimulatedPaymentChecker succeeds with a configured ratio.
// Demo behavior carried over from the original storefront; the ratio is
// configuration, not a business rule.
type SimulatedPaymentChecker struct {
	successRatio float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedPaymentChecker creates a checker that succeeds with the given
// ratio in [0, 1]
func NewSimulatedPaymentChecker(successRatio float64, seed int64) *SimulatedPaymentChecker {
	if successRatio < 0 {
		successRatio = 0
	}
	if successRatio > 1 {
		successRatio = 1
	}
	return &SimulatedPaymentChecker{
		successRatio: successRatio,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

// Check reports a simulated gateway answer
func (c *SimulatedPaymentChecker) Check(ctx context.Context, o *order.Order) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.Float64() < c.successRatio, nil
}

var _ PaymentChecker = (*SimulatedPaymentChecker)(nil)
