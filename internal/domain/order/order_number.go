package order

import (
	"fmt"
	"time"
)

// OrderNumberPrefix goes in front of every generated order number
const OrderNumberPrefix = "CF"

// FormatOrderNumber builds a human-readable order number such as
// CF-20260829-143502-007 from a timestamp and a daily sequence
func FormatOrderNumber(at time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%s-%03d", OrderNumberPrefix, at.Format("20060102"), at.Format("150405"), seq)
}
