package payment

import (
	"encoding/json"
	"time"

	"marketpay/internal/gateway"
)

// Transaction is one attempt to collect payment for one order. A gateway
// remote id shared by a whole order group yields one Transaction per order;
// the (payment_method, order_id, remote_id) triple is unique.
type Transaction struct {
	ID               int64
	PaymentMethod    string // gateway code the transaction belongs to
	MethodInstanceID uint   // configured payment-method instance
	OrderID          uint
	RemoteID         string
	Currency         string
	Amount           float64 // major units, clamped to the order's own total
	RemoteStatus     int
	Status           gateway.Status
	Message          string
	RawFeedback      json.RawMessage // full gateway payload, kept for audit
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// GroupPaymentRequest is the combined request covering a whole order group.
type GroupPaymentRequest struct {
	Reference string
	Amount    float64
	Currency  string
}
