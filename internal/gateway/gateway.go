package gateway

import (
	"net/url"

	"marketpay/internal/order"
	"marketpay/internal/paymethod"
)

// Status is the local payment status taxonomy gateway codes translate into.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusAuthorized Status = "AUTHORIZED"
	StatusPaid       Status = "PAID"
	StatusFailed     Status = "FAILED"
	StatusUnknown    Status = "UNKNOWN"
)

// Failed reports whether the status should push the checkout flow backwards.
func (s Status) Failed() bool {
	return s == StatusFailed
}

// Feedback is one gateway notification, validated at the boundary.
// Raw keeps every delivered field untouched for audit storage.
type Feedback struct {
	OrderRef   string // composite order-group reference echoed by the gateway
	RemoteID   string // the gateway's own id for this payment attempt
	StatusCode int    // raw gateway status code
	Amount     int64  // minor units
	Currency   string
	Signature  string
	Raw        map[string]string
}

// Gateway is the protocol adapter the payment core collaborates with.
type Gateway interface {
	// Code identifies this gateway as a payment-method code.
	Code() string

	// ParseFeedback decodes and validates one inbound notification.
	ParseFeedback(values url.Values) (*Feedback, error)

	// VerifySignature authenticates feedback for one order and its
	// payment-method instance. Must pass before any state mutation.
	VerifySignature(o *order.Order, m *paymethod.Method, fb *Feedback) error

	// BuildPaymentRequest produces the signed hosted-page fields for one
	// combined payment request. Amount is in major units.
	BuildPaymentRequest(reference string, amount float64, currency string) url.Values

	// StatusOf translates a raw gateway status code into the local
	// taxonomy plus a human-readable message.
	StatusOf(code int) (Status, string)
}
