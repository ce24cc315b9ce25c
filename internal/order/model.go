package order

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusPending       OrderStatus = "PENDING"
	StatusPaid          OrderStatus = "PAID"
	StatusPaymentFailed OrderStatus = "PAYMENT_FAILED"
	StatusCanceled      OrderStatus = "CANCELED"
)

// Order is one vendor's slice of a checkout. All orders born from the same
// checkout share a GroupID; their ids are what the composite gateway
// reference is built from (never Number, which may contain arbitrary
// characters).
type Order struct {
	ID          uint
	Number      string
	GroupID     uuid.UUID
	VendorID    uint
	UserID      uint
	Total       float64
	Currency    string
	PayMethodID *uint
	Status      OrderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
