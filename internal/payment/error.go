package payment

import "errors"

var (
	// ErrDirectRouting means payments are collected per vendor and the
	// group aggregator must not run.
	ErrDirectRouting = errors.New("payments are routed directly to vendors")

	// ErrEmptyOrderGroup is a data-consistency violation: the triggering
	// order is always a member of its own group.
	ErrEmptyOrderGroup = errors.New("order group resolved to zero orders")

	ErrMixedCurrency = errors.New("order group mixes currencies")

	ErrBadReference = errors.New("malformed order-group reference")
)
