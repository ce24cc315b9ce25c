package checkout

import (
	"context"

	"marketpay/internal/logger"
	"marketpay/internal/order"

	"go.uber.org/zap"
)

// Flow is the checkout navigation collaborator: the payment core only emits
// a binary advance/retreat signal per order, the flow decides what that means.
type Flow interface {
	Advance(ctx context.Context, o *order.Order) error
	Retreat(ctx context.Context, o *order.Order) error
}

type flow struct {
	orders order.Repository
}

func NewFlow(orders order.Repository) Flow {
	return &flow{orders: orders}
}

func (f *flow) Advance(ctx context.Context, o *order.Order) error {
	logger.FromCtx(ctx).Info("advancing checkout",
		zap.Uint("order_id", o.ID),
	)
	return f.orders.UpdateStatus(ctx, o.ID, order.StatusPaid)
}

func (f *flow) Retreat(ctx context.Context, o *order.Order) error {
	logger.FromCtx(ctx).Info("retreating checkout",
		zap.Uint("order_id", o.ID),
	)
	return f.orders.UpdateStatus(ctx, o.ID, order.StatusPaymentFailed)
}
