package payment

import (
	"context"
	"fmt"

	"marketpay/internal/gateway"
	"marketpay/internal/logger"
	"marketpay/internal/order"
	"marketpay/internal/paymethod"

	"go.uber.org/zap"
)

// Router funnels both gateway delivery paths into the Processor. The two
// paths commonly fire for the same payment; redundancy is safe because the
// matcher collapses repeated deliveries onto one transaction per order.
type Router struct {
	orders  order.Repository
	methods paymethod.Repository
	gw      gateway.Gateway
	proc    *Processor
}

func NewRouter(orders order.Repository, methods paymethod.Repository, gw gateway.Gateway, proc *Processor) *Router {
	return &Router{orders: orders, methods: methods, gw: gw, proc: proc}
}

// ValidateRedirect handles the interactive browser-return path for one
// order already known from session context. The returned boolean reports
// whether the feedback authenticated, whether or not a transaction was
// processed; it is what lets the surrounding checkout accept the redirect.
func (r *Router) ValidateRedirect(ctx context.Context, o *order.Order, fb *gateway.Feedback) bool {
	log := logger.FromCtx(ctx).With(
		zap.Uint("order_id", o.ID),
		zap.String("pay_id", fb.RemoteID),
	)

	m, err := r.methods.FindByOrder(ctx, o.ID)
	if err != nil {
		log.Error("payment method lookup failed", zap.Error(err))
		return false
	}
	if m == nil {
		log.Warn("order has no payment method configured")
		return false
	}

	if err := r.gw.VerifySignature(o, m, fb); err != nil {
		log.Warn("discarding unauthenticated feedback", zap.Error(err))
		return false
	}

	// Under direct-to-vendor routing the redirect may reach an order paid
	// through a different method; only the order actually using this
	// gateway gets a transaction.
	if m.Code == r.gw.Code() {
		if err := r.proc.ProcessFeedback(ctx, o, m, fb, true); err != nil {
			log.Error("feedback processing failed", zap.Error(err))
		}
	}

	return true
}

// HandleNotification handles the server-to-server path: no session exists,
// the order set comes from the composite reference the gateway echoes back.
// Per-order failures are logged and skipped; sibling orders keep processing.
func (r *Router) HandleNotification(ctx context.Context, fb *gateway.Feedback) error {
	log := logger.FromCtx(ctx).With(zap.String("pay_id", fb.RemoteID))

	ids, err := ParseGroupReference(fb.OrderRef)
	if err != nil {
		log.Warn("unparseable order reference, ignoring feedback",
			zap.String("reference", fb.OrderRef),
			zap.Error(err),
		)
		return nil
	}

	orders, err := r.orders.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load order group: %w", err)
	}

	for _, o := range orders {
		olog := log.With(zap.Uint("order_id", o.ID))

		m, err := r.methods.FindByOrder(ctx, o.ID)
		if err != nil {
			olog.Error("payment method lookup failed", zap.Error(err))
			continue
		}
		if m == nil || m.Code != r.gw.Code() {
			olog.Debug("order not paid through this gateway, skipping")
			continue
		}

		if err := r.gw.VerifySignature(o, m, fb); err != nil {
			olog.Warn("discarding unauthenticated feedback", zap.Error(err))
			continue
		}

		// No interactive session exists to advance or retreat.
		if err := r.proc.ProcessFeedback(ctx, o, m, fb, false); err != nil {
			olog.Error("feedback processing failed", zap.Error(err))
		}
	}

	return nil
}
