package payment

import (
	"context"
	"fmt"
	"sort"

	"marketpay/internal/config"
	"marketpay/internal/logger"
	"marketpay/internal/order"

	"go.uber.org/zap"
)

// Aggregator turns one checkout's vendor orders into a single combined
// gateway request. It only exists under central-store routing: the gateway
// cannot settle parallel split payments for one logical transaction, so
// under direct routing orders are paid individually and this must not run.
type Aggregator struct {
	orders order.Repository
	mode   config.RoutingMode
}

func NewAggregator(orders order.Repository, mode config.RoutingMode) *Aggregator {
	return &Aggregator{orders: orders, mode: mode}
}

// BuildGroupPaymentRequest resolves the triggering order's siblings and
// computes the composite reference and combined amount. Pure computation
// over a fresh load; the adapter merges the result into the outbound
// request.
func (a *Aggregator) BuildGroupPaymentRequest(ctx context.Context, triggering *order.Order) (*GroupPaymentRequest, error) {
	if a.mode != config.RoutingCentralStore {
		return nil, ErrDirectRouting
	}

	group, err := a.orders.GetByGroup(ctx, triggering.GroupID)
	if err != nil {
		return nil, fmt.Errorf("load order group: %w", err)
	}
	if len(group) == 0 {
		// The triggering order is itself a member; reaching this means
		// upstream data is broken. Not retryable.
		return nil, fmt.Errorf("%w: group %s", ErrEmptyOrderGroup, triggering.GroupID)
	}

	// Load order is not guaranteed stable, sort regardless of the store.
	sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })

	currency := group[0].Currency
	ids := make([]uint, 0, len(group))
	var total float64

	for _, o := range group {
		if o.Currency != currency {
			return nil, fmt.Errorf("%w: %s vs %s", ErrMixedCurrency, currency, o.Currency)
		}
		ids = append(ids, o.ID)
		total += o.Total
	}

	req := &GroupPaymentRequest{
		Reference: BuildGroupReference(ids),
		Amount:    total,
		Currency:  currency,
	}

	logger.FromCtx(ctx).Info("built group payment request",
		zap.String("reference", req.Reference),
		zap.Float64("amount", req.Amount),
		zap.String("currency", req.Currency),
		zap.Int("orders", len(group)),
	)

	return req, nil
}
