package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"marketpay/internal/checkout"
	"marketpay/internal/gateway"
	"marketpay/internal/logger"
	"marketpay/internal/order"
	"marketpay/internal/paymethod"

	"go.uber.org/zap"
)

// Processor applies one gateway feedback to one order: create-or-update of
// the (order, remote-id) transaction, plus the optional navigation signal.
// Re-invocation with the same pair updates in place, never duplicates.
type Processor struct {
	txs  Repository
	gw   gateway.Gateway
	flow checkout.Flow
}

func NewProcessor(txs Repository, gw gateway.Gateway, flow checkout.Flow) *Processor {
	return &Processor{txs: txs, gw: gw, flow: flow}
}

// ProcessFeedback records the feedback against the order and, when navigate
// is set (interactive flow), advances or retreats the checkout. The stored
// amount is clamped to the order's own total: the gateway reports the
// group's combined amount, only this order's share may ever be recorded
// against it.
func (p *Processor) ProcessFeedback(ctx context.Context, o *order.Order, m *paymethod.Method, fb *gateway.Feedback, navigate bool) error {
	log := logger.FromCtx(ctx).With(
		zap.Uint("order_id", o.ID),
		zap.String("pay_id", fb.RemoteID),
	)

	tx, err := p.txs.FindByOrderAndRemoteID(ctx, p.gw.Code(), o.ID, fb.RemoteID)
	if err != nil {
		return fmt.Errorf("match transaction: %w", err)
	}
	if tx == nil {
		tx = &Transaction{
			PaymentMethod: p.gw.Code(),
			OrderID:       o.ID,
			RemoteID:      fb.RemoteID,
		}
		log.Info("creating payment transaction")
	} else {
		log.Info("updating payment transaction", zap.Int64("transaction_id", tx.ID))
	}

	status, message := p.gw.StatusOf(fb.StatusCode)

	raw, err := json.Marshal(fb.Raw)
	if err != nil {
		return fmt.Errorf("encode raw feedback: %w", err)
	}

	tx.MethodInstanceID = m.ID
	tx.Currency = fb.Currency
	tx.Amount = clamp(fromMinorUnits(fb.Amount), o.Total)
	tx.RemoteStatus = fb.StatusCode
	tx.Status = status
	tx.Message = message
	tx.RawFeedback = raw

	if err := p.txs.Upsert(ctx, tx); err != nil {
		return fmt.Errorf("persist transaction: %w", err)
	}

	if !navigate {
		return nil
	}
	if status.Failed() {
		return p.flow.Retreat(ctx, o)
	}
	return p.flow.Advance(ctx, o)
}

// fromMinorUnits converts the gateway's minor-unit amount to major units.
func fromMinorUnits(v int64) float64 {
	return float64(v) / 100
}

func clamp(amount, max float64) float64 {
	if amount > max {
		return max
	}
	return amount
}
