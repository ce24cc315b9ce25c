package payment

import (
	"context"
	"database/sql"
)

type Repository interface {
	// FindByOrderAndRemoteID returns the transaction for one (order,
	// remote-id) pair under the given gateway, or nil when none exists.
	// Should duplicates ever exist, the most recently created one wins.
	FindByOrderAndRemoteID(ctx context.Context, method string, orderID uint, remoteID string) (*Transaction, error)

	// Upsert inserts the transaction or, when the unique
	// (payment_method, order_id, remote_id) row already exists, overwrites
	// it in place. Concurrent writers for the same pair converge on one row.
	Upsert(ctx context.Context, tx *Transaction) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByOrderAndRemoteID(ctx context.Context, method string, orderID uint, remoteID string) (*Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, payment_method, method_instance_id, order_id, remote_id,
		       currency, amount, remote_status, status, message, raw_feedback,
		       created_at, updated_at
		FROM payment_transactions
		WHERE payment_method = $1 AND order_id = $2 AND remote_id = $3
		ORDER BY id DESC
		LIMIT 1
	`, method, orderID, remoteID)

	var tx Transaction
	err := row.Scan(
		&tx.ID, &tx.PaymentMethod, &tx.MethodInstanceID, &tx.OrderID, &tx.RemoteID,
		&tx.Currency, &tx.Amount, &tx.RemoteStatus, &tx.Status, &tx.Message, &tx.RawFeedback,
		&tx.CreatedAt, &tx.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *repository) Upsert(ctx context.Context, tx *Transaction) error {
	const q = `
	INSERT INTO payment_transactions (
		payment_method, method_instance_id, order_id, remote_id,
		currency, amount, remote_status, status, message, raw_feedback
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (payment_method, order_id, remote_id)
	DO UPDATE SET
		method_instance_id = EXCLUDED.method_instance_id,
		currency           = EXCLUDED.currency,
		amount             = EXCLUDED.amount,
		remote_status      = EXCLUDED.remote_status,
		status             = EXCLUDED.status,
		message            = EXCLUDED.message,
		raw_feedback       = EXCLUDED.raw_feedback,
		updated_at         = now()
	RETURNING id;
	`

	return r.db.QueryRowContext(ctx, q,
		tx.PaymentMethod, tx.MethodInstanceID, tx.OrderID, tx.RemoteID,
		tx.Currency, tx.Amount, tx.RemoteStatus, tx.Status, tx.Message, []byte(tx.RawFeedback),
	).Scan(&tx.ID)
}
