package paymethod

import (
	"context"
	"database/sql"
)

type Repository interface {
	// FindByOrder resolves the payment-method instance the order was
	// checked out with. Returns nil, nil when the order has none configured.
	FindByOrder(ctx context.Context, orderID uint) (*Method, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByOrder(ctx context.Context, orderID uint) (*Method, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT m.id, m.code, m.title, m.enabled
		FROM payment_methods m
		JOIN orders o ON o.pay_method_id = m.id
		WHERE o.id = $1
	`, orderID)

	var m Method
	err := row.Scan(&m.ID, &m.Code, &m.Title, &m.Enabled)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
