package order

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Repository interface {
	GetByID(ctx context.Context, orderID uint) (*Order, error)
	GetByIDs(ctx context.Context, orderIDs []uint) ([]*Order, error)
	// GetByGroup returns every order sharing the group id, ascending by id.
	GetByGroup(ctx context.Context, groupID uuid.UUID) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status OrderStatus) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id, order_number, group_id, vendor_id, user_id,
	total_amount, currency, pay_method_id, status, created_at, updated_at
`

func scanOrder(row interface{ Scan(dest ...any) error }) (*Order, error) {
	var o Order
	var methodID sql.NullInt64

	err := row.Scan(
		&o.ID, &o.Number, &o.GroupID, &o.VendorID, &o.UserID,
		&o.Total, &o.Currency, &methodID, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if methodID.Valid {
		id := uint(methodID.Int64)
		o.PayMethodID = &id
	}
	return &o, nil
}

func (r *repository) GetByID(ctx context.Context, orderID uint) (*Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders WHERE id = $1
	`, orderID)

	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) GetByIDs(ctx context.Context, orderIDs []uint) ([]*Order, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(orderIDs))
	for i, id := range orderIDs {
		ids[i] = int64(id)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders WHERE id = ANY($1)
		ORDER BY id ASC
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *repository) GetByGroup(ctx context.Context, groupID uuid.UUID) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders WHERE group_id = $1
		ORDER BY id ASC
	`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectOrders(rows)
}

func collectOrders(rows *sql.Rows) ([]*Order, error) {
	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, orderID uint, status OrderStatus) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = now() WHERE id = $2
	`, status, orderID)
	return err
}
