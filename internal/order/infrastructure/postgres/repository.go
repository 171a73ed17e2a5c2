package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/storefront/internal/order/domain"
	"github.com/example/storefront/pkg/apperror"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) CreateWithOutbox(ctx context.Context, o domain.Order, eventType string, payload []byte, traceparent string) error {
	shipping, err := json.Marshal(o.Shipping)
	if err != nil {
		return apperror.Internal(err)
	}
	payment, err := json.Marshal(o.Payment)
	if err != nil {
		return apperror.Internal(err)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperror.Internal(err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `INSERT INTO orders (id, user_id, shipping, payment, total_cents, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		o.ID, o.UserID, shipping, payment, o.TotalCents, o.Status, o.CreatedAt)
	if err != nil {
		return apperror.Internal(err)
	}

	batch := &pgx.Batch{}
	for _, l := range o.Lines {
		batch.Queue(`INSERT INTO order_items (order_id, product_id, name, price_cents, quantity)
			VALUES ($1,$2,$3,$4,$5)`,
			o.ID, l.ProductID, l.Name, l.PriceCents, l.Quantity)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperror.Internal(err)
	}

	_, err = tx.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, traceparent, status)
		VALUES ('order',$1,$2,$3,$4,'pending')`,
		o.ID, eventType, payload, traceparent)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	var shipping, payment []byte
	err := r.pool.QueryRow(ctx, `SELECT id, user_id, shipping, payment, total_cents, status, created_at, delivered_at
		FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.UserID, &shipping, &payment, &o.TotalCents, &o.Status, &o.CreatedAt, &o.DeliveredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, apperror.NotFound("order")
	}
	if err != nil {
		return domain.Order{}, apperror.Internal(err)
	}
	if err := json.Unmarshal(shipping, &o.Shipping); err != nil {
		return domain.Order{}, apperror.Internal(err)
	}
	if err := json.Unmarshal(payment, &o.Payment); err != nil {
		return domain.Order{}, apperror.Internal(err)
	}

	rows, err := r.pool.Query(ctx, `SELECT product_id, name, price_cents, quantity FROM order_items WHERE order_id=$1`, id)
	if err != nil {
		return domain.Order{}, apperror.Internal(err)
	}
	defer rows.Close()
	for rows.Next() {
		var l domain.Line
		if err := rows.Scan(&l.ProductID, &l.Name, &l.PriceCents, &l.Quantity); err != nil {
			return domain.Order{}, apperror.Internal(err)
		}
		o.Lines = append(o.Lines, l)
	}
	return o, rows.Err()
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.list(ctx, `SELECT id, user_id, shipping, payment, total_cents, status, created_at, delivered_at
		FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

func (r *Repository) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, `SELECT id, user_id, shipping, payment, total_cents, status, created_at, delivered_at
		FROM orders ORDER BY created_at DESC`)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		var shipping, payment []byte
		if err := rows.Scan(&o.ID, &o.UserID, &shipping, &payment, &o.TotalCents, &o.Status, &o.CreatedAt, &o.DeliveredAt); err != nil {
			return nil, apperror.Internal(err)
		}
		if err := json.Unmarshal(shipping, &o.Shipping); err != nil {
			return nil, apperror.Internal(err)
		}
		if err := json.Unmarshal(payment, &o.Payment); err != nil {
			return nil, apperror.Internal(err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Internal(err)
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(out))
	idx := make(map[string]int, len(out))
	for i, o := range out {
		ids = append(ids, o.ID)
		idx[o.ID] = i
	}
	itemRows, err := r.pool.Query(ctx, `SELECT order_id, product_id, name, price_cents, quantity
		FROM order_items WHERE order_id = ANY($1)`, ids)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var orderID string
		var l domain.Line
		if err := itemRows.Scan(&orderID, &l.ProductID, &l.Name, &l.PriceCents, &l.Quantity); err != nil {
			return nil, apperror.Internal(err)
		}
		out[idx[orderID]].Lines = append(out[idx[orderID]].Lines, l)
	}
	return out, itemRows.Err()
}

// UpdateStatusWithOutbox commits the status change, the per-line stock
// decrements and the event row together. Stock may go negative here: it was
// never reserved at checkout, the decrement is post-hoc by design.
func (r *Repository) UpdateStatusWithOutbox(ctx context.Context, o domain.Order, decrementStock bool, eventType string, payload []byte, traceparent string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperror.Internal(err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	ct, err := tx.Exec(ctx, `UPDATE orders SET status=$2, delivered_at=$3 WHERE id=$1`,
		o.ID, o.Status, o.DeliveredAt)
	if err != nil {
		return apperror.Internal(err)
	}
	if ct.RowsAffected() == 0 {
		return apperror.NotFound("order")
	}

	if decrementStock {
		batch := &pgx.Batch{}
		for _, l := range o.Lines {
			batch.Queue(`UPDATE products SET stock = stock - $2 WHERE id=$1`, l.ProductID, l.Quantity)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return apperror.Internal(err)
		}
	}

	_, err = tx.Exec(ctx, `INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, traceparent, status)
		VALUES ('order',$1,$2,$3,$4,'pending')`,
		o.ID, eventType, payload, traceparent)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (r *Repository) UpdatePaymentStatus(ctx context.Context, orderID, status string) error {
	ct, err := r.pool.Exec(ctx, `UPDATE orders SET payment = jsonb_set(payment, '{status}', to_jsonb($2::text)) WHERE id=$1`,
		orderID, status)
	if err != nil {
		return apperror.Internal(err)
	}
	if ct.RowsAffected() == 0 {
		return apperror.NotFound("order")
	}
	return nil
}
