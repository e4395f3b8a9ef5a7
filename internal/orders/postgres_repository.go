package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Pu11en/peptide-website/internal/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateOrder inserts the order and its items in one transaction. The
// unique constraint on payment_ref is the webhook dedup key: redelivered
// events surface as ErrDuplicatePaymentRef instead of a second order.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO orders (id, email, total_cents, status, payment_ref, created_at)
	          VALUES ($1, $2, $3, $4, NULLIF($5, ''), NOW())`

	_, insertErr := tx.ExecContext(ctx, query,
		order.ID,
		order.Email,
		order.TotalCents,
		order.Status,
		order.PaymentRef)
	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicatePaymentRef
		}
		return fmt.Errorf("insert order: %w", insertErr)
	}

	itemQuery := `INSERT INTO order_items (order_id, slug, size, quantity, price_cents)
	              VALUES ($1, $2, $3, $4, $5)`
	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, itemQuery, order.ID, item.Slug, item.Size, item.Quantity, item.PriceCents); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return r.getOrder(ctx, `WHERE id = $1`, id)
}

func (r *PostgresRepository) GetOrderByPaymentRef(ctx context.Context, ref string) (*domain.Order, error) {
	return r.getOrder(ctx, `WHERE payment_ref = $1`, ref)
}

func (r *PostgresRepository) getOrder(ctx context.Context, where string, arg any) (*domain.Order, error) {
	query := `SELECT id, email, total_cents, status, COALESCE(payment_ref, ''), created_at
	          FROM orders ` + where

	var order domain.Order
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&order.ID,
		&order.Email,
		&order.TotalCents,
		&order.Status,
		&order.PaymentRef,
		&order.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	itemsQuery := `SELECT slug, COALESCE(size, ''), quantity, price_cents
	               FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, itemsQuery, order.ID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.Slug, &item.Size, &item.Quantity, &item.PriceCents); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return &order, nil
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
