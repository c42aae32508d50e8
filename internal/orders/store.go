package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store adalah kontrak penyimpanan order. CreateOrder mencakup reservasi
// stok + persist header & items dalam SATU unit atomik: tidak ada state
// stok berkurang tanpa order tercatat, atau sebaliknya.
type Store interface {
	CreateOrder(ctx context.Context, userID string, lines []ItemInput) (*Order, []ReservedLine, error)
	FindByID(ctx context.Context, id string) (*Order, error)
	FindByUser(ctx context.Context, userID string) ([]Order, error)
	FindAll(ctx context.Context) ([]Order, error)
}

type PostgresStore struct {
	DB     *pgxpool.Pool
	Ledger Ledger
}

func (s *PostgresStore) CreateOrder(ctx context.Context, userID string, lines []ItemInput) (*Order, []ReservedLine, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	reserved, err := s.Ledger.Reserve(ctx, tx, lines)
	if err != nil {
		return nil, nil, err
	}

	order := &Order{
		ID:     uuid.NewString(),
		UserID: userID,
		Status: StatusCompleted,
		Items:  make([]OrderItem, 0, len(reserved)),
	}
	for _, r := range reserved {
		order.Items = append(order.Items, OrderItem{
			ProductID:      r.ProductID,
			ProductName:    r.ProductName,
			Qty:            r.Qty,
			UnitPriceCents: r.UnitPriceCents,
			LineTotalCents: int64(r.Qty) * r.UnitPriceCents,
		})
	}
	order.TotalCents = order.ItemsTotalCents()

	err = tx.QueryRow(ctx, `
		INSERT INTO orders(id, user_id, status, total_cents)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at`,
		order.ID, order.UserID, order.Status, order.TotalCents).
		Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("insert order: %w", err)
	}

	for _, it := range order.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items(order_id, product_id, product_name, qty, unit_price_cents, line_total_cents)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			order.ID, it.ProductID, it.ProductName, it.Qty, it.UnitPriceCents, it.LineTotalCents); err != nil {
			return nil, nil, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit order: %w", err)
	}
	return order, reserved, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Order, error) {
	var o Order
	err := s.DB.QueryRow(ctx, `
		SELECT id, user_id, status, total_cents, created_at, updated_at
		FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.UserID, &o.Status, &o.TotalCents, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := s.loadItems(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return &o, nil
}

func (s *PostgresStore) FindByUser(ctx context.Context, userID string) ([]Order, error) {
	return s.queryOrders(ctx, `
		SELECT id, user_id, status, total_cents, created_at, updated_at
		FROM orders WHERE user_id=$1
		ORDER BY created_at DESC, id`, userID)
}

func (s *PostgresStore) FindAll(ctx context.Context) ([]Order, error) {
	return s.queryOrders(ctx, `
		SELECT id, user_id, status, total_cents, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC, id`)
}

func (s *PostgresStore) queryOrders(ctx context.Context, sql string, args ...any) ([]Order, error) {
	rows, err := s.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	var ids []string
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalCents, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	items, err := s.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = items[out[i].ID]
	}
	return out, nil
}

// loadItems mengembalikan items per order_id, urut sesuai insert.
func (s *PostgresStore) loadItems(ctx context.Context, orderIDs []string) (map[string][]OrderItem, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT order_id, product_id, product_name, qty, unit_price_cents, line_total_cents
		FROM order_items WHERE order_id = ANY($1)
		ORDER BY id`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[string][]OrderItem, len(orderIDs))
	for rows.Next() {
		var orderID string
		var it OrderItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.ProductName, &it.Qty, &it.UnitPriceCents, &it.LineTotalCents); err != nil {
			return nil, err
		}
		items[orderID] = append(items[orderID], it)
	}
	return items, rows.Err()
}
