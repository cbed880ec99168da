package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/abc-retail-cloud/internal/domain/order"
)

// PostgresOrderStore implements order.Store on PostgreSQL. Create owns
// the checkout transaction.
type PostgresOrderStore struct {
	db *sql.DB
}

func NewPostgresOrderStore(db *sql.DB) *PostgresOrderStore {
	return &PostgresOrderStore{db: db}
}

// Create inserts the order header and its item snapshots and deletes
// the cart lines, all inside one transaction. Any failure rolls the
// whole thing back and leaves the cart untouched.
func (s *PostgresOrderStore) Create(ctx context.Context, o *order.Order, cartID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (user_id, order_date, status, total, shipping_address, special_instructions)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		o.UserID, o.OrderDate, string(o.Status), o.Total, o.ShippingAddress, o.SpecialInstructions,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("failed to insert order header: %w", err)
	}

	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		err = tx.QueryRowContext(ctx,
			`INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			it.OrderID, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice,
		).Scan(&it.ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return tx.Commit()
}

func (s *PostgresOrderStore) ByID(ctx context.Context, orderID int64) (*order.Order, error) {
	var o order.Order
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, order_date, status, total, shipping_address, special_instructions, processed_at
		 FROM orders WHERE id = $1`,
		orderID,
	).Scan(&o.ID, &o.UserID, &o.OrderDate, &status, &o.Total, &o.ShippingAddress, &o.SpecialInstructions, &o.ProcessedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	o.Status = order.Status(status)

	items, err := s.itemsByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (s *PostgresOrderStore) itemsByOrder(ctx context.Context, orderID int64) ([]order.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, order_id, product_id, product_name, quantity, unit_price
		 FROM order_items WHERE order_id = $1 ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []order.Item
	for rows.Next() {
		var it order.Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *PostgresOrderStore) ByUser(ctx context.Context, userID int64) ([]order.Order, error) {
	return s.list(ctx,
		`SELECT id, user_id, order_date, status, total, shipping_address, special_instructions, processed_at
		 FROM orders WHERE user_id = $1 ORDER BY order_date DESC, id DESC`,
		userID)
}

func (s *PostgresOrderStore) All(ctx context.Context) ([]order.Order, error) {
	return s.list(ctx,
		`SELECT id, user_id, order_date, status, total, shipping_address, special_instructions, processed_at
		 FROM orders ORDER BY order_date DESC, id DESC`)
}

func (s *PostgresOrderStore) ByStatus(ctx context.Context, status order.Status) ([]order.Order, error) {
	return s.list(ctx,
		`SELECT id, user_id, order_date, status, total, shipping_address, special_instructions, processed_at
		 FROM orders WHERE status = $1 ORDER BY order_date DESC, id DESC`,
		string(status))
}

func (s *PostgresOrderStore) list(ctx context.Context, query string, args ...any) ([]order.Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		var o order.Order
		var status string
		if err := rows.Scan(&o.ID, &o.UserID, &o.OrderDate, &status, &o.Total, &o.ShippingAddress, &o.SpecialInstructions, &o.ProcessedAt); err != nil {
			return nil, err
		}
		o.Status = order.Status(status)
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// SetStatus writes the status and, when processedAt is non-nil, the
// processed date. An existing stamp is kept via COALESCE.
func (s *PostgresOrderStore) SetStatus(ctx context.Context, orderID int64, status order.Status, processedAt *time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE orders
		 SET status = $1,
		     processed_at = COALESCE(processed_at, $2)
		 WHERE id = $3`,
		string(status), processedAt, orderID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

func (s *PostgresOrderStore) TotalRevenue(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total), 0) FROM orders WHERE status IN ($1, $2)`,
		string(order.StatusCompleted), string(order.StatusProcessed),
	).Scan(&total)
	return total, err
}

func (s *PostgresOrderStore) CountByStatus(ctx context.Context, status order.Status) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE status = $1`, string(status),
	).Scan(&count)
	return count, err
}
