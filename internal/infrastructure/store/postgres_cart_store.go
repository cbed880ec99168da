package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/abc-retail-cloud/internal/domain/cart"
)

// PostgresCartStore implements cart.Store on PostgreSQL.
type PostgresCartStore struct {
	db *sql.DB
}

func NewPostgresCartStore(db *sql.DB) *PostgresCartStore {
	return &PostgresCartStore{db: db}
}

// GetOrCreate returns the user's cart, inserting one if absent. The
// upsert keeps concurrent callers on the same row via the user_id
// unique constraint.
func (s *PostgresCartStore) GetOrCreate(ctx context.Context, userID int64) (*cart.Cart, error) {
	var c cart.Cart
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO carts (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		 RETURNING id, user_id, created_at, updated_at`,
		userID,
	).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpsertItem inserts a line or adds quantity to the existing line for
// the same product, then bumps the cart's updated_at.
func (s *PostgresCartStore) UpsertItem(ctx context.Context, cartID int64, productID, productName string, unitPrice int64, quantity int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cart_items (cart_id, product_id, product_name, quantity, unit_price)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (cart_id, product_id)
		 DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		cartID, productID, productName, quantity, unitPrice,
	)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE carts SET updated_at = now() WHERE id = $1`, cartID)
	return err
}

func (s *PostgresCartStore) SetItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE cart_items SET quantity = $1 WHERE id = $2`, quantity, itemID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

func (s *PostgresCartStore) DeleteItem(ctx context.Context, itemID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return cart.ErrItemNotFound
	}
	return nil
}

func (s *PostgresCartStore) ItemsByCart(ctx context.Context, cartID int64) ([]cart.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, cart_id, product_id, product_name, quantity, unit_price, added_at
		 FROM cart_items
		 WHERE cart_id = $1
		 ORDER BY added_at DESC, id DESC`,
		cartID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []cart.Item
	for rows.Next() {
		var it cart.Item
		if err := rows.Scan(&it.ID, &it.CartID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.AddedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *PostgresCartStore) ClearItems(ctx context.Context, cartID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	return err
}

func (s *PostgresCartStore) Total(ctx context.Context, cartID int64) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(quantity * unit_price), 0) FROM cart_items WHERE cart_id = $1`,
		cartID,
	).Scan(&total)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return total, nil
}

func (s *PostgresCartStore) ItemCount(ctx context.Context, userID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(ci.quantity), 0)
		 FROM cart_items ci
		 JOIN carts c ON c.id = ci.cart_id
		 WHERE c.user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return count, nil
}
