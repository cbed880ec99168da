package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/example/abc-retail-cloud/internal/domain/user"
)

// PostgresUserStore implements user.Store on PostgreSQL.
type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) Insert(ctx context.Context, u *user.User) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name, phone, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.Role, u.CreatedAt,
	).Scan(&u.ID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return user.ErrEmailTaken
	}
	return err
}

func (s *PostgresUserStore) ByID(ctx context.Context, id int64) (*user.User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, first_name, last_name, phone, role, created_at
		 FROM users WHERE id = $1`, id))
}

func (s *PostgresUserStore) ByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, first_name, last_name, phone, role, created_at
		 FROM users WHERE email = $1`, email))
}

func (s *PostgresUserStore) scanOne(row *sql.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
