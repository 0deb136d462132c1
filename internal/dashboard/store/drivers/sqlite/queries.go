package sqlite

import (
	"context"
	"database/sql"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type queries struct {
	db dbtx
}

const getUserByEmail = `
SELECT id, email, display_name, password_hash, role, created_at
FROM users
WHERE lower(email) = lower(?)
`

type userRow struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	Role         string
	CreatedAt    string
}

func (q *queries) getUserByEmail(ctx context.Context, email string) (userRow, error) {
	var r userRow
	err := q.db.QueryRowContext(ctx, getUserByEmail, email).Scan(
		&r.ID,
		&r.Email,
		&r.DisplayName,
		&r.PasswordHash,
		&r.Role,
		&r.CreatedAt,
	)
	return r, err
}

const existsByEmail = `SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower(?))`

func (q *queries) existsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, existsByEmail, email).Scan(&exists)
	return exists, err
}

const createUser = `
INSERT INTO users (id, email, display_name, password_hash, role, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`

func (q *queries) createUser(ctx context.Context, r userRow) error {
	_, err := q.db.ExecContext(ctx, createUser,
		r.ID,
		r.Email,
		r.DisplayName,
		r.PasswordHash,
		r.Role,
		r.CreatedAt,
	)
	return err
}
