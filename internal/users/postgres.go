package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maazahmad/spendtrace/internal/domain"
)

// Postgres is the pgx-backed Store.
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against the given DSN and ensures the schema exists.
func Connect(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("users: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("users: ping: %w", err)
	}

	p := &Postgres{pool: pool}
	if err := p.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) ensureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			phone_number   TEXT PRIMARY KEY,
			spreadsheet_id TEXT NOT NULL,
			email          TEXT NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("users: ensure schema: %w", err)
	}
	return nil
}

// FindByHandle implements Store.
func (p *Postgres) FindByHandle(ctx context.Context, phoneNumber string) (domain.User, error) {
	var u domain.User
	err := p.pool.QueryRow(ctx, `
		SELECT phone_number, spreadsheet_id, email, created_at
		FROM users WHERE phone_number = $1
	`, phoneNumber).Scan(&u.PhoneNumber, &u.SpreadsheetID, &u.Email, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("users: find by handle: %w", err)
	}
	return u, nil
}

// Save implements Store. A second onboarding for the same handle replaces the
// record, pointing it at the newly provisioned ledger.
func (p *Postgres) Save(ctx context.Context, user domain.User) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO users(phone_number, spreadsheet_id, email)
		VALUES($1, $2, $3)
		ON CONFLICT (phone_number) DO UPDATE
		SET spreadsheet_id = EXCLUDED.spreadsheet_id,
			email = EXCLUDED.email
	`, user.PhoneNumber, user.SpreadsheetID, user.Email)
	if err != nil {
		return fmt.Errorf("users: save: %w", err)
	}
	return nil
}

// FindAll implements Store.
func (p *Postgres) FindAll(ctx context.Context) ([]domain.User, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT phone_number, spreadsheet_id, email, created_at
		FROM users ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("users: find all: %w", err)
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.PhoneNumber, &u.SpreadsheetID, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("users: scan row: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("users: iterate rows: %w", err)
	}
	return result, nil
}

// Close releases the underlying pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

var _ Store = (*Postgres)(nil)
