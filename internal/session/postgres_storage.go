package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool used by PostgresStorage.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStorage stores client records in the client_storage table.
type PostgresStorage struct {
	db Querier
}

// NewPostgresStorage creates a PostgreSQL-backed storage.
func NewPostgresStorage(db Querier) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (s *PostgresStorage) Get(ctx context.Context, clientID, key string) ([]byte, error) {
	const q = `SELECT value FROM client_storage WHERE client_id = $1 AND key = $2`
	var v string
	err := s.db.QueryRow(ctx, q, clientID, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select client_storage: %w", err)
	}
	return []byte(v), nil
}

func (s *PostgresStorage) Set(ctx context.Context, clientID, key string, value []byte) error {
	const q = `INSERT INTO client_storage (client_id, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (client_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	if _, err := s.db.Exec(ctx, q, clientID, key, string(value)); err != nil {
		return fmt.Errorf("upsert client_storage: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Delete(ctx context.Context, clientID, key string) error {
	const q = `DELETE FROM client_storage WHERE client_id = $1 AND key = $2`
	if _, err := s.db.Exec(ctx, q, clientID, key); err != nil {
		return fmt.Errorf("delete client_storage: %w", err)
	}
	return nil
}
