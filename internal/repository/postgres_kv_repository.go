package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresKVRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresKVRepository returns a Postgres-backed implementation over the kv_store table.
func NewPostgresKVRepository(pool *pgxpool.Pool) KeyValueRepository {
	return &postgresKVRepository{pool: pool}
}

func (r *postgresKVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `SELECT value FROM kv_store WHERE key=$1`

	var value string
	if err := r.pool.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (r *postgresKVRepository) Set(ctx context.Context, key, value string) error {
	const query = `
        INSERT INTO kv_store (key, value)
        VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()`

	_, err := r.pool.Exec(ctx, query, key, value)
	return err
}

func (r *postgresKVRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	const query = `DELETE FROM kv_store WHERE key = ANY($1)`

	_, err := r.pool.Exec(ctx, query, keys)
	return err
}
