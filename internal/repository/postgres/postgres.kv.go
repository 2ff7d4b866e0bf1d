// FilePath: internal/repository/postgres/postgres.kv.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/beemind/hub/internal/database"
	apierrors "github.com/beemind/hub/internal/errors"
	"github.com/beemind/hub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// KVStore keeps the local state in a single Postgres table
type KVStore struct {
	db  database.DB
	now func() time.Time
}

type kvRow struct {
	Value     string       `db:"value"`
	ExpiresAt sql.NullTime `db:"expires_at"`
}

func NewKVStore(db database.DB) (*KVStore, error) {
	repo := &KVStore{db: db, now: time.Now}
	if err := repo.initializeSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *KVStore) initializeSchema() error {
	query := `CREATE TABLE IF NOT EXISTS kv_store (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			expires_at TIMESTAMPTZ NULL
		)`
	if _, err := r.db.GetDB().Exec(query); err != nil {
		return apierrors.NewStorageError("failed to initialize schema", err)
	}
	nuts.L.Infof("[PostgresKV] Schema ready")
	return nil
}

func (r *KVStore) Get(ctx context.Context, key string) (string, error) {
	var row kvRow
	query := `SELECT value, expires_at FROM kv_store WHERE key = $1`

	err := r.db.GetDB().GetContext(ctx, &row, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", repository.ErrNotFound
		}
		return "", apierrors.NewStorageError("failed to read key", err)
	}
	if row.ExpiresAt.Valid && r.now().After(row.ExpiresAt.Time) {
		return "", repository.ErrNotFound
	}
	return row.Value, nil
}

func (r *KVStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	var expires sql.NullTime
	if ttl > 0 {
		expires = sql.NullTime{Time: r.now().Add(ttl), Valid: true}
	}
	query := `
		INSERT INTO kv_store (key, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`

	if _, err := r.db.GetDB().ExecContext(ctx, query, key, value, expires); err != nil {
		return apierrors.NewStorageError("failed to write key", err)
	}
	return nil
}

func (r *KVStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_store WHERE key = $1`
	if _, err := r.db.GetDB().ExecContext(ctx, query, key); err != nil {
		return apierrors.NewStorageError("failed to delete key", err)
	}
	return nil
}

func (r *KVStore) Close() error {
	return r.db.Close()
}
