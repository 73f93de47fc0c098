package security

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nerrad567/gray-m2m-core/internal/dm"
)

// Repository persists Security instances across restarts.
type Repository interface {
	// LoadAll returns every stored instance, ascending by iid.
	LoadAll(ctx context.Context) ([]Instance, error)

	// SaveAll replaces the stored set with the given instances
	// atomically.
	SaveAll(ctx context.Context, instances []Instance) error
}

// SQLiteRepository is the SQLite-backed Repository. The schema lives
// in migrations/20260830_100000_security_instances.up.sql.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a repository over an open database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// LoadAll returns every stored instance, ascending by iid.
func (r *SQLiteRepository) LoadAll(ctx context.Context) ([]Instance, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT iid, server_uri, security_mode,
		       pk_or_identity, server_pk_or_identity, secret_key,
		       short_server_id
		FROM security_instances
		ORDER BY iid ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying security instances: %w", err)
	}
	defer rows.Close()

	var instances []Instance
	for rows.Next() {
		var (
			in  Instance
			iid int64
		)
		if err := rows.Scan(&iid, &in.ServerURI, &in.SecurityMode,
			&in.PKOrIdentity, &in.ServerPKOrIdentity, &in.SecretKey,
			&in.ShortServerID); err != nil {
			return nil, fmt.Errorf("scanning security instance: %w", err)
		}
		in.IID = dm.IID(iid)
		instances = append(instances, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating security instances: %w", err)
	}
	return instances, nil
}

// SaveAll replaces the stored set with the given instances atomically.
func (r *SQLiteRepository) SaveAll(ctx context.Context, instances []Instance) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM security_instances`); err != nil {
		return fmt.Errorf("clearing security instances: %w", err)
	}

	for _, in := range instances {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO security_instances
				(iid, server_uri, security_mode,
				 pk_or_identity, server_pk_or_identity, secret_key,
				 short_server_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			int64(in.IID), in.ServerURI, in.SecurityMode,
			in.PKOrIdentity, in.ServerPKOrIdentity, in.SecretKey,
			in.ShortServerID,
		); err != nil {
			return fmt.Errorf("inserting security instance %d: %w", in.IID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing security instances: %w", err)
	}
	return nil
}
