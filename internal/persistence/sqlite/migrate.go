package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migrations holds the versioned schema statements applied at startup.
// Versions must be contiguous and ascending; each entry runs in its own
// transaction and is recorded in schema_migrations.
var migrations = []struct {
	version    int
	statements []string
}{
	{
		version: 1,
		statements: []string{
			`CREATE TABLE IF NOT EXISTS rooms (
				id          TEXT PRIMARY KEY,
				name        TEXT NOT NULL UNIQUE,
				type        TEXT NOT NULL DEFAULT '',
				capacity    INTEGER,
				features    TEXT,
				description TEXT,
				image_url   TEXT,
				created_at  INTEGER NOT NULL,
				updated_at  INTEGER NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS bookings (
				id         TEXT PRIMARY KEY,
				room_id    TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
				user_id    TEXT,
				start_time INTEGER NOT NULL,
				end_time   INTEGER NOT NULL,
				created_at INTEGER NOT NULL,
				updated_at INTEGER NOT NULL,
				CHECK (end_time > start_time)
			)`,
		},
	},
	{
		version: 2,
		statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_bookings_room_start ON bookings(room_id, start_time)`,
			`CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings(user_id)`,
		},
	},
}

// Migrate brings the schema up to date. It is safe to call on every startup.
func Migrate(ctx context.Context, pool *ConnectionPool) error {
	if _, err := pool.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("sqlite: failed to prepare migration tracking: %w", err)
	}

	var current sql.NullInt64
	if err := pool.db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("sqlite: failed to read schema version: %w", err)
	}

	for _, migration := range migrations {
		if current.Valid && int64(migration.version) <= current.Int64 {
			continue
		}
		err := pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			for _, statement := range migration.statements {
				if _, err := tx.Exec(statement); err != nil {
					return fmt.Errorf("sqlite: migration %d failed: %w", migration.version, err)
				}
			}
			_, err := tx.Exec(`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
				migration.version, time.Now().Unix())
			return err
		})
		if err != nil {
			return err
		}
	}

	return nil
}
