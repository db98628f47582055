package sqlstore

import (
	"context"
	"fmt"
)

var schema = map[Dialect][]string{
	MySQL: {
		`CREATE TABLE IF NOT EXISTS documents (
			collection VARCHAR(64) NOT NULL,
			id         VARCHAR(64) NOT NULL,
			status     VARCHAR(64) NOT NULL DEFAULT '',
			data       LONGTEXT    NOT NULL,
			created_at BIGINT      NOT NULL,
			updated_at BIGINT      NOT NULL,
			PRIMARY KEY (collection, id),
			KEY idx_documents_updated (collection, updated_at)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	},
	SQLite: {
		`CREATE TABLE IF NOT EXISTS documents (
			collection TEXT    NOT NULL,
			id         TEXT    NOT NULL,
			status     TEXT    NOT NULL DEFAULT '',
			data       TEXT    NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (collection, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_updated ON documents (collection, updated_at)`,
	},
}

// Migrate creates the documents table. It is idempotent.
func (s *Storage) Migrate(ctx context.Context) error {
	const op = "storage.sqlstore.Migrate"

	for _, stmt := range schema[s.dialect] {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}
