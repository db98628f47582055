package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// querier is satisfied by both *sqlx.DB and *sqlx.Tx.
type querier interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
}

type docRow struct {
	Collection string `db:"collection"`
	ID         string `db:"id"`
	Status     string `db:"status"`
	Data       []byte `db:"data"`
	CreatedAt  int64  `db:"created_at"`
	UpdatedAt  int64  `db:"updated_at"`
}

func (r docRow) document() storage.Document {
	return storage.Document{
		Collection: r.Collection,
		ID:         r.ID,
		Status:     r.Status,
		Data:       r.Data,
		CreatedAt:  time.UnixMicro(r.CreatedAt).UTC(),
		UpdatedAt:  time.UnixMicro(r.UpdatedAt).UTC(),
	}
}

const selectDocs = `SELECT collection, id, status, data, created_at, updated_at FROM documents`

func listDocs(ctx context.Context, q querier, collection string) ([]storage.Document, error) {
	const op = "storage.sqlstore.List"

	var rows []docRow
	err := sqlx.SelectContext(ctx, q, &rows, selectDocs+` WHERE collection = ? ORDER BY created_at, id`, collection)
	if err != nil {
		return nil, fmt.Errorf("%s: select %s: %w", op, collection, err)
	}

	docs := make([]storage.Document, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, r.document())
	}

	return docs, nil
}

func getDoc(ctx context.Context, q querier, dialect Dialect, collection, id string, forUpdate bool) (storage.Document, error) {
	const op = "storage.sqlstore.Get"

	query := selectDocs + ` WHERE collection = ? AND id = ?`
	if forUpdate && dialect == MySQL {
		query += ` FOR UPDATE`
	}

	var row docRow
	if err := sqlx.GetContext(ctx, q, &row, query, collection, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Document{}, fmt.Errorf("%s: %s/%s: %w", op, collection, id, storage.ErrNotFound)
		}
		return storage.Document{}, fmt.Errorf("%s: %s/%s: %w", op, collection, id, err)
	}

	return row.document(), nil
}

func insertDoc(ctx context.Context, q querier, doc storage.Document) error {
	const op = "storage.sqlstore.Insert"

	_, err := q.ExecContext(ctx,
		`INSERT INTO documents (collection, id, status, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		doc.Collection, doc.ID, doc.Status, doc.Data, doc.CreatedAt.UnixMicro(), doc.UpdatedAt.UnixMicro(),
	)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%s: %s/%s: %w", op, doc.Collection, doc.ID, storage.ErrConflict)
		}
		return fmt.Errorf("%s: %s/%s: %w", op, doc.Collection, doc.ID, err)
	}

	return nil
}

func updateDoc(ctx context.Context, q querier, doc storage.Document) error {
	const op = "storage.sqlstore.Update"

	res, err := q.ExecContext(ctx,
		`UPDATE documents SET status = ?, data = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		doc.Status, doc.Data, doc.UpdatedAt.UnixMicro(), doc.Collection, doc.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: %s/%s: %w", op, doc.Collection, doc.ID, err)
	}

	return affected(op, res, doc.Collection, doc.ID)
}

func deleteDoc(ctx context.Context, q querier, collection, id string) error {
	const op = "storage.sqlstore.Delete"

	res, err := q.ExecContext(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("%s: %s/%s: %w", op, collection, id, err)
	}

	return affected(op, res, collection, id)
}

func affected(op string, res sql.Result, collection, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %s/%s: %w", op, collection, id, storage.ErrNotFound)
	}
	return nil
}

func isDuplicate(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
