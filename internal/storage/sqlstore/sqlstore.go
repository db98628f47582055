package sqlstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/config"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type Dialect string

const (
	MySQL  Dialect = "mysql"
	SQLite Dialect = "sqlite"
)

// Storage is the document store. All documents live in one table keyed by
// (collection, id).
type Storage struct {
	db      *sqlx.DB
	dialect Dialect
	// now stamps removals, which have no document left to carry a time
	now func() time.Time

	mu   sync.RWMutex
	sink storage.ChangeSink
}

// New opens the store described by the storage section of the config.
func New(cfg config.Storage) (*Storage, error) {
	const op = "storage.sqlstore.New"

	switch Dialect(cfg.Driver) {
	case MySQL:
		return Open(MySQL, cfg.MySQLDSN())
	case SQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("%s: create sqlite dir: %w", op, err)
			}
		}
		return Open(SQLite, SQLiteDSN(cfg.SQLitePath))
	default:
		return nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Driver)
	}
}

// SQLiteDSN returns a modernc DSN for a database file.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

func Open(dialect Dialect, dsn string) (*Storage, error) {
	const op = "storage.sqlstore.Open"

	db, err := sqlx.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// sqlite: one connection, so transactions serialise instead of failing with SQLITE_BUSY
	if dialect == SQLite {
		db.SetMaxOpenConns(1)
	}

	return &Storage{db: db, dialect: dialect, now: time.Now}, nil
}

// SetSink registers the receiver of committed changes.
func (s *Storage) SetSink(sink storage.ChangeSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
}

func (s *Storage) emit(changes ...storage.Change) {
	s.mu.RLock()
	sink := s.sink
	s.mu.RUnlock()

	if sink == nil {
		return
	}
	for _, c := range changes {
		sink.Publish(c)
	}
}

func (s *Storage) Dialect() Dialect { return s.dialect }

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) List(ctx context.Context, collection string) ([]storage.Document, error) {
	return listDocs(ctx, s.db, collection)
}

func (s *Storage) Get(ctx context.Context, collection, id string) (storage.Document, error) {
	return getDoc(ctx, s.db, s.dialect, collection, id, false)
}

func (s *Storage) Insert(ctx context.Context, doc storage.Document) error {
	if err := insertDoc(ctx, s.db, doc); err != nil {
		return err
	}
	s.emit(storage.Change{Kind: storage.ChangeAdded, Collection: doc.Collection, Document: doc})
	return nil
}

func (s *Storage) Update(ctx context.Context, doc storage.Document) error {
	if err := updateDoc(ctx, s.db, doc); err != nil {
		return err
	}
	s.emit(storage.Change{Kind: storage.ChangeModified, Collection: doc.Collection, Document: doc})
	return nil
}

func (s *Storage) Delete(ctx context.Context, collection, id string) error {
	if err := deleteDoc(ctx, s.db, collection, id); err != nil {
		return err
	}
	s.emit(removed(collection, id, s.now()))
	return nil
}

// RunInTx runs fn in a transaction. Changes made through tx are published
// after a successful commit and dropped on rollback.
func (s *Storage) RunInTx(ctx context.Context, fn func(ctx context.Context, tx storage.DocStore) error) error {
	const op = "storage.sqlstore.RunInTx"

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	t := &txStore{tx: tx, dialect: s.dialect, now: s.now}
	if err := fn(ctx, t); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	s.emit(t.changes...)
	return nil
}

// txStore is the transaction-bound view handed to RunInTx callbacks.
type txStore struct {
	tx      *sqlx.Tx
	dialect Dialect
	now     func() time.Time
	changes []storage.Change
}

func (t *txStore) List(ctx context.Context, collection string) ([]storage.Document, error) {
	return listDocs(ctx, t.tx, collection)
}

func (t *txStore) Get(ctx context.Context, collection, id string) (storage.Document, error) {
	return getDoc(ctx, t.tx, t.dialect, collection, id, true)
}

func (t *txStore) Insert(ctx context.Context, doc storage.Document) error {
	if err := insertDoc(ctx, t.tx, doc); err != nil {
		return err
	}
	t.changes = append(t.changes, storage.Change{Kind: storage.ChangeAdded, Collection: doc.Collection, Document: doc})
	return nil
}

func (t *txStore) Update(ctx context.Context, doc storage.Document) error {
	if err := updateDoc(ctx, t.tx, doc); err != nil {
		return err
	}
	t.changes = append(t.changes, storage.Change{Kind: storage.ChangeModified, Collection: doc.Collection, Document: doc})
	return nil
}

func (t *txStore) Delete(ctx context.Context, collection, id string) error {
	if err := deleteDoc(ctx, t.tx, collection, id); err != nil {
		return err
	}
	t.changes = append(t.changes, removed(collection, id, t.now()))
	return nil
}

func (t *txStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx storage.DocStore) error) error {
	return fn(ctx, t)
}

// removed carries the deletion time in UpdatedAt so readers can order it
// against updates published by other transactions.
func removed(collection, id string, at time.Time) storage.Change {
	return storage.Change{
		Kind:       storage.ChangeRemoved,
		Collection: collection,
		Document:   storage.Document{Collection: collection, ID: id, UpdatedAt: at},
	}
}
