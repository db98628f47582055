package storage

import (
	"context"
	"time"
)

// DayLayout is the persisted format of calendar days ("2024-06-03").
const DayLayout = "2006-01-02"

// Document is one raw JSON document of a collection.
type Document struct {
	Collection string
	ID         string
	Status     string
	Data       []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeModified ChangeKind = "modified"
	ChangeRemoved  ChangeKind = "removed"
	// ChangeRefresh asks subscribers to reload the whole collection.
	ChangeRefresh ChangeKind = "refresh"
)

type Change struct {
	Kind       ChangeKind
	Collection string
	Document   Document
}

// ChangeSink receives committed changes.
type ChangeSink interface {
	Publish(c Change)
}

// DocStore is the document database. Implementations emit changes to their
// sink only once the write is durable; inside RunInTx that means after commit.
type DocStore interface {
	List(ctx context.Context, collection string) ([]Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Insert(ctx context.Context, doc Document) error
	Update(ctx context.Context, doc Document) error
	Delete(ctx context.Context, collection, id string) error
	// RunInTx runs fn against a transaction-bound store. Calling RunInTx on
	// that store joins the running transaction.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx DocStore) error) error
}

// Meta is embedded by every entity.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *Meta) Base() *Meta { return m }

// ParseDay parses a persisted day in loc.
func ParseDay(day string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DayLayout, day, loc)
}
