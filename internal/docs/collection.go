// Package docs is the typed data-access layer over the document store.
package docs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/validate"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

// Record is implemented by every entity pointer.
type Record interface {
	Base() *storage.Meta
	DocStatus() string
}

type options[T any] struct {
	compare  func(a, b T) int
	validate func(T) error
	now      func() time.Time
}

type Option[T any] func(*options[T])

// WithSort sets the default order of List and live views.
func WithSort[T any](cmp func(a, b T) int) Option[T] {
	return func(o *options[T]) { o.compare = cmp }
}

// WithValidator runs fn before every write.
func WithValidator[T any](fn func(T) error) Option[T] {
	return func(o *options[T]) { o.validate = fn }
}

func WithClock[T any](now func() time.Time) Option[T] {
	return func(o *options[T]) { o.now = now }
}

// Collection reads and writes one collection of T documents.
type Collection[T any, PT interface {
	*T
	Record
}] struct {
	store storage.DocStore
	name  string
	opts  options[T]
}

func New[T any, PT interface {
	*T
	Record
}](store storage.DocStore, name string, opts ...Option[T]) *Collection[T, PT] {
	o := options[T]{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Collection[T, PT]{store: store, name: name, opts: o}
}

func (c *Collection[T, PT]) Name() string { return c.name }

// In returns the same collection bound to a transaction store.
func (c *Collection[T, PT]) In(tx storage.DocStore) *Collection[T, PT] {
	cp := *c
	cp.store = tx
	return &cp
}

// List returns every document, deduplicated and in the default order.
func (c *Collection[T, PT]) List(ctx context.Context) ([]T, error) {
	const op = "docs.Collection.List"

	raw, err := c.store.List(ctx, c.name)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, c.name, err)
	}

	items := make([]T, 0, len(raw))
	for _, d := range raw {
		item, err := c.decode(d)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, item)
	}

	items = Dedupe[T, PT](items)
	c.sort(items)
	return items, nil
}

func (c *Collection[T, PT]) Get(ctx context.Context, id string) (T, error) {
	const op = "docs.Collection.Get"

	var zero T
	d, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", op, err)
	}

	item, err := c.decode(d)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// Add stores item under a new id and returns it with id and timestamps set.
func (c *Collection[T, PT]) Add(ctx context.Context, item T) (T, error) {
	const op = "docs.Collection.Add"

	var zero T
	now := c.now()
	meta := PT(&item).Base()
	meta.ID = uuid.NewString()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	if err := c.check(item); err != nil {
		return zero, fmt.Errorf("%s: %w", op, err)
	}

	d, err := c.encode(item)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", op, err)
	}

	if err := c.store.Insert(ctx, d); err != nil {
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// AddJSON decodes raw into T and adds it. Fields of the wrong JSON type are
// reported as violations.
func (c *Collection[T, PT]) AddJSON(ctx context.Context, raw []byte) (T, error) {
	const op = "docs.Collection.AddJSON"

	var item T
	if err := unmarshalItem(raw, &item); err != nil {
		return item, fmt.Errorf("%s: %w", op, err)
	}
	return c.Add(ctx, item)
}

func unmarshalItem[T any](data []byte, item *T) error {
	err := json.Unmarshal(data, item)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return validate.Violations{field: "invalid_type"}
	}
	return fmt.Errorf("decode: %w", err)
}

// Update merges patch into the stored document. Keys may use dots to reach
// nested fields ("contact.email"); a null value clears the field.
func (c *Collection[T, PT]) Update(ctx context.Context, id string, patch map[string]any) (T, error) {
	const op = "docs.Collection.Update"

	var out T
	err := c.store.RunInTx(ctx, func(ctx context.Context, tx storage.DocStore) error {
		d, err := tx.Get(ctx, c.name, id)
		if err != nil {
			return err
		}

		fields := map[string]any{}
		if err := json.Unmarshal(d.Data, &fields); err != nil {
			return fmt.Errorf("decode %s/%s: %w", c.name, id, err)
		}
		if err := applyPatch(fields, patch); err != nil {
			return err
		}

		merged, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("encode patch: %w", err)
		}

		var item T
		if err := unmarshalItem(merged, &item); err != nil {
			return err
		}

		out, err = c.save(ctx, tx, d, item)
		return err
	})
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// Mutate runs fn on the current version inside a transaction and stores the
// result. An error from fn aborts without writing.
func (c *Collection[T, PT]) Mutate(ctx context.Context, id string, fn func(item *T) error) (T, error) {
	const op = "docs.Collection.Mutate"

	var out T
	err := c.store.RunInTx(ctx, func(ctx context.Context, tx storage.DocStore) error {
		d, err := tx.Get(ctx, c.name, id)
		if err != nil {
			return err
		}

		item, err := c.decode(d)
		if err != nil {
			return err
		}
		if err := fn(&item); err != nil {
			return err
		}

		out, err = c.save(ctx, tx, d, item)
		return err
	})
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (c *Collection[T, PT]) Remove(ctx context.Context, id string) error {
	const op = "docs.Collection.Remove"

	if err := c.store.Delete(ctx, c.name, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// save writes item over prev, keeping identity and creation time.
func (c *Collection[T, PT]) save(ctx context.Context, tx storage.DocStore, prev storage.Document, item T) (T, error) {
	var zero T

	meta := PT(&item).Base()
	meta.ID = prev.ID
	meta.CreatedAt = prev.CreatedAt
	meta.UpdatedAt = c.now()
	// updatedAt orders versions, it must move forward
	if !meta.UpdatedAt.After(prev.UpdatedAt) {
		meta.UpdatedAt = prev.UpdatedAt.Add(time.Microsecond)
	}

	if err := c.check(item); err != nil {
		return zero, err
	}

	d, err := c.encode(item)
	if err != nil {
		return zero, err
	}
	if err := tx.Update(ctx, d); err != nil {
		return zero, err
	}
	return item, nil
}

func (c *Collection[T, PT]) now() time.Time {
	return c.opts.now().UTC().Truncate(time.Microsecond)
}

func (c *Collection[T, PT]) check(item T) error {
	if c.opts.validate == nil {
		return nil
	}
	return c.opts.validate(item)
}

func (c *Collection[T, PT]) sort(items []T) {
	if c.opts.compare != nil {
		slices.SortStableFunc(items, c.opts.compare)
	}
}

func (c *Collection[T, PT]) encode(item T) (storage.Document, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return storage.Document{}, fmt.Errorf("encode %s: %w", c.name, err)
	}

	meta := PT(&item).Base()
	return storage.Document{
		Collection: c.name,
		ID:         meta.ID,
		Status:     PT(&item).DocStatus(),
		Data:       data,
		CreatedAt:  meta.CreatedAt,
		UpdatedAt:  meta.UpdatedAt,
	}, nil
}

// decode trusts the row over the JSON body for identity and timestamps.
func (c *Collection[T, PT]) decode(d storage.Document) (T, error) {
	var item T
	if err := json.Unmarshal(d.Data, &item); err != nil {
		return item, fmt.Errorf("decode %s/%s: %w", d.Collection, d.ID, err)
	}

	meta := PT(&item).Base()
	meta.ID = d.ID
	meta.CreatedAt = d.CreatedAt
	meta.UpdatedAt = d.UpdatedAt
	return item, nil
}
