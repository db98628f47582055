package docs

import (
	"slices"
	"strings"
	"time"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

// Dedupe drops repeated versions of a document, keyed by id and status, and
// keeps the one updated last. First-seen order is preserved.
func Dedupe[T any, PT interface {
	*T
	Record
}](items []T) []T {
	index := make(map[string]int, len(items))
	out := make([]T, 0, len(items))

	for _, item := range items {
		p := PT(&item)
		key := p.Base().ID + "\x00" + p.DocStatus()

		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, item)
			continue
		}
		if p.Base().UpdatedAt.After(PT(&out[i]).Base().UpdatedAt) {
			out[i] = item
		}
	}

	return out
}

// View is the merged state of a collection built from a snapshot and the
// change events that follow it. It is not safe for concurrent use.
type View[T any, PT interface {
	*T
	Record
}] struct {
	coll  *Collection[T, PT]
	items map[string]T
	// removal time per deleted id; zero means removed for good
	removed map[string]time.Time
}

func (c *Collection[T, PT]) NewView(snapshot []T) *View[T, PT] {
	v := &View[T, PT]{coll: c}
	v.Reset(snapshot)
	return v
}

func (v *View[T, PT]) Reset(snapshot []T) {
	v.items = make(map[string]T, len(snapshot))
	v.removed = make(map[string]time.Time)
	for _, item := range snapshot {
		v.put(item)
	}
}

// Apply merges one change. Of two versions of a document the one with the
// later updatedAt wins, whatever order they arrive in. A removal wins over
// every version not updated after it.
func (v *View[T, PT]) Apply(ch storage.Change) error {
	switch ch.Kind {
	case storage.ChangeRemoved:
		id := ch.Document.ID
		at := ch.Document.UpdatedAt
		prev, ok := v.removed[id]
		if ok && prev.After(at) {
			at = prev
		}
		if ok && prev.IsZero() {
			at = time.Time{}
		}
		v.removed[id] = at
		delete(v.items, id)
		return nil
	case storage.ChangeAdded, storage.ChangeModified:
		item, err := v.coll.decode(ch.Document)
		if err != nil {
			return err
		}
		v.put(item)
	}
	return nil
}

func (v *View[T, PT]) put(item T) {
	meta := PT(&item).Base()
	if at, ok := v.removed[meta.ID]; ok && (at.IsZero() || !meta.UpdatedAt.After(at)) {
		return
	}
	if cur, ok := v.items[meta.ID]; ok && PT(&cur).Base().UpdatedAt.After(meta.UpdatedAt) {
		return
	}
	v.items[meta.ID] = item
}

func (v *View[T, PT]) Len() int { return len(v.items) }

// Items returns a sorted copy of the view.
func (v *View[T, PT]) Items() []T {
	out := make([]T, 0, len(v.items))
	for _, item := range v.items {
		out = append(out, item)
	}

	// id first so ties keep a stable order across calls
	slices.SortFunc(out, func(a, b T) int {
		return strings.Compare(PT(&a).Base().ID, PT(&b).Base().ID)
	})
	if v.coll.opts.compare != nil {
		slices.SortStableFunc(out, v.coll.opts.compare)
	} else {
		slices.SortStableFunc(out, func(a, b T) int {
			return PT(&a).Base().CreatedAt.Compare(PT(&b).Base().CreatedAt)
		})
	}
	return out
}
