package docs

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

// Source delivers committed changes of a collection. The channel is closed
// when the subscriber falls behind; cancel releases the subscription.
type Source interface {
	Subscribe(collection string) (ch <-chan storage.Change, cancel func())
}

// Live keeps a View of a collection current from a Source.
type Live[T any, PT interface {
	*T
	Record
}] struct {
	coll *Collection[T, PT]
	src  Source
	log  *slog.Logger

	mu   sync.RWMutex
	view *View[T, PT]

	stop context.CancelFunc
	done chan struct{}
}

// Watch loads the collection and follows its changes until ctx ends or
// Close is called.
func (c *Collection[T, PT]) Watch(ctx context.Context, src Source, log *slog.Logger) (*Live[T, PT], error) {
	ch, cancel := src.Subscribe(c.name)

	items, err := c.List(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	ctx, stop := context.WithCancel(ctx)
	l := &Live[T, PT]{
		coll: c,
		src:  src,
		log:  log.With(slog.String("collection", c.name)),
		view: c.NewView(items),
		stop: stop,
		done: make(chan struct{}),
	}

	go l.run(ctx, ch, cancel)
	return l, nil
}

func (l *Live[T, PT]) run(ctx context.Context, ch <-chan storage.Change, cancel func()) {
	defer close(l.done)
	defer func() { cancel() }()

	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-ch:
			if !ok {
				// dropped by the source: subscribe again, then reload
				cancel()
				ch, cancel = l.src.Subscribe(l.coll.name)
				l.resync(ctx)
				continue
			}
			if change.Kind == storage.ChangeRefresh {
				l.resync(ctx)
				continue
			}

			l.mu.Lock()
			err := l.view.Apply(change)
			l.mu.Unlock()
			if err != nil {
				l.log.Error("apply change", slog.String("error", err.Error()))
			}
		}
	}
}

func (l *Live[T, PT]) resync(ctx context.Context) {
	items, err := l.coll.List(ctx)
	if err != nil {
		if ctx.Err() == nil {
			l.log.Error("resync", slog.String("error", err.Error()))
		}
		return
	}

	l.mu.Lock()
	l.view.Reset(items)
	l.mu.Unlock()
}

func (l *Live[T, PT]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.view.Items()
}

// Close stops following changes and waits for the loop to exit.
func (l *Live[T, PT]) Close() {
	l.stop()
	<-l.done
}
