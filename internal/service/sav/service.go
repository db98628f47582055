package sav

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/crm"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/docs"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/validate"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

type Service struct {
	log   *slog.Logger
	repos *crm.Repos
	loc   *time.Location
	now   func() time.Time

	mu   sync.RWMutex
	live *docs.Live[storage.Ticket, *storage.Ticket]
}

func NewService(log *slog.Logger, repos *crm.Repos, loc *time.Location) *Service {
	return &Service{log: log, repos: repos, loc: loc, now: time.Now}
}

// Watch keeps the tickets in memory from src so the dashboard does not read
// the store on every call.
func (s *Service) Watch(ctx context.Context, src docs.Source) error {
	const op = "service.sav.Watch"

	live, err := s.repos.Tickets.Watch(ctx, src, s.log)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.live = live
	s.mu.Unlock()
	return nil
}

func (s *Service) Close() {
	s.mu.Lock()
	live := s.live
	s.live = nil
	s.mu.Unlock()

	if live != nil {
		live.Close()
	}
}

func (s *Service) tickets(ctx context.Context) ([]storage.Ticket, error) {
	s.mu.RLock()
	live := s.live
	s.mu.RUnlock()

	if live != nil {
		return live.Items(), nil
	}
	return s.repos.Tickets.List(ctx)
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	const op = "service.sav.Dashboard"

	tickets, err := s.tickets(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("%s: %w", op, err)
	}
	return Aggregate(tickets, s.now(), s.loc), nil
}

func (s *Service) Installations(ctx context.Context) ([]Installation, error) {
	const op = "service.sav.Installations"

	var (
		clients  []storage.Client
		products []storage.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		clients, err = s.repos.Clients.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.repos.Products.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return InstallationOptions(clients, products), nil
}

// NewTicket is the input of CreateTicket. ProductID may be empty.
type NewTicket struct {
	ClientID  string `json:"clientId"`
	ProductID string `json:"productId"`
	Team      string `json:"team"`
	Priority  string `json:"priority"`
	Problem   string `json:"problem"`
}

// CreateTicket numbers and stores a ticket with snapshots of its client and
// product.
func (s *Service) CreateTicket(ctx context.Context, in NewTicket) (storage.Ticket, error) {
	const op = "service.sav.CreateTicket"

	v := make(validate.Violations)
	validate.Required("clientId", in.ClientID, v)
	validate.Required("problem", in.Problem, v)
	validate.OneOf("priority", in.Priority, storage.TicketPriorities, v)
	if err := v.Err(); err != nil {
		return storage.Ticket{}, fmt.Errorf("%s: %w", op, err)
	}

	var out storage.Ticket
	err := s.repos.Store.RunInTx(ctx, func(ctx context.Context, tx storage.DocStore) error {
		repos := s.repos.In(tx)

		client, err := repos.Clients.Get(ctx, in.ClientID)
		if err != nil {
			return fmt.Errorf("client %s: %w", in.ClientID, err)
		}

		product := storage.ProductSnapshot{Name: NoProduct}
		if in.ProductID != "" {
			p, err := repos.Products.Get(ctx, in.ProductID)
			if err != nil {
				return fmt.Errorf("product %s: %w", in.ProductID, err)
			}
			product = p.Snapshot()
		}

		existing, err := repos.Tickets.List(ctx)
		if err != nil {
			return err
		}

		priority := in.Priority
		if priority == "" {
			priority = "normale"
		}

		out, err = repos.Tickets.Add(ctx, storage.Ticket{
			Number:   NextNumber(existing, s.now().In(s.loc).Year()),
			Client:   client.Snapshot(),
			Product:  product,
			Team:     in.Team,
			Status:   storage.TicketNew,
			Priority: priority,
			Problem:  strings.TrimSpace(in.Problem),
			Comments: []storage.Comment{},
		})
		return err
	})
	if err != nil {
		return storage.Ticket{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("ticket created", slog.String("number", out.Number), slog.String("client", out.Client.Name))
	return out, nil
}

func (s *Service) AddComment(ctx context.Context, id, author, text string) (storage.Ticket, error) {
	const op = "service.sav.AddComment"

	v := make(validate.Violations)
	validate.Required("text", text, v)
	if err := v.Err(); err != nil {
		return storage.Ticket{}, fmt.Errorf("%s: %w", op, err)
	}

	t, err := s.repos.Tickets.Mutate(ctx, id, func(t *storage.Ticket) error {
		t.Comments = append(t.Comments, storage.Comment{
			Author:    author,
			Text:      strings.TrimSpace(text),
			CreatedAt: s.now().UTC(),
		})
		return nil
	})
	if err != nil {
		return storage.Ticket{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// SetStatus moves a ticket. resolvedAt is set when it becomes resolu and
// cleared when it leaves it.
func (s *Service) SetStatus(ctx context.Context, id, status string) (storage.Ticket, error) {
	const op = "service.sav.SetStatus"

	v := make(validate.Violations)
	validate.Required("status", status, v)
	validate.OneOf("status", status, storage.TicketStatuses, v)
	if err := v.Err(); err != nil {
		return storage.Ticket{}, fmt.Errorf("%s: %w", op, err)
	}

	t, err := s.repos.Tickets.Mutate(ctx, id, func(t *storage.Ticket) error {
		if t.Status == status {
			return nil
		}
		t.Status = status
		if status == storage.TicketResolved {
			now := s.now().UTC()
			t.ResolvedAt = &now
		} else {
			t.ResolvedAt = nil
		}
		return nil
	})
	if err != nil {
		return storage.Ticket{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}
