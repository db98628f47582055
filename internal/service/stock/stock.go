// Package stock moves product stock counters.
package stock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/crm"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/frtext"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/validate"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

const (
	ActionReserve = "reserve"
	ActionRelease = "release"
	ActionConsume = "consume"
	ActionReturn  = "return"
	ActionAdjust  = "adjust"
)

var Actions = []string{ActionReserve, ActionRelease, ActionConsume, ActionReturn, ActionAdjust}

var ErrUnknownAction = errors.New("unknown stock action")

// Apply changes s in place. For adjust, quantity is the new current count;
// for every other action it is a positive delta.
func Apply(s *storage.Stock, action string, quantity int) error {
	v := make(validate.Violations)
	if action == ActionAdjust {
		validate.NonNegative("quantity", quantity, v)
	} else {
		validate.Positive("quantity", quantity, v)
	}
	if err := v.Err(); err != nil {
		return err
	}

	next := *s
	switch action {
	case ActionReserve:
		next.Reserved += quantity
		if next.Reserved > next.Current {
			return validate.Violations{"quantity": "insufficient_stock"}
		}
	case ActionRelease:
		next.Reserved -= quantity
	case ActionConsume:
		next.Current -= quantity
		next.Reserved = max(0, next.Reserved-quantity)
	case ActionReturn:
		next.Current += quantity
		next.Returned += quantity
	case ActionAdjust:
		next.Current = quantity
	default:
		return fmt.Errorf("%q: %w", action, ErrUnknownAction)
	}

	if next.Current < 0 {
		return validate.Violations{"quantity": "insufficient_stock"}
	}
	if next.Reserved < 0 {
		return validate.Violations{"quantity": "exceeds_reserved"}
	}

	*s = next
	return nil
}

type Service struct {
	log   *slog.Logger
	repos *crm.Repos
}

func NewService(log *slog.Logger, repos *crm.Repos) *Service {
	return &Service{log: log, repos: repos}
}

// Move applies one action to a product in a transaction.
func (s *Service) Move(ctx context.Context, productID, action string, quantity int) (storage.Product, error) {
	const op = "service.stock.Move"

	p, err := s.repos.Products.Mutate(ctx, productID, func(p *storage.Product) error {
		return Apply(&p.Stock, action, quantity)
	})
	if err != nil {
		return storage.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Debug("stock moved",
		slog.String("product", productID),
		slog.String("action", action),
		slog.Int("quantity", quantity),
		slog.Int("current", p.Stock.Current),
	)
	return p, nil
}

// ReturnAppointment puts the products of app back in stock. Appointments
// without product lines fall back to products whose name appears in the
// title, one unit each.
func (s *Service) ReturnAppointment(ctx context.Context, repos *crm.Repos, app storage.Appointment) error {
	const op = "service.stock.ReturnAppointment"

	lines := app.Products
	if len(lines) == 0 {
		products, err := repos.Products.List(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		lines = MatchTitle(app.Title, products)
	}

	for _, line := range lines {
		if line.ProductID == "" || line.Quantity <= 0 {
			continue
		}
		_, err := repos.Products.Mutate(ctx, line.ProductID, func(p *storage.Product) error {
			return Apply(&p.Stock, ActionReturn, line.Quantity)
		})
		if errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("returned product no longer exists",
				slog.String("op", op),
				slog.String("appointment", app.ID),
				slog.String("product", line.ProductID),
			)
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

// MatchTitle finds the products named in an appointment title, as whole
// words. A name that only matches as part of a longer matched name ("Split"
// inside "Split Daikin") is dropped.
func MatchTitle(title string, products []storage.Product) []storage.ProductLine {
	var matched []storage.Product
	for _, p := range products {
		if p.Name != "" && frtext.Contains(title, p.Name) {
			matched = append(matched, p)
		}
	}

	var lines []storage.ProductLine
	for i, p := range matched {
		if shadowed(i, matched) {
			continue
		}
		lines = append(lines, storage.ProductLine{ProductID: p.ID, Name: p.Name, Quantity: 1})
	}
	return lines
}

func shadowed(i int, matched []storage.Product) bool {
	name := frtext.Words(matched[i].Name)
	for j, other := range matched {
		if j == i {
			continue
		}
		longer := frtext.Words(other.Name)
		if len(longer) > len(name) && frtext.Contains(other.Name, matched[i].Name) {
			return true
		}
	}
	return false
}

// Alert is a product at or below its minimum.
type Alert struct {
	Product storage.ProductSnapshot `json:"product"`
	Current int                     `json:"current"`
	Minimum int                     `json:"minimum"`
	Optimal int                     `json:"optimal"`
	// ToOrder brings current back to optimal.
	ToOrder int `json:"toOrder"`
}

func Alerts(products []storage.Product) []Alert {
	alerts := []Alert{}
	for _, p := range products {
		// no thresholds set: not tracked
		if p.Stock.Minimum == 0 && p.Stock.Optimal == 0 {
			continue
		}
		if p.Stock.Current > p.Stock.Minimum {
			continue
		}
		alerts = append(alerts, Alert{
			Product: p.Snapshot(),
			Current: p.Stock.Current,
			Minimum: p.Stock.Minimum,
			Optimal: p.Stock.Optimal,
			ToOrder: max(0, p.Stock.Optimal-p.Stock.Current),
		})
	}
	return alerts
}

func (s *Service) Alerts(ctx context.Context) ([]Alert, error) {
	const op = "service.stock.Alerts"

	products, err := s.repos.Products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return Alerts(products), nil
}
