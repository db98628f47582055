package scheduling

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/crm"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/frtext"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/validate"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

// StockReturner puts the products of a deleted appointment back in stock.
// repos is bound to the running transaction.
type StockReturner interface {
	ReturnAppointment(ctx context.Context, repos *crm.Repos, app storage.Appointment) error
}

type Service struct {
	log   *slog.Logger
	repos *crm.Repos
	stock StockReturner
	loc   *time.Location
	now   func() time.Time
}

func NewService(log *slog.Logger, repos *crm.Repos, stock StockReturner, loc *time.Location) *Service {
	return &Service{log: log, repos: repos, stock: stock, loc: loc, now: time.Now}
}

// Board is the week calendar with the projects dated that week.
type Board struct {
	Week
	Projects []storage.Project `json:"projects"`
}

func (s *Service) Week(ctx context.Context, weekStart time.Time) (Board, error) {
	const op = "service.scheduling.Week"

	var (
		apps     []storage.Appointment
		teams    []storage.Team
		projects []storage.Project
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		apps, err = s.repos.Appointments.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		teams, err = s.repos.Teams.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		projects, err = s.repos.Projects.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Board{}, fmt.Errorf("%s: %w", op, err)
	}

	board := Board{Week: LayoutWeek(apps, teams, weekStart), Projects: []storage.Project{}}

	days := make(map[string]bool, 7)
	for _, d := range board.Days {
		days[d] = true
	}
	for _, p := range projects {
		if days[p.Date] {
			board.Projects = append(board.Projects, p)
		}
	}

	return board, nil
}

func (s *Service) Cell(ctx context.Context, team, day string) ([]storage.Appointment, error) {
	const op = "service.scheduling.Cell"

	apps, err := s.repos.Appointments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := CellAppointments(apps, team, day)
	if out == nil {
		out = []storage.Appointment{}
	}
	return out, nil
}

// SwapTeamsForWeek exchanges teamA and teamB on every appointment of the
// week. It runs in one transaction: either every appointment is swapped or
// none is. It returns the number of appointments changed.
func (s *Service) SwapTeamsForWeek(ctx context.Context, weekStart time.Time, teamA, teamB string) (int, error) {
	const op = "service.scheduling.SwapTeamsForWeek"

	v := make(validate.Violations)
	validate.Required("teamA", teamA, v)
	validate.Required("teamB", teamB, v)
	if v.Empty() && frtext.Equal(teamA, teamB) {
		v["teamB"] = "same_team"
	}
	if err := v.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	swapped := 0
	err := s.repos.Store.RunInTx(ctx, func(ctx context.Context, tx storage.DocStore) error {
		apps := s.repos.Appointments.In(tx)

		all, err := apps.List(ctx)
		if err != nil {
			return err
		}

		swapped = 0
		for _, a := range InWeek(all, weekStart) {
			var target string
			switch {
			case frtext.Equal(a.Team, teamA):
				target = teamB
			case frtext.Equal(a.Team, teamB):
				target = teamA
			default:
				continue
			}

			if _, err := apps.Mutate(ctx, a.ID, func(a *storage.Appointment) error {
				a.Team = target
				return nil
			}); err != nil {
				return fmt.Errorf("appointment %s: %w", a.ID, err)
			}
			swapped++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("teams swapped",
		slog.String("week", weekStart.Format(storage.DayLayout)),
		slog.String("teamA", teamA),
		slog.String("teamB", teamB),
		slog.Int("appointments", swapped),
	)
	return swapped, nil
}

// RemoveAppointment deletes an appointment and returns its products to
// stock in the same transaction.
func (s *Service) RemoveAppointment(ctx context.Context, id string) error {
	const op = "service.scheduling.RemoveAppointment"

	err := s.repos.Store.RunInTx(ctx, func(ctx context.Context, tx storage.DocStore) error {
		repos := s.repos.In(tx)

		app, err := repos.Appointments.Get(ctx, id)
		if err != nil {
			return err
		}
		if s.stock != nil {
			if err := s.stock.ReturnAppointment(ctx, repos, app); err != nil {
				return err
			}
		}
		return repos.Appointments.Remove(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Now positions the current-time line for a 7h-19h working day.
func (s *Service) Now() Indicator {
	return NowIndicator(s.now(), s.loc, 7, 19)
}
