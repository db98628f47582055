// Package reminder sends SMS reminders for upcoming maintenance visits and
// next-day appointments.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/crm"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/frtext"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/notify"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

const runTimeout = 5 * time.Minute

type Service struct {
	log      *slog.Logger
	repos    *crm.Repos
	notifier notify.Notifier
	loc      *time.Location
	leadDays int
	company  string
	now      func() time.Time
}

func NewService(log *slog.Logger, repos *crm.Repos, n notify.Notifier, loc *time.Location, leadDays int, company string) *Service {
	return &Service{
		log:      log,
		repos:    repos,
		notifier: n,
		loc:      loc,
		leadDays: leadDays,
		company:  company,
		now:      time.Now,
	}
}

type Result struct {
	Maintenances int `json:"maintenances"`
	Appointments int `json:"appointments"`
	Skipped      int `json:"skipped"`
	Failed       int `json:"failed"`
}

type counters struct {
	sent, skipped, failed atomic.Int64
}

// Run sends every due reminder once. Send failures are counted and logged;
// only a failed load returns an error.
func (s *Service) Run(ctx context.Context) (Result, error) {
	const op = "service.reminder.Run"

	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	var m, a counters
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.maintenances(gctx, now, today, &m) })
	g.Go(func() error { return s.appointments(gctx, now, today, &a) })
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	res := Result{
		Maintenances: int(m.sent.Load()),
		Appointments: int(a.sent.Load()),
		Skipped:      int(m.skipped.Load() + a.skipped.Load()),
		Failed:       int(m.failed.Load() + a.failed.Load()),
	}
	s.log.Info("reminders sent",
		slog.Int("maintenances", res.Maintenances),
		slog.Int("appointments", res.Appointments),
		slog.Int("skipped", res.Skipped),
		slog.Int("failed", res.Failed),
	)
	return res, nil
}

// DueMaintenance reports whether m's next visit falls within leadDays of
// today and no reminder went out since the window opened.
func DueMaintenance(m storage.Maintenance, today time.Time, leadDays int) bool {
	if m.Status != storage.ContractActive {
		return false
	}
	next, err := storage.ParseDay(m.NextVisit, today.Location())
	if err != nil || next.Before(today) || next.After(today.AddDate(0, 0, leadDays)) {
		return false
	}
	window := next.AddDate(0, 0, -leadDays)
	return m.LastReminderAt == nil || m.LastReminderAt.Before(window)
}

// DueAppointment reports whether a is tomorrow, still expected and not
// reminded today.
func DueAppointment(a storage.Appointment, today time.Time) bool {
	if !slices.Contains([]string{storage.AppointmentPlanned, storage.AppointmentConfirmed}, a.Status) {
		return false
	}
	if a.Date != today.AddDate(0, 0, 1).Format(storage.DayLayout) {
		return false
	}
	return a.LastReminderAt == nil || a.LastReminderAt.Before(today)
}

func (s *Service) maintenances(ctx context.Context, now, today time.Time, c *counters) error {
	items, err := s.repos.Maintenances.List(ctx)
	if err != nil {
		return fmt.Errorf("list maintenances: %w", err)
	}

	for _, m := range items {
		if !DueMaintenance(m, today, s.leadDays) {
			continue
		}
		next, _ := storage.ParseDay(m.NextVisit, s.loc)
		body := fmt.Sprintf("Bonjour %s, la visite d'entretien de votre équipement %s est prévue le %s. Nous vous contacterons pour fixer l'horaire. %s",
			m.Client.Name, m.Equipment.Name, frtext.LongDate(next), s.company)

		if !s.send(ctx, "maintenance", m.ID, m.Client.Phone, body, c) {
			continue
		}
		if _, err := s.repos.Maintenances.Mutate(ctx, m.ID, func(x *storage.Maintenance) error {
			x.LastReminderAt = &now
			return nil
		}); err != nil {
			c.failed.Add(1)
			s.log.Error("failed to stamp reminder", slog.String("id", m.ID), slog.String("error", err.Error()))
			continue
		}
		c.sent.Add(1)
	}
	return nil
}

func (s *Service) appointments(ctx context.Context, now, today time.Time, c *counters) error {
	items, err := s.repos.Appointments.List(ctx)
	if err != nil {
		return fmt.Errorf("list appointments: %w", err)
	}

	for _, a := range items {
		if !DueAppointment(a, today) {
			continue
		}
		body := fmt.Sprintf("Bonjour %s, nous vous rappelons votre rendez-vous « %s » demain à %s. %s",
			a.Client.Name, a.Title, a.Time, s.company)

		if !s.send(ctx, "appointment", a.ID, a.Client.Phone, body, c) {
			continue
		}
		if _, err := s.repos.Appointments.Mutate(ctx, a.ID, func(x *storage.Appointment) error {
			x.LastReminderAt = &now
			return nil
		}); err != nil {
			c.failed.Add(1)
			s.log.Error("failed to stamp reminder", slog.String("id", a.ID), slog.String("error", err.Error()))
			continue
		}
		c.sent.Add(1)
	}
	return nil
}

func (s *Service) send(ctx context.Context, kind, id, phone, body string, c *counters) bool {
	if phone == "" {
		c.skipped.Add(1)
		s.log.Debug("no phone, reminder skipped", slog.String("kind", kind), slog.String("id", id))
		return false
	}
	if err := s.notifier.Send(ctx, phone, body); err != nil {
		c.failed.Add(1)
		s.log.Warn("reminder not sent",
			slog.String("kind", kind),
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

// Schedule registers Run on a cron in the service location. The caller
// starts and stops the returned cron.
func (s *Service) Schedule(spec string) (*cron.Cron, error) {
	const op = "service.reminder.Schedule"

	c := cron.New(cron.WithLocation(s.loc))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		if _, err := s.Run(ctx); err != nil {
			s.log.Error("reminder run failed", slog.String("op", op), slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%s: spec %q: %w", op, spec, err)
	}
	return c, nil
}
