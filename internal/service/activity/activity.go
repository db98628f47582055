// Package activity keeps the journal of user actions.
package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/crm"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

const DefaultLimit = 200

type Service struct {
	log   *slog.Logger
	repos *crm.Repos
}

func NewService(log *slog.Logger, repos *crm.Repos) *Service {
	return &Service{log: log, repos: repos}
}

func (s *Service) Record(ctx context.Context, a storage.Activity) error {
	const op = "service.activity.Record"

	if _, err := s.repos.Activity.Add(ctx, a); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// List returns the latest entries, newest first. A non-positive limit means
// DefaultLimit. userID filters on one user when set.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]storage.Activity, error) {
	const op = "service.activity.List"

	if limit <= 0 {
		limit = DefaultLimit
	}

	all, err := s.repos.Activity.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]storage.Activity, 0, min(limit, len(all)))
	for _, a := range all {
		if userID != "" && a.UserID != userID {
			continue
		}
		out = append(out, a)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
