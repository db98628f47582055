package contract

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/config"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/crm"
)

type Service struct {
	repos   *crm.Repos
	company config.Company
	loc     *time.Location
	now     func() time.Time
}

func NewService(repos *crm.Repos, company config.Company, loc *time.Location) *Service {
	return &Service{repos: repos, company: company, loc: loc, now: time.Now}
}

func (s *Service) MaintenanceContract(ctx context.Context, id string, w io.Writer) error {
	const op = "service.contract.MaintenanceContract"

	m, err := s.repos.Maintenances.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return RenderMaintenance(w, s.company, m, s.now().In(s.loc))
}

func (s *Service) InterventionSheet(ctx context.Context, id string, w io.Writer) error {
	const op = "service.contract.InterventionSheet"

	a, err := s.repos.Appointments.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return RenderSheet(w, s.company, a, s.now().In(s.loc))
}
