package scheduling_test

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/crm"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/validate"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/service/scheduling"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/service/stock"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage/sqlstore"
)

var monday = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*scheduling.Service, *crm.Repos) {
	t.Helper()

	s, err := sqlstore.Open(sqlstore.SQLite, sqlstore.SQLiteDSN(filepath.Join(t.TempDir(), "crm.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))

	repos := crm.NewRepos(s, nil)
	svc := scheduling.NewService(slog.Default(), repos, stock.NewService(slog.Default(), repos), time.UTC)
	return svc, repos
}

func addAppointment(t *testing.T, repos *crm.Repos, a storage.Appointment) storage.Appointment {
	t.Helper()

	if a.Title == "" {
		a.Title = "Intervention"
	}
	if a.Duration == "" {
		a.Duration = "2h"
	}
	a.Status = storage.AppointmentPlanned
	a.Type = storage.TypeInstallation
	a.Client = storage.ClientSnapshot{Name: "Durand"}

	out, err := repos.Appointments.Add(context.Background(), a)
	require.NoError(t, err)
	return out
}

func teamOf(t *testing.T, repos *crm.Repos, id string) string {
	t.Helper()
	a, err := repos.Appointments.Get(context.Background(), id)
	require.NoError(t, err)
	return a.Team
}

func TestService_SwapTeamsForWeek(t *testing.T) {
	svc, repos := newService(t)
	ctx := context.Background()

	a1 := addAppointment(t, repos, storage.Appointment{Date: "2024-06-03", Team: "Alpha"})
	a2 := addAppointment(t, repos, storage.Appointment{Date: "2024-06-07", Team: "Beta"})
	other := addAppointment(t, repos, storage.Appointment{Date: "2024-06-04", Team: "Gamma"})
	nextWeek := addAppointment(t, repos, storage.Appointment{Date: "2024-06-10", Team: "Alpha"})

	n, err := svc.SwapTeamsForWeek(ctx, monday, "Alpha", "Beta")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, "Beta", teamOf(t, repos, a1.ID))
	assert.Equal(t, "Alpha", teamOf(t, repos, a2.ID))
	assert.Equal(t, "Gamma", teamOf(t, repos, other.ID))
	assert.Equal(t, "Alpha", teamOf(t, repos, nextWeek.ID))
}

func TestService_SwapTeamsForWeek_Rejects(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.SwapTeamsForWeek(context.Background(), monday, "Alpha", "alpha")

	var v validate.Violations
	require.True(t, errors.As(err, &v))
	assert.Equal(t, "same_team", v["teamB"])
}

func TestService_SwapTeamsForWeek_AllOrNothing(t *testing.T) {
	svc, repos := newService(t)
	ctx := context.Background()

	good := addAppointment(t, repos, storage.Appointment{Date: "2024-06-03", Team: "Alpha"})

	// a stored document that no longer passes validation makes its update fail
	bad := addAppointment(t, repos, storage.Appointment{Date: "2024-06-04", Team: "Alpha"})
	require.NoError(t, repos.Store.Update(ctx, storage.Document{
		Collection: storage.CollAppointments,
		ID:         bad.ID,
		Status:     "planifie",
		Data:       []byte(`{"title":"","date":"2024-06-04","team":"Alpha","status":"planifie","type":"sav","duration":"1h","client":{"name":"X"}}`),
		CreatedAt:  bad.CreatedAt,
		UpdatedAt:  bad.UpdatedAt.Add(time.Second),
	}))

	_, err := svc.SwapTeamsForWeek(ctx, monday, "Alpha", "Beta")
	require.Error(t, err)

	assert.Equal(t, "Alpha", teamOf(t, repos, good.ID))
	assert.Equal(t, "Alpha", teamOf(t, repos, bad.ID))
}

func TestService_Week(t *testing.T) {
	svc, repos := newService(t)
	ctx := context.Background()

	_, err := repos.Teams.Add(ctx, storage.Team{Name: "Alpha", Active: true})
	require.NoError(t, err)
	addAppointment(t, repos, storage.Appointment{Date: "2024-06-05", Team: "Alpha"})
	_, err = repos.Projects.Add(ctx, storage.Project{Name: "Chantier Lyon", Status: storage.ProjectToPlace, Date: "2024-06-06"})
	require.NoError(t, err)
	_, err = repos.Projects.Add(ctx, storage.Project{Name: "Plus tard", Status: storage.ProjectToPlace, Date: "2024-07-01"})
	require.NoError(t, err)

	board, err := svc.Week(ctx, monday)
	require.NoError(t, err)

	require.Len(t, board.Rows, 1)
	require.Len(t, board.Rows[0].Entries, 1)
	assert.Equal(t, 2, board.Rows[0].Entries[0].Column)
	require.Len(t, board.Projects, 1)
	assert.Equal(t, "Chantier Lyon", board.Projects[0].Name)

	cell, err := svc.Cell(ctx, "alpha", "2024-06-05")
	require.NoError(t, err)
	assert.Len(t, cell, 1)
}

func TestService_RemoveAppointment_ReturnsStock(t *testing.T) {
	svc, repos := newService(t)
	ctx := context.Background()

	split, err := repos.Products.Add(ctx, storage.Product{Name: "Split Daikin", Stock: storage.Stock{Current: 5}})
	require.NoError(t, err)
	pac, err := repos.Products.Add(ctx, storage.Product{Name: "PAC Atlantic", Stock: storage.Stock{Current: 1}})
	require.NoError(t, err)

	structured := addAppointment(t, repos, storage.Appointment{
		Date: "2024-06-03", Team: "Alpha",
		Products: []storage.ProductLine{{ProductID: split.ID, Name: split.Name, Quantity: 2}},
	})
	legacy := addAppointment(t, repos, storage.Appointment{
		Title: "Pose PAC atlantic chez Durand", Date: "2024-06-04", Team: "Alpha",
	})

	require.NoError(t, svc.RemoveAppointment(ctx, structured.ID))
	require.NoError(t, svc.RemoveAppointment(ctx, legacy.ID))

	got, err := repos.Products.Get(ctx, split.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.Stock{Current: 7, Returned: 2}, got.Stock)

	got, err = repos.Products.Get(ctx, pac.ID)
	require.NoError(t, err)
	assert.Equal(t, storage.Stock{Current: 2, Returned: 1}, got.Stock)

	_, err = repos.Appointments.Get(ctx, structured.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, svc.RemoveAppointment(ctx, "missing"), storage.ErrNotFound)
}
