package crm

import (
	"context"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/docs"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

// Resource is a collection seen as JSON values, for the generic CRUD routes.
type Resource interface {
	List(ctx context.Context) (any, error)
	Get(ctx context.Context, id string) (any, error)
	Create(ctx context.Context, raw []byte) (any, error)
	Update(ctx context.Context, id string, patch map[string]any) (any, error)
	Remove(ctx context.Context, id string) error
}

type resource[T any, PT interface {
	*T
	docs.Record
}] struct {
	c *docs.Collection[T, PT]
}

func (r resource[T, PT]) List(ctx context.Context) (any, error) {
	return r.c.List(ctx)
}

func (r resource[T, PT]) Get(ctx context.Context, id string) (any, error) {
	return r.c.Get(ctx, id)
}

func (r resource[T, PT]) Create(ctx context.Context, raw []byte) (any, error) {
	return r.c.AddJSON(ctx, raw)
}

func (r resource[T, PT]) Update(ctx context.Context, id string, patch map[string]any) (any, error) {
	return r.c.Update(ctx, id, patch)
}

func (r resource[T, PT]) Remove(ctx context.Context, id string) error {
	return r.c.Remove(ctx, id)
}

// Resource returns the collection served by the CRUD API. The activity
// journal is not one of them.
func (r *Repos) Resource(name string) (Resource, bool) {
	switch name {
	case storage.CollClients:
		return resource[storage.Client, *storage.Client]{r.Clients}, true
	case storage.CollProducts:
		return resource[storage.Product, *storage.Product]{r.Products}, true
	case storage.CollTeams:
		return resource[storage.Team, *storage.Team]{r.Teams}, true
	case storage.CollCategories:
		return resource[storage.Category, *storage.Category]{r.Categories}, true
	case storage.CollSuppliers:
		return resource[storage.Supplier, *storage.Supplier]{r.Suppliers}, true
	case storage.CollProjects:
		return resource[storage.Project, *storage.Project]{r.Projects}, true
	case storage.CollAppointments:
		return resource[storage.Appointment, *storage.Appointment]{r.Appointments}, true
	case storage.CollTickets:
		return resource[storage.Ticket, *storage.Ticket]{r.Tickets}, true
	case storage.CollMaintenances:
		return resource[storage.Maintenance, *storage.Maintenance]{r.Maintenances}, true
	case storage.CollVehicles:
		return resource[storage.Vehicle, *storage.Vehicle]{r.Vehicles}, true
	}
	return nil, false
}
