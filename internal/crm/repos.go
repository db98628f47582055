// Package crm binds every entity to its collection with default ordering and
// validation.
package crm

import (
	"cmp"
	"time"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/docs"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/frtext"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/service/wizard"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

type Repos struct {
	Store storage.DocStore

	Clients      *docs.Collection[storage.Client, *storage.Client]
	Products     *docs.Collection[storage.Product, *storage.Product]
	Teams        *docs.Collection[storage.Team, *storage.Team]
	Categories   *docs.Collection[storage.Category, *storage.Category]
	Suppliers    *docs.Collection[storage.Supplier, *storage.Supplier]
	Projects     *docs.Collection[storage.Project, *storage.Project]
	Appointments *docs.Collection[storage.Appointment, *storage.Appointment]
	Tickets      *docs.Collection[storage.Ticket, *storage.Ticket]
	Maintenances *docs.Collection[storage.Maintenance, *storage.Maintenance]
	Vehicles     *docs.Collection[storage.Vehicle, *storage.Vehicle]
	Activity     *docs.Collection[storage.Activity, *storage.Activity]
}

// NewRepos builds the collections on store. A nil clock means time.Now.
func NewRepos(store storage.DocStore, clock func() time.Time) *Repos {
	if clock == nil {
		clock = time.Now
	}

	return &Repos{
		Store: store,
		Clients: docs.New[storage.Client](store, storage.CollClients,
			docs.WithSort(func(a, b storage.Client) int { return frtext.Compare(a.Name, b.Name) }),
			docs.WithValidator(wizard.Client().Validate),
			docs.WithClock[storage.Client](clock),
		),
		Products: docs.New[storage.Product](store, storage.CollProducts,
			docs.WithSort(func(a, b storage.Product) int { return frtext.Compare(a.Name, b.Name) }),
			docs.WithValidator(validateProduct),
			docs.WithClock[storage.Product](clock),
		),
		Teams: docs.New[storage.Team](store, storage.CollTeams,
			docs.WithSort(func(a, b storage.Team) int { return frtext.Compare(a.Name, b.Name) }),
			docs.WithValidator(validateTeam),
			docs.WithClock[storage.Team](clock),
		),
		Categories: docs.New[storage.Category](store, storage.CollCategories,
			docs.WithSort(func(a, b storage.Category) int { return frtext.Compare(a.Name, b.Name) }),
			docs.WithValidator(validateCategory),
			docs.WithClock[storage.Category](clock),
		),
		Suppliers: docs.New[storage.Supplier](store, storage.CollSuppliers,
			docs.WithSort(func(a, b storage.Supplier) int { return frtext.Compare(a.Name, b.Name) }),
			docs.WithValidator(validateSupplier),
			docs.WithClock[storage.Supplier](clock),
		),
		Projects: docs.New[storage.Project](store, storage.CollProjects,
			docs.WithSort(newestFirst[storage.Project]),
			docs.WithValidator(validateProject),
			docs.WithClock[storage.Project](clock),
		),
		Appointments: docs.New[storage.Appointment](store, storage.CollAppointments,
			docs.WithSort(byDateTime),
			docs.WithValidator(wizard.Appointment().Validate),
			docs.WithClock[storage.Appointment](clock),
		),
		Tickets: docs.New[storage.Ticket](store, storage.CollTickets,
			docs.WithSort(newestFirst[storage.Ticket]),
			docs.WithValidator(validateTicket),
			docs.WithClock[storage.Ticket](clock),
		),
		Maintenances: docs.New[storage.Maintenance](store, storage.CollMaintenances,
			docs.WithSort(newestFirst[storage.Maintenance]),
			docs.WithValidator(wizard.Maintenance().Validate),
			docs.WithClock[storage.Maintenance](clock),
		),
		Vehicles: docs.New[storage.Vehicle](store, storage.CollVehicles,
			docs.WithSort(func(a, b storage.Vehicle) int { return cmp.Compare(a.Plate, b.Plate) }),
			docs.WithValidator(validateVehicle),
			docs.WithClock[storage.Vehicle](clock),
		),
		Activity: docs.New[storage.Activity](store, storage.CollActivity,
			docs.WithSort(newestFirst[storage.Activity]),
			docs.WithClock[storage.Activity](clock),
		),
	}
}

// In returns the repositories bound to a transaction store.
func (r *Repos) In(tx storage.DocStore) *Repos {
	return &Repos{
		Store:        tx,
		Clients:      r.Clients.In(tx),
		Products:     r.Products.In(tx),
		Teams:        r.Teams.In(tx),
		Categories:   r.Categories.In(tx),
		Suppliers:    r.Suppliers.In(tx),
		Projects:     r.Projects.In(tx),
		Appointments: r.Appointments.In(tx),
		Tickets:      r.Tickets.In(tx),
		Maintenances: r.Maintenances.In(tx),
		Vehicles:     r.Vehicles.In(tx),
		Activity:     r.Activity.In(tx),
	}
}

type dated interface {
	Base() *storage.Meta
}

func newestFirst[T any, PT interface {
	*T
	dated
}](a, b T) int {
	return PT(&b).Base().CreatedAt.Compare(PT(&a).Base().CreatedAt)
}

func byDateTime(a, b storage.Appointment) int {
	if c := cmp.Compare(a.Date, b.Date); c != 0 {
		return c
	}
	return cmp.Compare(a.Time, b.Time)
}
