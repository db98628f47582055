package storage

// Collection names. They are part of the persisted schema.
const (
	CollClients      = "clients"
	CollProducts     = "products"
	CollTeams        = "teams"
	CollCategories   = "categories"
	CollSuppliers    = "suppliers"
	CollProjects     = "projects"
	CollAppointments = "appointments"
	CollTickets      = "tickets"
	CollMaintenances = "maintenances"
	CollVehicles     = "vehicles"
	CollActivity     = "activity"
)

// Collections lists every collection exposed over the API and the change stream.
var Collections = []string{
	CollClients,
	CollProducts,
	CollTeams,
	CollCategories,
	CollSuppliers,
	CollProjects,
	CollAppointments,
	CollTickets,
	CollMaintenances,
	CollVehicles,
	CollActivity,
}

// ClientSnapshot is a copy of client fields embedded at creation time.
// It is not kept in sync with the client document.
type ClientSnapshot struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

type TeamSnapshot struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type ProductSnapshot struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Reference string `json:"reference,omitempty"`
	Brand     string `json:"brand,omitempty"`
}

// ProductLine is a product and quantity attached to a project or appointment.
type ProductLine struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}
