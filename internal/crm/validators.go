package crm

import (
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/validate"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

func validateProduct(p storage.Product) error {
	v := make(validate.Violations)
	validate.Required("name", p.Name, v)
	validate.Email("supplier.email", p.Supplier.Email, v)
	validate.NonNegative("stock.current", p.Stock.Current, v)
	validate.NonNegative("stock.reserved", p.Stock.Reserved, v)
	validate.NonNegative("stock.returned", p.Stock.Returned, v)
	validate.NonNegative("stock.minimum", p.Stock.Minimum, v)
	validate.NonNegative("stock.optimal", p.Stock.Optimal, v)
	if p.Price.IsNegative() {
		v["price"] = "must_not_be_negative"
	}
	return v.Err()
}

func validateTeam(t storage.Team) error {
	v := make(validate.Violations)
	validate.Required("name", t.Name, v)
	return v.Err()
}

func validateCategory(c storage.Category) error {
	v := make(validate.Violations)
	validate.Required("name", c.Name, v)
	return v.Err()
}

func validateSupplier(s storage.Supplier) error {
	v := make(validate.Violations)
	validate.Required("name", s.Name, v)
	validate.Email("email", s.Email, v)
	return v.Err()
}

func validateProject(p storage.Project) error {
	v := make(validate.Violations)
	validate.Required("name", p.Name, v)
	validate.Required("status", p.Status, v)
	validate.OneOf("status", p.Status, storage.ProjectStatuses, v)
	validate.Day("date", p.Date, v)
	for _, line := range p.Products {
		validate.Positive("products.quantity", line.Quantity, v)
	}
	return v.Err()
}

// Ticket numbers are not checked for uniqueness.
func validateTicket(t storage.Ticket) error {
	v := make(validate.Violations)
	validate.Required("problem", t.Problem, v)
	validate.Required("client.name", t.Client.Name, v)
	validate.Required("status", t.Status, v)
	validate.OneOf("status", t.Status, storage.TicketStatuses, v)
	validate.OneOf("priority", t.Priority, storage.TicketPriorities, v)
	return v.Err()
}

func validateVehicle(x storage.Vehicle) error {
	v := make(validate.Violations)
	validate.Required("plate", x.Plate, v)
	validate.OneOf("status", x.Status, storage.VehicleStatuses, v)
	validate.NonNegative("mileage", x.Mileage, v)
	validate.Day("nextServiceDate", x.NextServiceDate, v)
	validate.Day("insuranceExpiry", x.InsuranceExpiry, v)
	return v.Err()
}
