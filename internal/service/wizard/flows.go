package wizard

import (
	"regexp"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/validate"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

const (
	KindMaintenance = "maintenance"
	KindAppointment = "appointment"
	KindClient      = "client"
)

var postalCodeRe = regexp.MustCompile(`^\d{5}$`)

// Maintenance: client -> equipment -> schedule.
func Maintenance() *Wizard[storage.Maintenance] {
	return New(KindMaintenance,
		Step[storage.Maintenance]{Name: "client", Check: func(m storage.Maintenance, v validate.Violations) {
			validate.Required("client.id", m.Client.ID, v)
			validate.Required("client.name", m.Client.Name, v)
		}},
		Step[storage.Maintenance]{Name: "equipment", Check: func(m storage.Maintenance, v validate.Violations) {
			validate.Required("equipment.name", m.Equipment.Name, v)
		}},
		Step[storage.Maintenance]{Name: "schedule", Check: func(m storage.Maintenance, v validate.Violations) {
			validate.Required("startDate", m.StartDate, v)
			validate.Day("startDate", m.StartDate, v)
			validate.Required("endDate", m.EndDate, v)
			validate.Day("endDate", m.EndDate, v)
			validate.DayOrder("endDate", m.StartDate, m.EndDate, v)
			validate.Day("lastVisit", m.LastVisit, v)
			validate.Day("nextVisit", m.NextVisit, v)
			validate.Required("frequency", m.Frequency, v)
			validate.OneOf("frequency", m.Frequency, storage.Frequencies, v)
			validate.OneOf("paymentStatus", m.PaymentStatus, storage.PaymentStatuses, v)
			validate.OneOf("status", m.Status, storage.ContractStatuses, v)
			if m.Amount.IsNegative() {
				v["amount"] = "must_not_be_negative"
			}
		}},
	)
}

// Appointment: client -> team -> schedule.
func Appointment() *Wizard[storage.Appointment] {
	return New(KindAppointment,
		Step[storage.Appointment]{Name: "client", Check: func(a storage.Appointment, v validate.Violations) {
			validate.Required("client.name", a.Client.Name, v)
		}},
		Step[storage.Appointment]{Name: "team", Check: func(a storage.Appointment, v validate.Violations) {
			validate.Required("team", a.Team, v)
		}},
		Step[storage.Appointment]{Name: "schedule", Check: func(a storage.Appointment, v validate.Violations) {
			validate.Required("title", a.Title, v)
			validate.Required("date", a.Date, v)
			validate.Day("date", a.Date, v)
			validate.Clock("time", a.Time, v)
			validate.Required("duration", a.Duration, v)
			validate.Required("status", a.Status, v)
			validate.OneOf("status", a.Status, storage.AppointmentStatuses, v)
			validate.Required("type", a.Type, v)
			validate.OneOf("type", a.Type, storage.AppointmentTypes, v)
			for _, p := range a.Products {
				validate.Positive("products.quantity", p.Quantity, v)
			}
		}},
	)
}

// Client: identity -> address -> equipment.
func Client() *Wizard[storage.Client] {
	return New(KindClient,
		Step[storage.Client]{Name: "identity", Check: func(c storage.Client, v validate.Violations) {
			validate.Required("name", c.Name, v)
			validate.Email("contact.email", c.Contact.Email, v)
		}},
		Step[storage.Client]{Name: "address", Check: func(c storage.Client, v validate.Violations) {
			validate.Required("address.city", c.Address.City, v)
			if c.Address.PostalCode != "" && !postalCodeRe.MatchString(c.Address.PostalCode) {
				v["address.postalCode"] = "invalid_postal_code"
			}
		}},
		Step[storage.Client]{Name: "equipment", Check: func(c storage.Client, v validate.Violations) {
			for _, id := range c.ProductIDs {
				validate.Required("productsIds", id, v)
			}
			if c.HasRAC && c.RACAmount != nil && c.RACAmount.IsNegative() {
				v["racAmount"] = "must_not_be_negative"
			}
		}},
	)
}

// Default is the registry served over HTTP.
func Default() Registry {
	return NewRegistry(Maintenance(), Appointment(), Client())
}
