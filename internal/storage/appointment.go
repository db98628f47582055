package storage

import "time"

const (
	AppointmentPlanned   = "planifie"
	AppointmentConfirmed = "confirme"
	AppointmentDone      = "termine"
	AppointmentCancelled = "annule"
)

var AppointmentStatuses = []string{AppointmentPlanned, AppointmentConfirmed, AppointmentDone, AppointmentCancelled}

const (
	TypeInstallation = "installation"
	TypeMaintenance  = "maintenance"
	TypeSAV          = "sav"
)

var AppointmentTypes = []string{TypeInstallation, TypeMaintenance, TypeSAV}

type Appointment struct {
	Meta
	Title string `json:"title"`
	Date  string `json:"date"`
	Time  string `json:"time"`
	// Duration is free text such as "4h" or "2 jours".
	Duration  string         `json:"duration"`
	Team      string         `json:"team"`
	Status    string         `json:"status"`
	Type      string         `json:"type"`
	Client    ClientSnapshot `json:"client"`
	ProjectID string         `json:"projectId,omitempty"`
	Products  []ProductLine  `json:"products,omitempty"`
	Notes     string         `json:"notes,omitempty"`

	LastReminderAt *time.Time `json:"lastReminderAt,omitempty"`
}

func (a Appointment) DocStatus() string { return a.Status }
