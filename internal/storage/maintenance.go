package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	FrequencyMonthly    = "mensuel"
	FrequencyQuarterly  = "trimestriel"
	FrequencyHalfYearly = "semestriel"
	FrequencyYearly     = "annuel"
)

var Frequencies = []string{FrequencyMonthly, FrequencyQuarterly, FrequencyHalfYearly, FrequencyYearly}

const (
	PaymentPaid    = "paye"
	PaymentPending = "en_attente"
	PaymentUnpaid  = "impaye"
)

var PaymentStatuses = []string{PaymentPaid, PaymentPending, PaymentUnpaid}

const (
	ContractActive     = "actif"
	ContractExpired    = "expire"
	ContractTerminated = "resilie"
)

var ContractStatuses = []string{ContractActive, ContractExpired, ContractTerminated}

type Equipment struct {
	ProductID    string `json:"productId,omitempty"`
	Name         string `json:"name"`
	Reference    string `json:"reference,omitempty"`
	Brand        string `json:"brand,omitempty"`
	SerialNumber string `json:"serialNumber,omitempty"`
}

type Maintenance struct {
	Meta
	Client          ClientSnapshot  `json:"client"`
	Equipment       Equipment       `json:"equipment"`
	StartDate       string          `json:"startDate"`
	EndDate         string          `json:"endDate"`
	LastVisit       string          `json:"lastVisit,omitempty"`
	NextVisit       string          `json:"nextVisit"`
	Frequency       string          `json:"frequency"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentSchedule string          `json:"paymentSchedule"`
	PaymentStatus   string          `json:"paymentStatus"`
	Status          string          `json:"status"`
	Team            string          `json:"team,omitempty"`
	Notes           string          `json:"notes,omitempty"`

	LastReminderAt *time.Time `json:"lastReminderAt,omitempty"`
}

func (m Maintenance) DocStatus() string { return m.Status }

// FrequencyMonths is the number of months between two visits.
func FrequencyMonths(frequency string) int {
	switch frequency {
	case FrequencyMonthly:
		return 1
	case FrequencyQuarterly:
		return 3
	case FrequencyHalfYearly:
		return 6
	default:
		return 12
	}
}
