package storage

var VehicleStatuses = []string{"disponible", "en_service", "maintenance", "hors_service"}

type Vehicle struct {
	Meta
	Plate           string `json:"plate"`
	Brand           string `json:"brand"`
	Model           string `json:"model"`
	Team            string `json:"team,omitempty"`
	Mileage         int    `json:"mileage"`
	NextServiceDate string `json:"nextServiceDate,omitempty"`
	InsuranceExpiry string `json:"insuranceExpiry,omitempty"`
	Status          string `json:"status"`
}

func (v Vehicle) DocStatus() string { return v.Status }
