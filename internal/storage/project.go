package storage

const (
	ProjectToPlace   = "placer"
	ProjectToConfirm = "confirmer"
	ProjectToLoad    = "charger"
	ProjectOngoing   = "encours"
	ProjectDone      = "terminer"
	ProjectCancelled = "annuler"
)

var ProjectStatuses = []string{ProjectToPlace, ProjectToConfirm, ProjectToLoad, ProjectOngoing, ProjectDone, ProjectCancelled}

type Project struct {
	Meta
	Name     string         `json:"name"`
	Client   ClientSnapshot `json:"client"`
	Team     TeamSnapshot   `json:"team"`
	Status   string         `json:"status"`
	Products []ProductLine  `json:"products"`
	Date     string         `json:"date,omitempty"`
	Duration string         `json:"duration,omitempty"`
	Notes    string         `json:"notes,omitempty"`
}

func (p Project) DocStatus() string { return p.Status }
