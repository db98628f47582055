package storage

type Team struct {
	Meta
	Name      string   `json:"name"`
	Color     string   `json:"color"`
	Active    bool     `json:"active"`
	Expertise []string `json:"expertise"`
}

func (t Team) DocStatus() string {
	if t.Active {
		return "active"
	}
	return "inactive"
}

func (t Team) Snapshot() TeamSnapshot {
	return TeamSnapshot{ID: t.ID, Name: t.Name, Color: t.Color}
}
