package storage

type Activity struct {
	Meta
	UserID     string `json:"userId"`
	UserName   string `json:"userName"`
	Action     string `json:"action"`
	Collection string `json:"collection"`
	DocumentID string `json:"documentId,omitempty"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	Status     int    `json:"status"`
}

func (Activity) DocStatus() string { return "" }
