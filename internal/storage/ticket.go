package storage

import "time"

const (
	TicketNew        = "nouveau"
	TicketInProgress = "en_cours"
	TicketResolved   = "resolu"
	TicketCancelled  = "annule"
)

var TicketStatuses = []string{TicketNew, TicketInProgress, TicketResolved, TicketCancelled}

var TicketPriorities = []string{"basse", "normale", "haute", "urgente"}

type Comment struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type Ticket struct {
	Meta
	Number     string          `json:"number"`
	Client     ClientSnapshot  `json:"client"`
	Product    ProductSnapshot `json:"product"`
	Team       string          `json:"team,omitempty"`
	Status     string          `json:"status"`
	Priority   string          `json:"priority,omitempty"`
	Problem    string          `json:"problem"`
	Comments   []Comment       `json:"comments"`
	ResolvedAt *time.Time      `json:"resolvedAt,omitempty"`
}

func (t Ticket) DocStatus() string { return t.Status }
