package storage

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Contact struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Mobile    string `json:"mobile,omitempty"`
}

type Address struct {
	Street     string `json:"street"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
}

func (a Address) String() string {
	city := strings.TrimSpace(a.PostalCode + " " + a.City)
	switch {
	case a.Street == "":
		return city
	case city == "":
		return a.Street
	}
	return a.Street + ", " + city
}

type Client struct {
	Meta
	Name    string  `json:"name"`
	Contact Contact `json:"contact"`
	Address Address `json:"address"`
	// HasRAC marks an outstanding amount collected on site.
	HasRAC    bool             `json:"hasRac"`
	RACAmount *decimal.Decimal `json:"racAmount,omitempty"`
	Regie     string           `json:"regie,omitempty"`
	// ProductIDs lists the products installed at this client.
	ProductIDs []string `json:"productsIds"`
	Notes      string   `json:"notes,omitempty"`
}

func (Client) DocStatus() string { return "" }

// Phone returns the number to reach the client, mobile first.
func (c Client) Phone() string {
	if c.Contact.Mobile != "" {
		return c.Contact.Mobile
	}
	return c.Contact.Phone
}

func (c Client) Snapshot() ClientSnapshot {
	return ClientSnapshot{
		ID:      c.ID,
		Name:    c.Name,
		Phone:   c.Phone(),
		Email:   c.Contact.Email,
		Address: c.Address.String(),
	}
}
