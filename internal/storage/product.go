package storage

import "github.com/shopspring/decimal"

type Supplier struct {
	Meta
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

func (Supplier) DocStatus() string { return "" }

type Category struct {
	Meta
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (Category) DocStatus() string { return "" }

// SupplierRef is the supplier block copied into a product.
type SupplierRef struct {
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

type Stock struct {
	Current  int `json:"current"`
	Reserved int `json:"reserved"`
	Returned int `json:"returned"`
	Minimum  int `json:"minimum"`
	Optimal  int `json:"optimal"`
}

// Available is the stock that is neither reserved nor missing.
func (s Stock) Available() int { return s.Current - s.Reserved }

type Product struct {
	Meta
	Name        string          `json:"name"`
	Reference   string          `json:"reference"`
	Brand       string          `json:"brand,omitempty"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	Supplier    SupplierRef     `json:"supplier"`
	Price       decimal.Decimal `json:"price"`
	Stock       Stock           `json:"stock"`
}

func (Product) DocStatus() string { return "" }

func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{ID: p.ID, Name: p.Name, Reference: p.Reference, Brand: p.Brand}
}
