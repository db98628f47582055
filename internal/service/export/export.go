// Package export builds the spreadsheet reports.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/crm"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/service/sav"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/service/stock"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

const (
	SAVSheet     = "Tickets SAV"
	SummarySheet = "Synthèse"
	StockSheet   = "Stock"

	dateFormat = "02/01/2006"
)

var savHeaders = []string{"N°", "Créé le", "Client", "Ville", "Produit", "Équipe", "Priorité", "Statut", "Problème", "Commentaires", "Résolu le"}

var stockHeaders = []string{"Référence", "Désignation", "Marque", "Catégorie", "Fournisseur", "Prix", "Stock", "Réservé", "Disponible", "Minimum", "Optimal", "À commander"}

var statusLabels = map[string]string{
	storage.TicketNew:        "Nouveau",
	storage.TicketInProgress: "En cours",
	storage.TicketResolved:   "Résolu",
	storage.TicketCancelled:  "Annulé",
}

type Service struct {
	repos *crm.Repos
	loc   *time.Location
	now   func() time.Time
}

func NewService(repos *crm.Repos, loc *time.Location) *Service {
	return &Service{repos: repos, loc: loc, now: time.Now}
}

// SAVReport lists every ticket, with a summary sheet of the dashboard counts.
func (s *Service) SAVReport(ctx context.Context) ([]byte, error) {
	const op = "service.export.SAVReport"

	var (
		tickets []storage.Ticket
		clients []storage.Client
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tickets, err = s.repos.Tickets.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		clients, err = s.repos.Clients.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: fetch data: %w", op, err)
	}

	cities := make(map[string]string, len(clients))
	for _, c := range clients {
		cities[c.ID] = c.Address.City
	}

	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	w := &sheet{f: f, name: SAVSheet}
	w.err = f.SetSheetName("Sheet1", SAVSheet)
	w.header(savHeaders, st.header)
	for i, t := range tickets {
		product := t.Product.Name
		if product == "" {
			product = sav.NoProduct
		}
		team := t.Team
		if team == "" {
			team = sav.NoTeam
		}
		resolved := ""
		if t.ResolvedAt != nil {
			resolved = t.ResolvedAt.In(s.loc).Format(dateFormat)
		}
		w.row(i+2,
			t.Number,
			t.CreatedAt.In(s.loc).Format(dateFormat),
			t.Client.Name,
			cities[t.Client.ID],
			product,
			team,
			t.Priority,
			statusLabel(t.Status),
			t.Problem,
			len(t.Comments),
			resolved,
		)
	}
	w.freeze()
	w.width("A", "K", 16)
	w.width("I", "I", 50)

	d := sav.Aggregate(tickets, s.now(), s.loc)
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sum := &sheet{f: f, name: SummarySheet}
	sum.header([]string{"Statut", "Tickets", "%"}, st.header)
	row := 2
	for _, c := range d.ByStatus {
		sum.row(row, statusLabel(c.Status), c.Count, c.Percent)
		row++
	}
	sum.row(row, "Total", d.Total, 100)
	sum.style(row, 3, st.bold)

	row += 2
	sum.row(row, "Équipe", "Tickets")
	sum.style(row, 2, st.header)
	for _, c := range d.ByTeam {
		row++
		sum.row(row, c.Name, c.Count)
	}
	sum.width("A", "A", 24)

	if err := firstErr(w.err, sum.err); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return write(f)
}

// StockReport lists products. Rows of products at or below their minimum
// are highlighted.
func (s *Service) StockReport(ctx context.Context) ([]byte, error) {
	const op = "service.export.StockReport"

	products, err := s.repos.Products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch data: %w", op, err)
	}

	low := map[string]bool{}
	for _, a := range stock.Alerts(products) {
		low[a.Product.ID] = true
	}

	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	w := &sheet{f: f, name: StockSheet}
	w.err = f.SetSheetName("Sheet1", StockSheet)
	w.header(stockHeaders, st.header)
	for i, p := range products {
		row := i + 2
		w.row(row,
			p.Reference,
			p.Name,
			p.Brand,
			p.Category,
			p.Supplier.Name,
			p.Price.InexactFloat64(),
			p.Stock.Current,
			p.Stock.Reserved,
			p.Stock.Available(),
			p.Stock.Minimum,
			p.Stock.Optimal,
			max(0, p.Stock.Optimal-p.Stock.Current),
		)
		if low[p.ID] {
			w.style(row, len(stockHeaders), st.alert)
		}
		w.cellStyle(6, row, st.money)
	}
	w.freeze()
	w.width("A", "L", 14)
	w.width("B", "B", 30)

	if w.err != nil {
		return nil, fmt.Errorf("%s: %w", op, w.err)
	}
	return write(f)
}

func statusLabel(status string) string {
	if l, ok := statusLabels[status]; ok {
		return l
	}
	return status
}

func write(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
