package export

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/crm"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage/sqlstore"
)

func newService(t *testing.T) (*Service, *crm.Repos) {
	t.Helper()

	s, err := sqlstore.Open(sqlstore.SQLite, sqlstore.SQLiteDSN(filepath.Join(t.TempDir(), "crm.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))

	clock := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	repos := crm.NewRepos(s, func() time.Time {
		clock = clock.Add(time.Hour)
		return clock
	})

	svc := NewService(repos, time.UTC)
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	return svc, repos
}

func open(t *testing.T, b []byte) *excelize.File {
	t.Helper()

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, sheet, name string) string {
	t.Helper()

	v, err := f.GetCellValue(sheet, name)
	require.NoError(t, err)
	return v
}

func TestSAVReport(t *testing.T) {
	svc, repos := newService(t)
	ctx := context.Background()

	client, err := repos.Clients.Add(ctx, storage.Client{Name: "Durand", Address: storage.Address{City: "Lyon", PostalCode: "69003"}})
	require.NoError(t, err)

	resolved := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)
	_, err = repos.Tickets.Add(ctx, storage.Ticket{
		Number: "SAV-2024-0001", Client: client.Snapshot(), Team: "Alpha",
		Product: storage.ProductSnapshot{Name: "Split"}, Status: storage.TicketResolved,
		Problem: "Fuite", Priority: "haute", ResolvedAt: &resolved,
		Comments: []storage.Comment{{Author: "Léa", Text: "Joint changé"}},
	})
	require.NoError(t, err)
	_, err = repos.Tickets.Add(ctx, storage.Ticket{
		Number: "SAV-2024-0002", Client: storage.ClientSnapshot{Name: "Martin"},
		Status: storage.TicketNew, Problem: "Bruit",
	})
	require.NoError(t, err)

	b, err := svc.SAVReport(ctx)
	require.NoError(t, err)
	f := open(t, b)

	assert.Equal(t, []string{SAVSheet, SummarySheet}, f.GetSheetList())

	for i, h := range savHeaders {
		assert.Equal(t, h, cell(t, f, SAVSheet, cellName(i+1, 1)))
	}

	// newest first
	assert.Equal(t, "SAV-2024-0002", cell(t, f, SAVSheet, "A2"))
	assert.Equal(t, "Non assigné", cell(t, f, SAVSheet, "F2"))
	assert.Equal(t, "Produit non spécifié", cell(t, f, SAVSheet, "E2"))
	assert.Equal(t, "Nouveau", cell(t, f, SAVSheet, "H2"))

	assert.Equal(t, "SAV-2024-0001", cell(t, f, SAVSheet, "A3"))
	assert.Equal(t, "03/06/2024", cell(t, f, SAVSheet, "B3"))
	assert.Equal(t, "Lyon", cell(t, f, SAVSheet, "D3"))
	assert.Equal(t, "Résolu", cell(t, f, SAVSheet, "H3"))
	assert.Equal(t, "1", cell(t, f, SAVSheet, "J3"))
	assert.Equal(t, "10/06/2024", cell(t, f, SAVSheet, "K3"))

	panes, err := f.GetPanes(SAVSheet)
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)

	assert.Equal(t, "Nouveau", cell(t, f, SummarySheet, "A2"))
	assert.Equal(t, "1", cell(t, f, SummarySheet, "B2"))
	assert.Equal(t, "50", cell(t, f, SummarySheet, "C2"))
	assert.Equal(t, "Total", cell(t, f, SummarySheet, "A6"))
	assert.Equal(t, "2", cell(t, f, SummarySheet, "B6"))
	assert.Equal(t, "Équipe", cell(t, f, SummarySheet, "A8"))
	assert.Equal(t, "Alpha", cell(t, f, SummarySheet, "A9"))
	assert.Equal(t, "Non assigné", cell(t, f, SummarySheet, "A10"))
}

func TestStockReport(t *testing.T) {
	svc, repos := newService(t)
	ctx := context.Background()

	_, err := repos.Products.Add(ctx, storage.Product{
		Name: "Split mural", Reference: "SPL-1", Price: decimal.RequireFromString("899.90"),
		Stock: storage.Stock{Current: 10, Reserved: 3, Minimum: 1, Optimal: 12},
	})
	require.NoError(t, err)
	_, err = repos.Products.Add(ctx, storage.Product{
		Name: "Filtre", Reference: "FLT-2", Supplier: storage.SupplierRef{Name: "Clim Pro"},
		Stock: storage.Stock{Current: 2, Minimum: 5, Optimal: 20},
	})
	require.NoError(t, err)

	b, err := svc.StockReport(ctx)
	require.NoError(t, err)
	f := open(t, b)

	assert.Equal(t, []string{StockSheet}, f.GetSheetList())

	// sorted by name
	assert.Equal(t, "Filtre", cell(t, f, StockSheet, "B2"))
	assert.Equal(t, "Clim Pro", cell(t, f, StockSheet, "E2"))
	assert.Equal(t, "18", cell(t, f, StockSheet, "L2"))
	assert.Equal(t, "Split mural", cell(t, f, StockSheet, "B3"))
	assert.Equal(t, "7", cell(t, f, StockSheet, "I3"))
	assert.Equal(t, "2", cell(t, f, StockSheet, "L3"))

	low, err := f.GetCellStyle(StockSheet, "A2")
	require.NoError(t, err)
	normal, err := f.GetCellStyle(StockSheet, "A3")
	require.NoError(t, err)
	assert.NotZero(t, low)
	assert.NotEqual(t, low, normal)

	lowLast, err := f.GetCellStyle(StockSheet, "L2")
	require.NoError(t, err)
	assert.Equal(t, low, lowLast)
}

func TestStockReport_Empty(t *testing.T) {
	svc, _ := newService(t)

	b, err := svc.StockReport(context.Background())
	require.NoError(t, err)
	f := open(t, b)

	assert.Equal(t, "Référence", cell(t, f, StockSheet, "A1"))
	assert.Empty(t, cell(t, f, StockSheet, "A2"))
}
