package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/crm"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/validate"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage/sqlstore"
)

func newRepos(t *testing.T) *crm.Repos {
	t.Helper()

	s, err := sqlstore.Open(sqlstore.SQLite, sqlstore.SQLiteDSN(filepath.Join(t.TempDir(), "crm.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))

	return crm.NewRepos(s, time.Now)
}

const seedFile = `
clients:
  - name: Durand
    address: {city: Lyon, postalCode: "69003"}
teams:
  - name: Alpha
  - name: Bravo
products:
  - name: Split mural
    reference: SPL-1
    stock: {current: 4, minimum: 1}
`

func TestSeed(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	counts, err := seed(ctx, repos, strings.NewReader(seedFile))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"clients": 1, "teams": 2, "products": 1}, counts)

	teams, err := repos.Teams.List(ctx)
	require.NoError(t, err)
	assert.Len(t, teams, 2)

	clients, err := repos.Clients.List(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Lyon", clients[0].Address.City)
	assert.NotEmpty(t, clients[0].ID)

	products, err := repos.Products.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 4, products[0].Stock.Current)
}

func TestSeed_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"bad yaml", "teams: [name: {"},
		{"unknown collection", "garages:\n  - name: x\n"},
		{"activity is not seeded", "activity:\n  - action: create\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := seed(context.Background(), newRepos(t), strings.NewReader(tt.in))
			assert.Error(t, err)
		})
	}
}

func TestSeed_StopsOnInvalidDocument(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()

	counts, err := seed(ctx, repos, strings.NewReader("teams:\n  - name: Alpha\n  - color: red\n"))

	var v validate.Violations
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "required", v["name"])
	assert.Contains(t, err.Error(), "teams[1]")
	assert.Equal(t, 1, counts["teams"])
}
