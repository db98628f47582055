package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/crm"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage"
)

// seedOrder inserts referenced documents before the ones that copy them.
var seedOrder = []string{
	storage.CollCategories,
	storage.CollSuppliers,
	storage.CollTeams,
	storage.CollProducts,
	storage.CollClients,
	storage.CollVehicles,
	storage.CollProjects,
	storage.CollMaintenances,
	storage.CollAppointments,
	storage.CollTickets,
}

var seedCmd = &cobra.Command{
	Use:   "seed <fichier.yaml>",
	Short: "Importe des documents depuis un fichier YAML",
	Long: `Importe des documents depuis un fichier YAML dont les clés de premier
niveau sont des noms de collections:

  teams:
    - name: Alpha
      active: true
  clients:
    - name: Durand
      address: {city: Lyon, postalCode: "69003"}`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		repos, closeStore, err := openRepos(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		counts, err := seed(cmd.Context(), repos, f)
		for _, name := range seedOrder {
			if n := counts[name]; n > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %d\n", name, n)
			}
		}
		return err
	},
}

// seed adds every document of the YAML stream r. Field names are the JSON
// names of the documents. It stops at the first rejected document.
func seed(ctx context.Context, repos *crm.Repos, r io.Reader) (map[string]int, error) {
	var file map[string][]map[string]any
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("seed: read yaml: %w", err)
	}

	for name := range file {
		if !slices.Contains(seedOrder, name) {
			return nil, fmt.Errorf("seed: unknown collection %q", name)
		}
	}

	counts := make(map[string]int, len(file))
	for _, name := range seedOrder {
		rs, _ := repos.Resource(name)
		for i, item := range file[name] {
			raw, err := json.Marshal(item)
			if err != nil {
				return counts, fmt.Errorf("seed: %s[%d]: %w", name, i, err)
			}
			if _, err := rs.Create(ctx, raw); err != nil {
				return counts, fmt.Errorf("seed: %s[%d]: %w", name, i, err)
			}
			counts[name]++
		}
	}
	return counts, nil
}
