// Command crmctl runs administration tasks against the CRM database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/config"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/crm"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/logger"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage/sqlstore"
)

var (
	configPath string

	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "crmctl",
	Short:         "Administration du CRM",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		path := configPath
		if path == "" {
			path = os.Getenv("CONFIG_PATH")
		}
		if path == "" {
			path = "./config/local.yaml"
		}

		c, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = c
		log = logger.Setup(cfg.Env)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "fichier de configuration (CONFIG_PATH par défaut)")

	rootCmd.AddCommand(migrateCmd, userCmd, seedCmd, exportCmd, contractCmd, sheetCmd, remindersCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "erreur:", err)
		os.Exit(1)
	}
}

// openRepos opens the document store and makes sure its table exists.
func openRepos(ctx context.Context) (*crm.Repos, func(), error) {
	store, err := sqlstore.New(cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return crm.NewRepos(store, time.Now), func() { _ = store.Close() }, nil
}
