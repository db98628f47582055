package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/authsvc"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/storage/sqlstore"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Crée les tables documents et users",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := sqlstore.New(cfg.Storage)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Migrate(cmd.Context()); err != nil {
			return err
		}

		db, err := authsvc.OpenDB(cfg.Storage, cfg.Env)
		if err != nil {
			return err
		}
		if err := authsvc.NewStore(db).Migrate(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "base à jour")
		return nil
	},
}
