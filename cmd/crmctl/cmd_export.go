package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/service/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:       "export sav|stock",
	Short:     "Écrit un rapport Excel",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"sav", "stock"},
	RunE: func(cmd *cobra.Command, args []string) error {
		repos, closeStore, err := openRepos(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		svc := export.NewService(repos, cfg.Loc())

		var b []byte
		switch args[0] {
		case "sav":
			b, err = svc.SAVReport(cmd.Context())
		case "stock":
			b, err = svc.StockReport(cmd.Context())
		}
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			out = fmt.Sprintf("%s_%s.xlsx", args[0], time.Now().Format("2006-01-02"))
		}
		if err := os.WriteFile(out, b, 0o644); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "fichier de sortie")
}
