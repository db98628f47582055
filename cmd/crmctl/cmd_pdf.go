package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/service/contract"
)

var pdfOut string

var contractCmd = &cobra.Command{
	Use:   "contract <id>",
	Short: "Génère le contrat d'un entretien",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderPDF(cmd, args[0], "contrat", (*contract.Service).MaintenanceContract)
	},
}

var sheetCmd = &cobra.Command{
	Use:   "sheet <id>",
	Short: "Génère la fiche d'intervention d'un rendez-vous",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderPDF(cmd, args[0], "fiche", (*contract.Service).InterventionSheet)
	},
}

func init() {
	for _, c := range []*cobra.Command{contractCmd, sheetCmd} {
		c.Flags().StringVarP(&pdfOut, "output", "o", "", "fichier de sortie")
	}
}

type renderFunc func(s *contract.Service, ctx context.Context, id string, w io.Writer) error

func renderPDF(cmd *cobra.Command, id, prefix string, render renderFunc) error {
	repos, closeStore, err := openRepos(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	out := pdfOut
	if out == "" {
		out = fmt.Sprintf("%s_%s.pdf", prefix, id)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}

	svc := contract.NewService(repos, cfg.Company, cfg.Loc())
	if err := render(svc, cmd.Context(), id, f); err != nil {
		_ = f.Close()
		_ = os.Remove(out)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
