package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/notify"
	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/service/reminder"
)

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Rappels SMS des entretiens et rendez-vous",
}

var remindersRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Envoie les rappels dus maintenant",
	RunE: func(cmd *cobra.Command, args []string) error {
		repos, closeStore, err := openRepos(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		svc := reminder.NewService(log, repos, notify.New(log, cfg.Twilio), cfg.Loc(), cfg.Reminder.LeadDays, cfg.Company.Name)
		res, err := svc.Run(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "entretiens: %d\nrendez-vous: %d\nignorés: %d\néchecs: %d\n",
			res.Maintenances, res.Appointments, res.Skipped, res.Failed)
		return nil
	},
}

func init() {
	remindersCmd.AddCommand(remindersRunCmd)
}
