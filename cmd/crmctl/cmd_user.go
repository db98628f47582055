package main

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/authsvc"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Gère les comptes de connexion",
}

var (
	userEmail    string
	userName     string
	userRole     string
	userPassword string
)

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Crée un compte",
	Long: `Crée un compte de connexion.

Le mot de passe vient de --password ou de CRM_USER_PASSWORD.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password := userPassword
		if password == "" {
			password = os.Getenv("CRM_USER_PASSWORD")
		}
		if password == "" {
			return errors.New("mot de passe requis (--password ou CRM_USER_PASSWORD)")
		}
		if !slices.Contains(authsvc.Roles, userRole) {
			return fmt.Errorf("rôle inconnu %q", userRole)
		}

		users, err := openUsers()
		if err != nil {
			return err
		}

		u, err := users.Create(cmd.Context(), userEmail, userName, userRole, password)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "compte créé: %s (%s, %s)\n", u.Email, u.Role, u.ID)
		return nil
	},
}

var userDisableCmd = &cobra.Command{
	Use:   "disable <email>",
	Short: "Désactive un compte",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setActive(cmd, args[0], false)
	},
}

var userEnableCmd = &cobra.Command{
	Use:   "enable <email>",
	Short: "Réactive un compte",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setActive(cmd, args[0], true)
	},
}

func init() {
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "adresse e-mail")
	userCreateCmd.Flags().StringVar(&userName, "name", "", "nom affiché")
	userCreateCmd.Flags().StringVar(&userRole, "role", authsvc.RoleOffice, "admin, technicien ou bureau")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "mot de passe")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("name")

	userCmd.AddCommand(userCreateCmd, userDisableCmd, userEnableCmd)
}

func openUsers() (*authsvc.Store, error) {
	db, err := authsvc.OpenDB(cfg.Storage, cfg.Env)
	if err != nil {
		return nil, err
	}
	users := authsvc.NewStore(db)
	if err := users.Migrate(); err != nil {
		return nil, err
	}
	return users, nil
}

func setActive(cmd *cobra.Command, email string, active bool) error {
	users, err := openUsers()
	if err != nil {
		return err
	}
	if err := users.SetActive(cmd.Context(), email, active); err != nil {
		return err
	}

	state := "désactivé"
	if active {
		state = "réactivé"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "compte %s: %s\n", state, email)
	return nil
}
