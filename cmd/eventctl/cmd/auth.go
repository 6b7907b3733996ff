package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inclusivevents/client/internal/session"
)

var (
	loginIdentifier string
	loginPassword   string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		user, err := app.accounts.Login(cmd.Context(), loginIdentifier, loginPassword)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", user.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		if err := app.accounts.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		user, ok := app.sessions.User()
		if !ok {
			return session.ErrNotAuthenticated
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Username: %s\n", user.Username)
		fmt.Fprintf(out, "Email:    %s\n", user.Email)
		if user.Role.Name != "" {
			fmt.Fprintf(out, "Role:     %s\n", user.Role.Name)
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginIdentifier, "user", "u", "", "username or email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password")
	_ = loginCmd.MarkFlagRequired("user")
	_ = loginCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
