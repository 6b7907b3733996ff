package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inclusivevents/client/internal/accounts"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the signed-in account",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the account and accessibility details",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		user, err := app.accounts.Profile(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Username: %s\n", user.Username)
		fmt.Fprintf(out, "Email:    %s\n", user.Email)
		if user.Role.Name != "" {
			fmt.Fprintf(out, "Role:     %s\n", user.Role.Name)
		}
		if !user.Card.IsZero() {
			fmt.Fprintln(out, "Disability card:")
			fmt.Fprintf(out, "  Status:    %s\n", user.Card.Status)
			if user.Card.IssuingAuthority != "" {
				fmt.Fprintf(out, "  Authority: %s\n", user.Card.IssuingAuthority)
			}
			if user.Card.ExpiryDate != "" {
				fmt.Fprintf(out, "  Expires:   %s\n", user.Card.ExpiryDate)
			}
			if url := app.media.ResolveFile(user.Card.File); url != "" {
				fmt.Fprintf(out, "  Document:  %s\n", url)
			}
		}
		return nil
	},
}

var (
	updateUsername string
	updateEmail    string
)

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change username or email",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		user, err := app.accounts.UpdateAccount(cmd.Context(), updateUsername, updateEmail)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Account updated: %s <%s>\n", user.Username, user.Email)
		return nil
	},
}

var accessibilityInput = struct {
	accounts.AccessibilityInput
	filePath string
}{}

var profileAccessibilityCmd = &cobra.Command{
	Use:   "update-accessibility",
	Short: "Update the disability card on file",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		in := accessibilityInput.AccessibilityInput
		if accessibilityInput.filePath != "" {
			f, err := os.Open(accessibilityInput.filePath)
			if err != nil {
				return fmt.Errorf("open card file: %w", err)
			}
			defer func() { _ = f.Close() }()
			in.File = f
			in.FileName = accessibilityInput.filePath
		}

		user, err := app.accounts.UpdateAccessibility(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Accessibility card updated (status %s)\n", user.Card.Status)
		return nil
	},
}

func init() {
	profileUpdateCmd.Flags().StringVar(&updateUsername, "username", "", "new username")
	profileUpdateCmd.Flags().StringVar(&updateEmail, "email", "", "new email address")

	f := profileAccessibilityCmd.Flags()
	f.StringVar(&accessibilityInput.Status, "status", "", "card status")
	f.StringVar(&accessibilityInput.IssuingAuthority, "issuing-authority", "", "card issuing authority")
	f.StringVar(&accessibilityInput.ExpiryDate, "expiry", "", "card expiry date (YYYY-MM-DD)")
	f.StringVar(&accessibilityInput.filePath, "file", "", "path to a new card document")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(profileAccessibilityCmd)
	rootCmd.AddCommand(profileCmd)
}
