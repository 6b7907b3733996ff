package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inclusivevents/client/internal/accounts"
)

var registerInput = struct {
	accounts.RegisterInput
	cardFilePath string
}{}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Create an account on the events platform.

Accessibility details and role requests are optional extras on top of the
account itself: if one of those steps fails the account still gets created
and the failed step is reported as a warning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		in := registerInput.RegisterInput
		if registerInput.cardFilePath != "" {
			f, err := os.Open(registerInput.cardFilePath)
			if err != nil {
				return fmt.Errorf("open card file: %w", err)
			}
			defer func() { _ = f.Close() }()
			in.CardFile = f
			in.CardFileName = registerInput.cardFilePath
		}

		result, err := app.accounts.Register(cmd.Context(), in)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Account created (user id %d)\n", result.UserID)
		for _, warning := range result.Warnings {
			fmt.Fprintf(out, "Warning: %s\n", warning)
		}
		return nil
	},
}

func init() {
	f := registerCmd.Flags()
	f.StringVar(&registerInput.Username, "username", "", "username")
	f.StringVar(&registerInput.Email, "email", "", "email address")
	f.StringVar(&registerInput.Password, "password", "", "password")
	f.StringVar(&registerInput.FirstName, "first-name", "", "first name")
	f.StringVar(&registerInput.LastName, "last-name", "", "last name")
	f.StringVar(&registerInput.Birthday, "birthday", "", "birthday (YYYY-MM-DD)")
	f.StringVar(&registerInput.Language, "language", "", "primary language")
	f.StringVar(&registerInput.IntendedRole, "role", "", "requested role (attendee needs no request)")
	f.StringVar(&registerInput.Justification, "justification", "", "justification for an elevated role request")
	f.BoolVar(&registerInput.HasDisability, "disability", false, "register a disability card")
	f.StringVar(&registerInput.cardFilePath, "card-file", "", "path to the disability card document")
	f.StringVar(&registerInput.CardNumber, "card-number", "", "disability card number")
	f.StringVar(&registerInput.CardStatus, "card-status", "", "disability card status")
	f.StringVar(&registerInput.IssuingAuthority, "issuing-authority", "", "card issuing authority")
	f.StringVar(&registerInput.CardExpiry, "card-expiry", "", "card expiry date (YYYY-MM-DD)")

	_ = registerCmd.MarkFlagRequired("username")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")
	_ = registerCmd.MarkFlagRequired("first-name")
	_ = registerCmd.MarkFlagRequired("last-name")

	rootCmd.AddCommand(registerCmd)
}
