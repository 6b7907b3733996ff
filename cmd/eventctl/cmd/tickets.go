package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inclusivevents/client/internal/cms"
	"github.com/inclusivevents/client/internal/domain/users"
	"github.com/inclusivevents/client/internal/session"
)

var ticketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "Manage event tickets",
}

var ticketsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the signed-in account's tickets",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		user, ok := app.sessions.User()
		if !ok {
			return session.ErrNotAuthenticated
		}
		env, err := app.client.TicketsForAccount(cmd.Context(), user.ID)
		if err != nil {
			return err
		}
		var items []json.RawMessage
		if err := json.Unmarshal(env.Data, &items); err != nil {
			return fmt.Errorf("decode tickets: %w", err)
		}
		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tickets")
			return nil
		}
		return printJSON(cmd, items)
	},
}

var ticketsTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List available ticket types",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		env, err := app.client.ListTicketTypes(cmd.Context())
		if err != nil {
			return err
		}
		var items []json.RawMessage
		if err := json.Unmarshal(env.Data, &items); err != nil {
			return fmt.Errorf("decode ticket types: %w", err)
		}
		return printJSON(cmd, items)
	},
}

var (
	ticketEventID int64
	ticketTypeID  int64
)

var ticketsBuyCmd = &cobra.Command{
	Use:   "buy",
	Short: "Book a ticket for an event",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		user, ok := app.sessions.User()
		if !ok {
			return session.ErrNotAuthenticated
		}

		profileID, err := appProfileID(cmd.Context(), app, user.ID)
		if err != nil {
			return err
		}

		_, err = app.client.CreateTicket(cmd.Context(), cms.TicketInput{
			Event:      ticketEventID,
			TicketType: ticketTypeID,
			AppUser:    profileID,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Ticket booked")
		return nil
	},
}

// appProfileID resolves the app-user entity linked to the account; tickets
// reference that entity, not the account itself.
func appProfileID(ctx context.Context, app *app, accountID int64) (int64, error) {
	env, err := app.client.AppProfileByAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	profiles, err := users.ParseAppProfiles(env.Data)
	if err != nil {
		return 0, err
	}
	if len(profiles) == 0 {
		return 0, fmt.Errorf("no app profile linked to account %d", accountID)
	}
	return profiles[0].ID, nil
}

func init() {
	ticketsBuyCmd.Flags().Int64Var(&ticketEventID, "event", 0, "event id")
	ticketsBuyCmd.Flags().Int64Var(&ticketTypeID, "type", 0, "ticket type id")
	_ = ticketsBuyCmd.MarkFlagRequired("event")

	ticketsCmd.AddCommand(ticketsListCmd)
	ticketsCmd.AddCommand(ticketsTypesCmd)
	ticketsCmd.AddCommand(ticketsBuyCmd)
	rootCmd.AddCommand(ticketsCmd)
}
