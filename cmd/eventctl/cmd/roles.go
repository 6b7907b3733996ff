package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List platform roles",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		out, err := app.client.Roles(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTYPE")
		for _, role := range out.Roles {
			fmt.Fprintf(w, "%d\t%s\t%s\n", role.ID, role.Name, role.Type)
		}
		return w.Flush()
	},
}

var roleRequestsCmd = &cobra.Command{
	Use:   "role-requests",
	Short: "List role requests (moderators)",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		env, err := app.client.RoleRequests(cmd.Context())
		if err != nil {
			return err
		}
		var items []json.RawMessage
		if err := json.Unmarshal(env.Data, &items); err != nil {
			return fmt.Errorf("decode role requests: %w", err)
		}
		return printJSON(cmd, items)
	},
}

var roleRequestStatus string

var roleRequestUpdateCmd = &cobra.Command{
	Use:   "approve <request-id>",
	Short: "Set a role request's status (moderators)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		var id int64
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid request id %q", args[0])
		}
		if _, err := app.client.UpdateRoleRequest(cmd.Context(), id, roleRequestStatus); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Request %d set to %s\n", id, roleRequestStatus)
		return nil
	},
}

func init() {
	roleRequestUpdateCmd.Flags().StringVar(&roleRequestStatus, "status", "approved", "new status (approved, rejected, pending)")

	roleRequestsCmd.AddCommand(roleRequestUpdateCmd)
	rootCmd.AddCommand(rolesCmd)
	rootCmd.AddCommand(roleRequestsCmd)
}
