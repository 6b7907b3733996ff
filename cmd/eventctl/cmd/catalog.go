package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inclusivevents/client/internal/cms"
)

// catalogCmd groups the supporting content collections.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse venues, organizers, and accessibility features",
}

func newCatalogListCmd(use, short string, fetch func(*app, *cobra.Command) (cms.Envelope, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			env, err := fetch(app, cmd)
			if err != nil {
				return err
			}
			var items []json.RawMessage
			if err := json.Unmarshal(env.Data, &items); err != nil {
				return fmt.Errorf("decode %s: %w", use, err)
			}
			return printJSON(cmd, items)
		},
	}
}

func init() {
	catalogCmd.PersistentFlags().StringVar(&eventsLocale, "locale", "", "content locale (default from config)")

	catalogCmd.AddCommand(newCatalogListCmd("locations", "List venues",
		func(a *app, cmd *cobra.Command) (cms.Envelope, error) {
			return a.client.ListLocations(cmd.Context(), eventsLocale)
		}))
	catalogCmd.AddCommand(newCatalogListCmd("organizers", "List organizers",
		func(a *app, cmd *cobra.Command) (cms.Envelope, error) {
			return a.client.ListOrganizers(cmd.Context(), eventsLocale)
		}))
	catalogCmd.AddCommand(newCatalogListCmd("features", "List accessibility features",
		func(a *app, cmd *cobra.Command) (cms.Envelope, error) {
			return a.client.ListAccessibilityFeatures(cmd.Context(), eventsLocale)
		}))

	rootCmd.AddCommand(catalogCmd)
}
