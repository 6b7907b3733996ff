package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a file to the media library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()

		files, err := app.client.Upload(cmd.Context(), args[0], f)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, uploaded := range files {
			fmt.Fprintf(out, "%d\t%s\t%s\n", uploaded.ID, uploaded.Name, app.media.Resolve(uploaded.URL))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
