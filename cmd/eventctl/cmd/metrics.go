package cmd

import (
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/inclusivevents/client/internal/metrics"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Dump client metrics in Prometheus text format",
	Long: `Dump the process-local client metrics (request counts, latencies,
session reloads) in the Prometheus text exposition format. Useful when
debugging a long-running command or a wrapper process.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		families, err := metrics.Registry.Gather()
		if err != nil {
			return err
		}
		enc := expfmt.NewEncoder(cmd.OutOrStdout(), expfmt.NewFormat(expfmt.TypeTextPlain))
		for _, family := range families {
			if err := enc.Encode(family); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}
