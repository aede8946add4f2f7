package main

import (
	"github.com/spf13/cobra"

	"phonedrain-sim/internal/dashboard"
	"phonedrain-sim/internal/logging"
)

var dashboardOut string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render the Grafana dashboard for the battery tables",
	Long:  "dashboard renders the Grafana dashboard template using GREPTIMEDB_DATASOURCE_UID and the configured table names.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := dashboard.Render(dashboardOut); err != nil {
			return err
		}
		logging.FromContext(cmd.Context()).Info("dashboard rendered", "dir", dashboardOut)
		return nil
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardOut, "out", "build", "Output directory")
}
