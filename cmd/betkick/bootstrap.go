package main

import (
	"github.com/spf13/cobra"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Fill the database once and exit",
	Long: `Saves competitions and the upcoming fixture windows, then refreshes both
standings batches with the configured quota wait between steps.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, appLog)
		if err != nil {
			return err
		}
		defer a.close()

		return a.newCoordinator(cfg, nil, appLog).Bootstrap(cmd.Context())
	},
}
