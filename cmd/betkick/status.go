package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the provisional backlog and the task schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, appLog)
		if err != nil {
			return err
		}
		defer a.close()

		backlog, err := a.repos.Match.CountProvisional(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to count provisional matches: %w", err)
		}

		coordinator := a.newCoordinator(cfg, nil, appLog)
		if err := coordinator.Register(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Provisional backlog: %d\n\n", backlog)

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TASK\tSPEC\tNEXT RUN (UTC)")
		for _, e := range coordinator.Entries() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.Spec, e.Next.UTC().Format(time.RFC3339))
		}
		return w.Flush()
	},
}
