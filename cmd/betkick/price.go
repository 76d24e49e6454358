package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/betkick/internal/logger"
	"github.com/yourusername/betkick/internal/service"
)

var priceMatchID int

func init() {
	priceCmd.Flags().IntVar(&priceMatchID, "match-id", 0, "ID of the stored match to price")
	_ = priceCmd.MarkFlagRequired("match-id")
}

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price a single stored match",
	RunE: func(cmd *cobra.Command, args []string) error {
		if priceMatchID <= 0 {
			return fmt.Errorf("--match-id must be positive")
		}

		a, err := newApp(cmd.Context(), cfg, appLog)
		if err != nil {
			return err
		}
		defer a.close()

		outcome, err := a.oddsSvc.PriceMatchByID(cmd.Context(), priceMatchID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Match %d: %s\n", outcome.MatchID, outcome.Kind)
		switch {
		case outcome.Kind == service.OutcomePriced && outcome.Quote != nil:
			q := outcome.Quote
			logger.NewAuditLogger(appLog).LogOddsOverride(outcome.MatchID, "cli", q.HomeWinOdds, q.DrawOdds, q.AwayWinOdds)
			fmt.Fprintf(out, "  Home %.2f  Draw %.2f  Away %.2f\n", q.HomeWinOdds, q.DrawOdds, q.AwayWinOdds)
			fmt.Fprintf(out, "  Standings used: %t  Recent head-to-head used: %t\n", q.StandingsUsed, q.RecentHeadToHeadUsed)
		case outcome.Err != nil:
			fmt.Fprintf(out, "  Error: %v\n", outcome.Err)
		}
		return nil
	},
}
