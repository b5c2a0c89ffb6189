package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Summix-io/wp-plugin-review/services/competitors"
	"github.com/Summix-io/wp-plugin-review/services/datastore"

	"github.com/spf13/cobra"
)

var (
	competitorsMax   *int
	competitorsDelay *float64
)

func init() {
	competitorsMax = competitorsCmd.Flags().Int("max", 10, "The most competitors reported.")
	competitorsDelay = competitorsCmd.Flags().Float64("delay", 1, "Base seconds waited between requests.")
	rootCmd.AddCommand(competitorsCmd)
}

var competitorsCmd = &cobra.Command{
	Use:   "competitors <plugin-slug>",
	Short: "Discovers competitor plugins for a plugin and writes a comparison report.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := args[0]
		if *competitorsMax <= 0 {
			return fmt.Errorf("invalid --max %d: must be a positive number", *competitorsMax)
		}
		if *competitorsDelay < 0 {
			return fmt.Errorf("invalid --delay %v: must not be negative", *competitorsDelay)
		}
		cmd.SilenceUsage = true

		ctx := cmd.Context()
		client := createClient()

		finder := competitors.NewFinder(client, slug, competitors.Options{
			MaxCompetitors: *competitorsMax,
			Delay:          time.Duration(*competitorsDelay * float64(time.Second)),
		})
		finder.Events.OnSearch = func(term string, found int) {
			slog.Info("searched directory", "term", term, "found", found)
		}
		finder.Events.OnCandidateAccepted = func(slug string, score int) {
			slog.Info("accepted competitor", "slug", slug, "score", score)
		}
		finder.Events.OnCandidateRejected = func(slug, reason string) {
			slog.Debug("rejected candidate", "slug", slug, "reason", reason)
		}

		result, err := finder.Find(ctx)
		if err != nil {
			return err
		}
		slog.Info("discovery finished", "competitors", result.TotalFound)

		store := datastore.NewStore(*reportsDir)
		path, err := store.SaveCompetitorReport(result)
		if err != nil {
			return err
		}
		slog.Info("competitor report saved", "path", path)
		return nil
	},
}
