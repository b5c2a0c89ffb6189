package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Summix-io/wp-plugin-review/lib/restyutil"
	"github.com/Summix-io/wp-plugin-review/lib/scrapers/wporg"
	"github.com/Summix-io/wp-plugin-review/lib/util/serviceutil"
	"github.com/Summix-io/wp-plugin-review/services/datastore"
	"github.com/Summix-io/wp-plugin-review/services/reviews"

	"github.com/spf13/cobra"
)

var (
	reviewsMonths   *int
	reviewsMaxPages *int
	reviewsDelay    *float64
	reviewsCsv      *bool
)

func init() {
	reviewsMonths = reviewsCmd.Flags().Int("months", 12, "How many months back reviews are considered in range.")
	reviewsMaxPages = reviewsCmd.Flags().Int("max-pages", 10, "The most listing pages fetched in one run.")
	reviewsDelay = reviewsCmd.Flags().Float64("delay", 1, "Seconds waited between page fetches.")
	reviewsCsv = reviewsCmd.Flags().Bool("csv", false, "Also export the dataset as reviews.csv.")
	rootCmd.AddCommand(reviewsCmd)
}

func createClient() *wporg.Client {
	client, err := wporg.NewClient(wporg.ClientOptions{})
	if err != nil {
		serviceutil.Fatal("failed to initialize wordpress.org client", err)
	}
	wporg.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(".dev/resty/wpreview"))
	return client
}

var reviewsCmd = &cobra.Command{
	Use:   "reviews <plugin-slug>",
	Short: "Fetches recent reviews for a plugin, analyzes them and writes a report.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := args[0]
		if *reviewsMonths <= 0 {
			return fmt.Errorf("invalid --months %d: must be a positive number", *reviewsMonths)
		}
		if *reviewsMaxPages <= 0 {
			return fmt.Errorf("invalid --max-pages %d: must be a positive number", *reviewsMaxPages)
		}
		if *reviewsDelay < 0 {
			return fmt.Errorf("invalid --delay %v: must not be negative", *reviewsDelay)
		}
		cmd.SilenceUsage = true

		ctx := cmd.Context()
		client := createClient()

		session := reviews.NewSession(client, slug, reviews.Options{
			MonthsBack: *reviewsMonths,
			MaxPages:   *reviewsMaxPages,
			Delay:      time.Duration(*reviewsDelay * float64(time.Second)),
		})
		session.Events.OnPageFetched = func(page, records int) {
			slog.Info("fetched page", "page", page, "reviews", records)
		}
		session.Events.OnStop = func(reason reviews.StopReason, page int) {
			slog.Info("pagination stopped", "reason", reason, "page", page)
		}

		data, fetchErr := session.FetchAll(ctx)
		data.Reviews = reviews.Deduplicate(data.Reviews)
		data.InRange = len(data.Reviews)

		store := datastore.NewStore(*reportsDir)
		if len(data.Reviews) > 0 {
			path, err := store.SaveDataset(data)
			if err != nil {
				return err
			}
			slog.Info("dataset saved", "path", path)

			path, err = store.SaveReviewReport(slug, reviews.MarkdownReport(data))
			if err != nil {
				return err
			}
			slog.Info("report saved", "path", path)

			if *reviewsCsv {
				path, err = store.SaveCSV(data)
				if err != nil {
					return err
				}
				slog.Info("csv saved", "path", path)
			}

			reviews.PrintAnalysis(data)
		}

		if fetchErr != nil {
			// anything fetched before the failure is already on disk
			return fmt.Errorf("fetch incomplete: %w", fetchErr)
		}
		return nil
	},
}
