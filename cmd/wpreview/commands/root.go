package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/Summix-io/wp-plugin-review/lib/configutil"

	"github.com/spf13/cobra"
)

// Config carries optional defaults read from wpreview.json5 next to the
// binary. Flags always win over the file.
type Config struct {
	ReportsDir string `json:"reportsDir"`
}

var rootCmd = &cobra.Command{
	Use:   "wpreview",
	Short: "wpreview scrapes wordpress.org plugin reviews and finds competitor plugins.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("reports") {
			return
		}
		cfg, err := configutil.ReadConfig[Config]("wpreview.json5")
		if err != nil {
			return
		}
		if cfg.ReportsDir != "" {
			*reportsDir = cfg.ReportsDir
		}
	},
}

var reportsDir *string

func init() {
	reportsDir = rootCmd.PersistentFlags().String("reports", "reports", "The directory reports are written under.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
