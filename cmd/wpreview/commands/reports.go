package commands

import (
	"fmt"

	"github.com/Summix-io/wp-plugin-review/services/datastore"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportsCmd)
}

var reportsCmd = &cobra.Command{
	Use:   "reports <plugin-slug>",
	Short: "Lists the report dates recorded for a plugin.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := datastore.NewStore(*reportsDir)
		dates := store.ListReports(args[0])
		if len(dates) == 0 {
			fmt.Printf("no reports for %s\n", args[0])
			return nil
		}
		for _, date := range dates {
			fmt.Println(date)
		}
		return nil
	},
}
