package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var summaryTag string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the shape of the indexed data",
	Long: `Load the index snapshot and print its current shape: event, station
and model counts, the iteration total, and the available mappings and
query operations.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		insp, err := loadInspector(summaryTag)
		if err != nil {
			return err
		}

		out, err := insp.Summary()
		if err != nil {
			return fmt.Errorf("building summary: %w", err)
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&summaryTag, "tag", "", "snapshot tag (default from config)")
}
