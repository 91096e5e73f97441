package cmd

import (
	"fmt"

	"github.com/bch0w/misfitlens/internal/store"
	"github.com/spf13/cobra"
)

var (
	exportTag string
	exportDir string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the index snapshot to SQLite for ad-hoc queries",
	Long: `Load the index snapshot and write its records into a SQLite database
at .misfitlens/index.db, one table per record family (events, stations,
paths, misfits, windows). Useful for ad-hoc SQL over large inversions.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		insp, err := loadInspector(exportTag)
		if err != nil {
			return err
		}

		st, err := store.Open(exportDir)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer st.Close()

		if err := st.ExportInspector(insp); err != nil {
			return fmt.Errorf("exporting: %w", err)
		}
		if err := st.WriteIndexJSON(); err != nil {
			return fmt.Errorf("writing index.json: %w", err)
		}

		stats, err := st.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Export complete!\n")
		fmt.Printf("  Events:   %d\n", stats.EventCount)
		fmt.Printf("  Stations: %d\n", stats.StationCount)
		fmt.Printf("  Misfits:  %d\n", stats.MisfitCount)
		fmt.Printf("  Windows:  %d\n", stats.WindowCount)
		fmt.Printf("  Database: %s\n", st.DBPath())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportTag, "tag", "", "snapshot tag (default from config)")
	exportCmd.Flags().StringVar(&exportDir, "dir", ".", "directory to place .misfitlens/index.db under")
}
