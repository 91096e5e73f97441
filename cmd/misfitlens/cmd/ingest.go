package cmd

import (
	"fmt"
	"time"

	"github.com/bch0w/misfitlens/internal/inspector"
	"github.com/spf13/cobra"
)

var ingestTag string

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest per-event containers and write an index snapshot",
	Long: `Read every per-event measurement container under the given path
(defaults to datasets.path from the config), append each to the index,
and save the result as a snapshot for the other commands to load.

Broken containers are reported and skipped; ingestion continues with
the remaining sources.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		path := cfg.Datasets.Path
		if len(args) > 0 {
			path = args[0]
		}
		tag := cfg.Snapshot.Tag
		if ingestTag != "" {
			tag = ingestTag
		}

		fmt.Printf("Ingesting containers from: %s\n", path)
		start := time.Now()

		insp := inspector.New(cfg.UTMZone)
		appended, err := insp.IngestDir(path, cfg.Datasets.Glob,
			cfg.Extract.Windows, cfg.Extract.Srcrcv, cfg.Extract.Misfits)
		if err != nil {
			return fmt.Errorf("ingestion failed: %w", err)
		}

		if err := insp.Save(tag, cfg.Snapshot.Dir); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}

		ax, err := insp.Axes()
		if err != nil {
			return fmt.Errorf("deriving axes: %w", err)
		}

		fmt.Println()
		fmt.Printf("Ingestion complete!\n")
		fmt.Printf("  Sources:  %d\n", appended)
		fmt.Printf("  Events:   %d\n", len(ax.Events))
		fmt.Printf("  Stations: %d\n", len(ax.Stations))
		fmt.Printf("  Models:   %d\n", len(ax.Models))
		fmt.Printf("  Duration: %s\n", time.Since(start).Round(time.Millisecond))
		fmt.Printf("  Snapshot: %s/%s.json\n", cfg.Snapshot.Dir, tag)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVar(&ingestTag, "tag", "", "snapshot tag (default from config)")
}
