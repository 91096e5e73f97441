package cmd

import (
	"fmt"
	"time"

	"github.com/bch0w/misfitlens/internal/config"
	"github.com/bch0w/misfitlens/internal/inspector"
	"github.com/spf13/cobra"
)

var (
	excludeTag    string
	excludeOut    string
	excludeCoords []float64
	excludeDepth  []float64 // min, max in km
	excludeMag    []float64 // min, max
	excludeStart  string
	excludeEnd    string
)

var excludeCmd = &cobra.Command{
	Use:   "exclude",
	Short: "Remove events outside the given bounds from a snapshot",
	Long: `Load the index snapshot, remove every event failing the supplied
criteria (bounding box, depth range, magnitude range, time range) along
with all of its misfit and window records, and save the result.

Without flags, the exclude block of the config file is applied. The
removal is destructive: by default the snapshot is overwritten, use
--out to keep the original.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		filter, err := filterFromFlags(cmd, cfg)
		if err != nil {
			return err
		}

		insp, err := loadInspector(excludeTag)
		if err != nil {
			return err
		}

		removed, err := insp.ExcludeEvents(*filter)
		if err != nil {
			return fmt.Errorf("excluding events: %w", err)
		}

		out := excludeOut
		if out == "" {
			out = excludeTag
		}
		if out == "" {
			out = cfg.Snapshot.Tag
		}
		if err := insp.Save(out, cfg.Snapshot.Dir); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}

		fmt.Printf("Removed %d events, wrote %s/%s.json\n",
			removed, cfg.Snapshot.Dir, out)
		return nil
	},
}

// filterFromFlags builds the exclusion filter from command-line flags,
// falling back to the config's exclude block when no filter flag was set.
func filterFromFlags(cmd *cobra.Command, cfg *config.Config) (*inspector.Filter, error) {
	flagged := false
	for _, name := range []string{"coords", "depth-km", "mag", "start", "end"} {
		if cmd.Flags().Changed(name) {
			flagged = true
			break
		}
	}
	if !flagged {
		if cfg.Exclude == nil {
			return nil, fmt.Errorf("no filter flags given and no exclude block in config")
		}
		return filterFromConfig(cfg.Exclude)
	}

	f := &inspector.Filter{}
	if cmd.Flags().Changed("coords") {
		f.Coords = excludeCoords
	}
	if cmd.Flags().Changed("depth-km") {
		if len(excludeDepth) != 2 {
			return nil, fmt.Errorf("--depth-km wants min,max, got %d values", len(excludeDepth))
		}
		f.DepthMinKM = &excludeDepth[0]
		f.DepthMaxKM = &excludeDepth[1]
	}
	if cmd.Flags().Changed("mag") {
		if len(excludeMag) != 2 {
			return nil, fmt.Errorf("--mag wants min,max, got %d values", len(excludeMag))
		}
		f.MagMin = &excludeMag[0]
		f.MagMax = &excludeMag[1]
	}
	if excludeStart != "" {
		t, err := time.Parse(time.RFC3339, excludeStart)
		if err != nil {
			return nil, fmt.Errorf("parsing --start: %w", err)
		}
		f.Starttime = &t
	}
	if excludeEnd != "" {
		t, err := time.Parse(time.RFC3339, excludeEnd)
		if err != nil {
			return nil, fmt.Errorf("parsing --end: %w", err)
		}
		f.Endtime = &t
	}
	return f, nil
}

// filterFromConfig converts the config's exclude block into a filter.
func filterFromConfig(ex *config.ExcludeConfig) (*inspector.Filter, error) {
	f := &inspector.Filter{
		Coords:     ex.Coords,
		DepthMinKM: ex.DepthMinKM,
		DepthMaxKM: ex.DepthMaxKM,
		MagMin:     ex.MagMin,
		MagMax:     ex.MagMax,
	}
	if ex.Starttime != "" {
		t, err := time.Parse(time.RFC3339, ex.Starttime)
		if err != nil {
			return nil, fmt.Errorf("parsing exclude.starttime: %w", err)
		}
		f.Starttime = &t
	}
	if ex.Endtime != "" {
		t, err := time.Parse(time.RFC3339, ex.Endtime)
		if err != nil {
			return nil, fmt.Errorf("parsing exclude.endtime: %w", err)
		}
		f.Endtime = &t
	}
	return f, nil
}

func init() {
	rootCmd.AddCommand(excludeCmd)
	excludeCmd.Flags().StringVar(&excludeTag, "tag", "", "snapshot tag (default from config)")
	excludeCmd.Flags().StringVar(&excludeOut, "out", "", "tag to save the filtered snapshot under (default overwrites)")
	excludeCmd.Flags().Float64SliceVar(&excludeCoords, "coords", nil, "bounding box latMin,latMax,lonMin,lonMax")
	excludeCmd.Flags().Float64SliceVar(&excludeDepth, "depth-km", nil, "depth range min,max in kilometers")
	excludeCmd.Flags().Float64SliceVar(&excludeMag, "mag", nil, "magnitude range min,max")
	excludeCmd.Flags().StringVar(&excludeStart, "start", "", "minimum origin time (RFC 3339)")
	excludeCmd.Flags().StringVar(&excludeEnd, "end", "", "maximum origin time (RFC 3339)")
}
