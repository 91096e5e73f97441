package cmd

import (
	"fmt"
	"sort"

	"github.com/bch0w/misfitlens/internal/inspector"
	"github.com/spf13/cobra"
)

var statsTag string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregate misfit and window measurements per model/step",
	Long: `Load the index snapshot and print, for every (model, step) pair:
the aggregate misfit (per-event totals divided by the number of events),
the number of misfit windows, and the cumulative window length in seconds.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		insp, err := loadInspector(statsTag)
		if err != nil {
			return err
		}

		misfit, err := insp.SumMisfits()
		if err != nil {
			return fmt.Errorf("summing misfits: %w", err)
		}
		nwin, err := insp.Measurements(inspector.MeasurementNumWindows)
		if err != nil {
			return fmt.Errorf("counting windows: %w", err)
		}
		winLen, err := insp.Measurements(inspector.MeasurementCumWinLen)
		if err != nil {
			return fmt.Errorf("summing window lengths: %w", err)
		}

		fmt.Printf("%-8s %-8s %12s %10s %14s\n",
			"model", "step", "misfit", "windows", "win length (s)")
		models := make([]string, 0, len(misfit))
		for model := range misfit {
			models = append(models, model)
		}
		sort.Strings(models)
		for _, model := range models {
			steps := make([]string, 0, len(misfit[model]))
			for step := range misfit[model] {
				steps = append(steps, step)
			}
			sort.Strings(steps)
			for _, step := range steps {
				fmt.Printf("%-8s %-8s %12.4f %10.0f %14.1f\n",
					model, step, misfit[model][step],
					nwin[model][step], winLen[model][step])
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsTag, "tag", "", "snapshot tag (default from config)")
}
