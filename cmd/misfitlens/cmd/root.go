package cmd

import (
	"fmt"

	"github.com/bch0w/misfitlens/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "misfitlens",
	Short: "MisfitLens - Inspect misfit statistics of a waveform inversion",
	Long: `MisfitLens gathers the misfit measurements written by a full-waveform
inversion workflow (per-event containers of misfits, windows and
source-receiver coordinates) into a multi-axis index.

It helps answer "How is the inversion doing?" by aggregating misfit,
window and coordinate information across events, models and line-search
steps.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./misfitlens.yaml)")
}

func GetConfig() *config.Config {
	return cfg
}
