package cmd

import (
	"fmt"

	"github.com/bch0w/misfitlens/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
	serveTag  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve read-only index statistics over HTTP",
	Long: `Load the index snapshot and serve its statistics as JSON:

  GET /api/summary       axis counts and step lists
  GET /api/events        per-event origin attributes
  GET /api/misfit        aggregate misfit per model/step
  GET /api/measurements  window counts or cumulative lengths
  GET /api/values        flat window measurements for one model/step`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		insp, err := loadInspector(serveTag)
		if err != nil {
			return err
		}

		srv := server.New(insp, server.Config{Port: servePort})
		fmt.Printf("Serving index statistics on http://localhost:%d\n", servePort)
		return srv.Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "port to serve on")
	serveCmd.Flags().StringVar(&serveTag, "tag", "", "snapshot tag (default from config)")
}
