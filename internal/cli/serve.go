// internal/cli/serve.go
package ecoaudit

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/ecoaudit/internal/intake"
	"github.com/mwiater/ecoaudit/internal/logging"
	"github.com/mwiater/ecoaudit/internal/server"
)

// serveCmd starts the local web UI.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web UI",
	Long: `Serve the upload form and dashboard in a browser. Uploads go through the configured
intake mode: remote audits are forwarded to the audit service, local mode imports exported JSON.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		acq, err := intake.New(cfg)
		if err != nil {
			return err
		}
		notifier.Info("Web UI", "http://"+cfg.ListenAddr())
		return server.New(cfg, acq, logging.L()).ListenAndServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "address for the web UI (default 127.0.0.1:8080)")
	_ = viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
	rootCmd.AddCommand(serveCmd)
}
