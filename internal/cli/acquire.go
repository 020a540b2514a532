// internal/cli/acquire.go
package ecoaudit

import (
	"github.com/spf13/cobra"

	"github.com/mwiater/ecoaudit/internal/intake"
)

var (
	auditEpochs string
	noSpinner   bool
)

// auditCmd submits a dataset or model to the measurement service.
var auditCmd = &cobra.Command{
	Use:   "audit <file.csv|file.pkl>",
	Short: "Run an energy audit on a dataset or model and show the dashboard",
	Long: `Upload a .csv dataset or a .pkl model to the audit service, wait while CodeCarbon
measures the run, then render the energy efficiency dashboard.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		remote := intake.NewRemote(cfg.EndpointURL(), nil)
		return runAcquire(cmd, remote, args[0], acquireOptions{
			epochs:  epochsFlag(cmd),
			spinner: !noSpinner,
		})
	},
}

// importCmd loads a previously exported audit result.
var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Show the dashboard for an exported audit result",
	Long:  `Read an audit result saved as JSON and render the dashboard without contacting the audit service.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		local := intake.NewLocal(getConfig().MaxUploadBytes())
		return runAcquire(cmd, local, args[0], acquireOptions{})
	},
}

// acquireCmd uses whichever intake mode the configuration selects.
var acquireCmd = &cobra.Command{
	Use:   "acquire <file>",
	Short: "Acquire an audit result with the configured intake mode",
	Long:  `Use intakeMode from the configuration (remote or local) to obtain an audit result and render the dashboard.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		acq, err := intake.New(getConfig())
		if err != nil {
			return err
		}
		return runAcquire(cmd, acq, args[0], acquireOptions{
			epochs:  epochsFlag(cmd),
			spinner: !noSpinner && acq.Name() == "remote",
		})
	},
}

// epochsFlag returns the raw --epochs value, or "" when it was not given.
func epochsFlag(cmd *cobra.Command) string {
	if !cmd.Flags().Changed("epochs") {
		return ""
	}
	return auditEpochs
}

func init() {
	for _, c := range []*cobra.Command{auditCmd, acquireCmd} {
		c.Flags().StringVarP(&auditEpochs, "epochs", "e", "", "number of epochs to measure (1-100, default from config)")
		c.Flags().BoolVar(&noSpinner, "no-spinner", false, "do not show the progress spinner")
	}
	for _, c := range []*cobra.Command{auditCmd, importCmd, acquireCmd} {
		addPresentFlags(c)
		rootCmd.AddCommand(c)
	}
}
