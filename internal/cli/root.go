// internal/cli/root.go
package ecoaudit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/ecoaudit/internal/appconfig"
	"github.com/mwiater/ecoaudit/internal/intake"
	"github.com/mwiater/ecoaudit/internal/logging"
	"github.com/mwiater/ecoaudit/internal/notify"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	notifier      = notify.New(os.Stderr)
)

var rootCmd = &cobra.Command{
	Use:           "ecoaudit",
	Short:         "ecoaudit: energy and carbon audits for ML datasets and models",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Flags are already bound to viper keys, so the merged result is
		// flags > environment > config file > defaults.
		cfg, err := appconfig.LoadInto(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}
		currentConfig = &cfg

		if err := logging.Init(cfg.LogFilePath(), cfg.Debug); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		if cfg.ConfigPath != "" {
			logging.LogEvent("loaded config from %s", cfg.ConfigPath)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Close()
	},
}

// Execute runs the root command and exits non-zero on failure. Interrupts
// cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		reportError(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: config/config.{yaml,json} when present)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("endpoint", appconfig.DefaultEndpoint, "audit service endpoint")
	rootCmd.PersistentFlags().String("logFile", "", "also write JSON logs to this file")
	rootCmd.PersistentFlags().StringP("format", "f", "terminal", "dashboard format: terminal, html, json or yaml")
	rootCmd.PersistentFlags().String("intakeMode", "", "intake mode for acquire and serve: remote or local")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("endpoint", rootCmd.PersistentFlags().Lookup("endpoint"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("intakeMode", rootCmd.PersistentFlags().Lookup("intakeMode"))
}

// getConfig returns the configuration loaded by PersistentPreRunE.
func getConfig() appconfig.Config {
	if currentConfig == nil {
		return appconfig.Config{}
	}
	return *currentConfig
}

// reportError prints err through the notifier, using the intake title and
// message when err is a classified intake failure.
func reportError(err error) {
	var ie *intake.Error
	if errors.As(err, &ie) {
		notifier.Error(ie.Title, ie.Message)
		return
	}
	notifier.Error("Error", err.Error())
}
