package ecoaudit

import (
	"fmt"
	"io"

	"github.com/mwiater/ecoaudit/internal/appconfig"
)

func runShowConfig(w io.Writer, cfg appconfig.Config) {
	if cfg.ConfigPath == "" {
		fmt.Fprintln(w, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(w, "Config file: %s\n\n", cfg.ConfigPath)
	}

	logFile := cfg.LogFilePath()
	if logFile == "" {
		logFile = "(stderr only)"
	}

	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintf(w, "  Endpoint:        %s\n", cfg.EndpointURL())
	fmt.Fprintf(w, "  Intake Mode:     %s\n", cfg.IntakeModeName())
	fmt.Fprintf(w, "  Default Epochs:  %d\n", cfg.Epochs())
	fmt.Fprintf(w, "  Output Format:   %s\n", cfg.OutputFormat())
	fmt.Fprintf(w, "  Listen:          %s\n", cfg.ListenAddr())
	fmt.Fprintf(w, "  Max Upload:      %d MB\n", cfg.MaxUploadBytes()>>20)
	fmt.Fprintf(w, "  Log File:        %s\n", logFile)
	fmt.Fprintf(w, "  Debug:           %v\n", cfg.Debug)
}
