package ecoaudit

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/x/term"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mwiater/ecoaudit/internal/audit"
	"github.com/mwiater/ecoaudit/internal/dashboard"
	"github.com/mwiater/ecoaudit/internal/intake"
	"github.com/mwiater/ecoaudit/internal/logging"
	"github.com/mwiater/ecoaudit/internal/render"
	"github.com/mwiater/ecoaudit/internal/tui"
	"github.com/mwiater/ecoaudit/internal/util"
)

type acquireOptions struct {
	epochs  string
	spinner bool
}

// presentOptions control what happens to a result once it is acquired.
type presentOptions struct {
	output string
	dump   bool
	fill   bool
	format string
	width  int
}

var presentFlags presentOptions

func addPresentFlags(c *cobra.Command) {
	c.Flags().StringVarP(&presentFlags.output, "output", "o", "", "write the dashboard to this file instead of stdout")
	c.Flags().BoolVar(&presentFlags.dump, "dump", false, "pretty-print the raw audit result to stderr")
	c.Flags().BoolVar(&presentFlags.fill, "fill-recommendations", false, "derive recommendations when the result has none")
}

// runAcquire selects path, acquires a result with acq and presents it.
func runAcquire(cmd *cobra.Command, acq intake.Acquirer, path string, opts acquireOptions) error {
	up, err := intake.FromPath(path)
	if err != nil {
		return err
	}

	cfg := getConfig()
	session := intake.NewSession(acq, cfg.Epochs())
	if opts.epochs != "" {
		session.SetEpochs(opts.epochs)
	}
	if err := session.Select(up); err != nil {
		return err
	}

	var res *audit.Result
	if opts.spinner {
		res, err = tui.RunWithSpinner(cmd.Context(), cmd.ErrOrStderr(), tui.DefaultLabel, session.Submit)
	} else {
		res, err = session.Submit(cmd.Context())
	}
	if err != nil {
		return err
	}

	popts := presentFlags
	popts.format = cfg.OutputFormat()
	popts.width = terminalWidth(cmd.OutOrStdout())
	return present(cmd.OutOrStdout(), cmd.ErrOrStderr(), res, popts)
}

// present validates, optionally enriches, and renders res.
func present(out, errOut io.Writer, res *audit.Result, opts presentOptions) error {
	format, err := render.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	if opts.fill {
		res = audit.WithRecommendations(res)
	}
	reportFindings(res)
	if res.EpochMismatch() {
		notifier.Warn("Epoch mismatch", fmt.Sprintf("experiment declares %d epochs but %d were measured",
			res.Experiment.Epochs, len(res.Metrics.EnergyPerEpoch)))
	}
	if opts.dump {
		pp.Fprintln(errOut, res)
	}

	view, err := dashboard.Build(res)
	if err != nil {
		return err
	}
	ropts := render.Options{Width: opts.width}

	if opts.output == "" {
		return render.Write(out, format, view, ropts)
	}
	var buf bytes.Buffer
	if err := render.Write(&buf, format, view, ropts); err != nil {
		return err
	}
	if err := util.WriteFile(opts.output, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	notifier.Success("Dashboard written", opts.output)
	return nil
}

// reportFindings logs advisory validation findings in a stable order.
func reportFindings(res *audit.Result) {
	err := res.Validate()
	if err == nil {
		return
	}
	var verr *audit.ValidationError
	if !errors.As(err, &verr) {
		logging.LogWarn("validate audit result: %v", err)
		return
	}
	fields := make([]string, 0, len(verr.Fields))
	for field := range verr.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		logging.LogWarn("audit result: %s", verr.Fields[field])
	}
}

// terminalWidth reports the width of out when it is a terminal.
func terminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok {
		return 0
	}
	w, _, err := term.GetSize(f.Fd())
	if err != nil {
		return 0
	}
	return w
}
