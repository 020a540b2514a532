// internal/render/render.go
// Package render turns a dashboard view into terminal, HTML, JSON or YAML
// output.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mwiater/ecoaudit/internal/dashboard"
)

// Format names an output encoding.
type Format string

const (
	FormatTerminal Format = "terminal"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Section headings shared by the terminal and HTML renderers.
const (
	headingEpochs          = "Energy Per Epoch (µWh)"
	headingCumulative      = "Cumulative Energy (µWh)"
	headingPower           = "Power Draw (W)"
	headingEnergy          = "Energy by Component (µWh) · Last Epoch"
	headingRecommendations = "Recommendations"
	headingSnapshot        = "System Snapshot (Last Epoch)"
)

// Options tune individual renderers. Zero values are fine.
type Options struct {
	// Width is the terminal width in cells.
	Width int
	// BackURL, when set, adds a "Load another file" link to HTML output.
	BackURL string
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTerminal, FormatHTML, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTerminal, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want terminal, html, json or yaml)", s)
	}
}

// Write renders v in format f to w.
func Write(w io.Writer, f Format, v dashboard.View, opts Options) error {
	var (
		out []byte
		err error
	)
	switch f {
	case FormatTerminal, "":
		out = []byte(Terminal(v, opts.Width) + "\n")
	case FormatHTML:
		var page string
		page, err = HTML(v, opts)
		out = []byte(page)
	case FormatJSON:
		out, err = JSON(v)
	case FormatYAML:
		out, err = YAML(v)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", f, err)
	}
	_, err = w.Write(out)
	return err
}

// mismatchNote explains a declared/measured epoch disagreement.
func mismatchNote(v dashboard.View) string {
	return fmt.Sprintf("Experiment declares %d epochs but %d were measured.", v.Summary.Epochs, len(v.Epochs))
}

func summaryCards(v dashboard.View) [][2]string {
	return [][2]string{
		{"Total Energy", v.Summary.TotalEnergy},
		{"Carbon Emitted", v.Summary.Carbon},
		{"Epochs", strconv.Itoa(v.Summary.Epochs)},
		{"CPU Cores", strconv.Itoa(v.Summary.CPUCores)},
	}
}

func infoCards(info *dashboard.Info) [][2]string {
	if info == nil {
		return nil
	}
	return [][2]string{
		{"Samples", info.Samples},
		{"Features", info.Features},
		{"Platform", info.Platform},
		{"Python", info.Python},
	}
}

func headerLine(v dashboard.View) string {
	return fmt.Sprintf("%s Audit · Model %s · %s", v.Header.Kind, v.Header.Model, v.Header.Timestamp)
}
