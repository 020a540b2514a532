// internal/dashboard/view.go
package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mwiater/ecoaudit/internal/audit"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrNoResult is returned by Build when there is nothing to display. Front
// ends answer it by sending the user back to the intake screen.
var ErrNoResult = errors.New("no audit result to display")

// Title is the dashboard heading.
const Title = "Energy Efficiency Dashboard"

// View is everything a renderer needs to draw the dashboard.
type View struct {
	Title           string           `json:"title" yaml:"title"`
	Header          Header           `json:"header" yaml:"header"`
	Summary         Summary          `json:"summary" yaml:"summary"`
	Info            *Info            `json:"info,omitempty" yaml:"info,omitempty"`
	Epochs          []Point          `json:"energy_per_epoch_uwh" yaml:"energy_per_epoch_uwh"`
	Cumulative      []Point          `json:"cumulative_energy_uwh" yaml:"cumulative_energy_uwh"`
	Power           Breakdown        `json:"power_w,omitempty" yaml:"power_w,omitempty"`
	Energy          Breakdown        `json:"energy_uwh,omitempty" yaml:"energy_uwh,omitempty"`
	Recommendations []Recommendation `json:"recommendations" yaml:"recommendations"`
	Snapshot        *Snapshot        `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`
	EpochMismatch   bool             `json:"epoch_mismatch,omitempty" yaml:"epoch_mismatch,omitempty"`
}

// Header is the line under the dashboard title.
type Header struct {
	Kind      string `json:"kind" yaml:"kind"`
	Model     string `json:"model" yaml:"model"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// Summary holds the four metric cards.
type Summary struct {
	TotalEnergy string `json:"total_energy" yaml:"total_energy"`
	Carbon      string `json:"carbon" yaml:"carbon"`
	Epochs      int    `json:"epochs" yaml:"epochs"`
	CPUCores    int    `json:"cpu_cores" yaml:"cpu_cores"`
}

// Info holds the dataset and system cards, shown only for dataset audits.
type Info struct {
	Samples  string `json:"samples" yaml:"samples"`
	Features string `json:"features" yaml:"features"`
	Platform string `json:"platform" yaml:"platform"`
	Python   string `json:"python" yaml:"python"`
}

// Recommendation is a numbered recommendation entry.
type Recommendation struct {
	Number int    `json:"number" yaml:"number"`
	Text   string `json:"text" yaml:"text"`
}

// Snapshot summarises the last emission sample.
type Snapshot struct {
	CPUModel     string `json:"cpu_model" yaml:"cpu_model"`
	Country      string `json:"country" yaml:"country"`
	RAMTotal     string `json:"ram_total" yaml:"ram_total"`
	RAMUsed      string `json:"ram_used" yaml:"ram_used"`
	Duration     string `json:"duration" yaml:"duration"`
	EmissionRate string `json:"emission_rate" yaml:"emission_rate"`
}

// Fields returns the snapshot as ordered label/value pairs.
func (s Snapshot) Fields() [][2]string {
	return [][2]string{
		{"CPU Model", s.CPUModel},
		{"Country", s.Country},
		{"RAM Total", s.RAMTotal},
		{"RAM Used", s.RAMUsed},
		{"Duration", s.Duration},
		{"Emission Rate", s.EmissionRate},
	}
}

var numberPrinter = message.NewPrinter(language.English)

// Build derives the dashboard view for r. It never modifies r.
func Build(r *audit.Result) (View, error) {
	if r == nil {
		return View{}, ErrNoResult
	}

	last := r.LastEmission()
	view := View{
		Title: Title,
		Header: Header{
			Kind:      experimentKind(r.Experiment.Type),
			Model:     r.Model.Name,
			Timestamp: FormatTimestamp(r.Experiment.Timestamp),
		},
		Summary: Summary{
			TotalEnergy: FormatWh(r.Metrics.TotalEnergyKWh),
			Carbon:      FormatCarbon(r.Metrics.TotalCarbonKg),
			Epochs:      r.Experiment.Epochs,
			CPUCores:    r.System.CPUCount,
		},
		Epochs:          EpochSeries(r.Metrics.EnergyPerEpoch),
		Cumulative:      CumulativeSeries(r.Metrics.EnergyPerEpoch),
		Power:           PowerBreakdown(last),
		Energy:          EnergyBreakdown(last),
		Recommendations: numbered(r.Recommendations),
		EpochMismatch:   r.EpochMismatch(),
	}

	if r.Dataset != nil {
		view.Info = &Info{
			Samples:  numberPrinter.Sprintf("%d", r.Dataset.Samples),
			Features: fmt.Sprintf("%d", r.Dataset.Features),
			Platform: ShortPlatform(r.System.Platform),
			Python:   r.System.PythonVersion,
		}
	}

	if last != nil {
		view.Snapshot = &Snapshot{
			CPUModel:     last.CPUModel,
			Country:      last.CountryName,
			RAMTotal:     fmt.Sprintf("%.1f GB", last.RAMTotalSize),
			RAMUsed:      formatNumber(last.RAMUtilizationPercent) + "%",
			Duration:     fmt.Sprintf("%.2fs", last.Duration),
			EmissionRate: fmt.Sprintf("%.2f µg/s", last.EmissionsRate*microScale),
		}
	}

	return view, nil
}

// ShortPlatform keeps the first two dash-delimited tokens of a platform
// string, joined by a space.
func ShortPlatform(platform string) string {
	tokens := strings.Split(platform, "-")
	if len(tokens) > 2 {
		tokens = tokens[:2]
	}
	return strings.Join(tokens, " ")
}

func experimentKind(kind string) string {
	if kind == audit.TypeDatasetTraining {
		return "Training"
	}
	return "Inference"
}

func numbered(recs []string) []Recommendation {
	out := make([]Recommendation, len(recs))
	for i, rec := range recs {
		out[i] = Recommendation{Number: i + 1, Text: rec}
	}
	return out
}
