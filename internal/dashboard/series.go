// internal/dashboard/series.go
// Package dashboard derives the chart series and summary cards displayed for
// an audit result. Every function here is pure.
package dashboard

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/mwiater/ecoaudit/internal/audit"
)

// microScale converts kWh (or kg) to µWh (or µg) for display.
const microScale = 1e6

// Point is one labelled value of a chart series.
type Point struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

// Slice is one component of a breakdown chart.
type Slice struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
	Color string  `json:"color" yaml:"color"`
}

// Breakdown is the CPU/GPU/RAM split of the last emission sample.
type Breakdown []Slice

// Visible returns the slices that are drawn: entries with a value <= 0 are
// kept in the data but not shown.
func (b Breakdown) Visible() Breakdown {
	var out Breakdown
	for _, s := range b {
		if s.Value > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Max returns the largest slice value, or 0 for an empty breakdown.
func (b Breakdown) Max() float64 {
	var m float64
	for _, s := range b {
		if s.Value > m {
			m = s.Value
		}
	}
	return m
}

// Component colours shared by the power and energy charts.
const (
	ColorCPU = "hsl(350, 80%, 55%)"
	ColorGPU = "hsl(35, 90%, 55%)"
	ColorRAM = "hsl(190, 80%, 50%)"
)

// EpochSeries maps per-epoch energy in kWh to µWh points labelled "Epoch N".
func EpochSeries(perEpoch []float64) []Point {
	points := make([]Point, len(perEpoch))
	for i, v := range perEpoch {
		points[i] = Point{Label: fmt.Sprintf("Epoch %d", i+1), Value: v * microScale}
	}
	return points
}

// CumulativeSeries is the running total of per-epoch energy in µWh,
// labelled "EN". The last value is the sum of all epochs.
func CumulativeSeries(perEpoch []float64) []Point {
	points := make([]Point, len(perEpoch))
	var sum float64
	for i, v := range perEpoch {
		sum += v
		points[i] = Point{Label: fmt.Sprintf("E%d", i+1), Value: sum * microScale}
	}
	return points
}

// PowerBreakdown returns CPU/GPU/RAM power draw in watts for a sample.
func PowerBreakdown(e *audit.RawEmission) Breakdown {
	if e == nil {
		return nil
	}
	return Breakdown{
		{Name: "CPU", Value: e.CPUPower, Color: ColorCPU},
		{Name: "GPU", Value: e.GPUPower, Color: ColorGPU},
		{Name: "RAM", Value: e.RAMPower, Color: ColorRAM},
	}
}

// EnergyBreakdown returns CPU/GPU/RAM energy in µWh for a sample.
func EnergyBreakdown(e *audit.RawEmission) Breakdown {
	if e == nil {
		return nil
	}
	return Breakdown{
		{Name: "CPU", Value: e.CPUEnergy * microScale, Color: ColorCPU},
		{Name: "GPU", Value: e.GPUEnergy * microScale, Color: ColorGPU},
		{Name: "RAM", Value: e.RAMEnergy * microScale, Color: ColorRAM},
	}
}

var timestampRe = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})_(\d{2})(\d{2})(\d{2})$`)

// FormatTimestamp renders YYYYMMDD_HHMMSS as DD/MM/YYYY HH:MM:SS. Anything
// else is returned unchanged.
func FormatTimestamp(ts string) string {
	m := timestampRe.FindStringSubmatch(ts)
	if m == nil {
		return ts
	}
	return fmt.Sprintf("%s/%s/%s %s:%s:%s", m[3], m[2], m[1], m[4], m[5], m[6])
}

// FormatWh renders kWh as watt-hours with four decimals.
func FormatWh(kwh float64) string {
	return fmt.Sprintf("%.4f Wh", kwh*1000)
}

// FormatCarbon renders kg as grams of CO₂ with four decimals.
func FormatCarbon(kg float64) string {
	return fmt.Sprintf("%.4f g CO₂", kg*1000)
}

// formatNumber prints a float the shortest way that round-trips.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
