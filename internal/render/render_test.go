// internal/render/render_test.go
package render

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/mwiater/ecoaudit/internal/audit"
	"github.com/mwiater/ecoaudit/internal/dashboard"
)

func sampleView(t *testing.T) dashboard.View {
	t.Helper()
	res := &audit.Result{
		Experiment: audit.Experiment{Type: audit.TypeDatasetTraining, Epochs: 2, Timestamp: "20240115_143022"},
		Metrics:    audit.Metrics{TotalEnergyKWh: 0.00123, TotalCarbonKg: 0.0004, EnergyPerEpoch: []float64{0.000002, 0.000003}},
		Dataset:    &audit.Dataset{Samples: 1500, Features: 12},
		Model:      audit.Model{Name: "RandomForest"},
		System:     audit.System{Platform: "Linux-6.1.0-x86_64", PythonVersion: "3.11.4", CPUCount: 8},
		Recommendations: []string{
			"Energy consumption is very low.",
			"Use early stopping.",
		},
		RawEmissionsPreview: []audit.RawEmission{{
			Duration: 2.25, CPUPower: 42.5, GPUPower: 0, RAMPower: 3.2,
			CPUEnergy: 0.000001, GPUEnergy: 0, RAMEnergy: 0.0000005,
			CountryName: "Germany", CPUModel: "AMD Ryzen", RAMTotalSize: 15.6, RAMUtilizationPercent: 45.2,
		}},
	}
	v, err := dashboard.Build(res)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	return v
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":         FormatTerminal,
		"terminal": FormatTerminal,
		"HTML":     FormatHTML,
		" json ":   FormatJSON,
		"yaml":     FormatYAML,
		"yml":      FormatYAML,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestTerminal(t *testing.T) {
	out := Terminal(sampleView(t), 120)
	for _, want := range []string{
		"Energy Efficiency Dashboard",
		"Training Audit · Model RandomForest · 15/01/2024 14:30:22",
		"Total Energy", "1.2300 Wh",
		"Carbon Emitted", "0.4000 g CO₂",
		"Samples", "1,500",
		headingEpochs, "Epoch 1", "Epoch 2",
		headingCumulative, "E2", "5.00",
		headingPower, "42.5W", "3.2W",
		headingEnergy, "1.00 µWh",
		"1. Energy consumption is very low.",
		"2. Use early stopping.",
		headingSnapshot, "AMD Ryzen", "45.2%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("terminal output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "0W") {
		t.Errorf("expected zero GPU power to be hidden\n%s", out)
	}
}

func TestTerminalWithoutOptionalSections(t *testing.T) {
	v := sampleView(t)
	v.Info, v.Snapshot, v.Power, v.Energy = nil, nil, nil, nil
	v.Recommendations = nil
	out := Terminal(v, 0)
	for _, unwanted := range []string{"Samples", headingPower, headingEnergy, headingSnapshot} {
		if strings.Contains(out, unwanted) {
			t.Errorf("did not expect %q in output", unwanted)
		}
	}
	if !strings.Contains(out, "No recommendations.") {
		t.Errorf("expected empty recommendations note\n%s", out)
	}
}

func TestTerminalEpochMismatch(t *testing.T) {
	v := sampleView(t)
	v.Summary.Epochs = 3
	v.EpochMismatch = true
	out := Terminal(v, 100)
	if !strings.Contains(out, "declares 3 epochs but 2 were measured") {
		t.Fatalf("expected mismatch note\n%s", out)
	}
}

func TestHTML(t *testing.T) {
	v := sampleView(t)
	v.Header.Model = "<script>alert(1)</script>"
	page, err := HTML(v, Options{BackURL: "/"})
	if err != nil {
		t.Fatalf("HTML returned error: %v", err)
	}
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<svg",
		"<polyline",
		"Load another file",
		"Use early stopping.",
		"&lt;script&gt;",
		dashboard.ColorCPU,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(page, "<script>alert(1)</script>") {
		t.Error("model name was not escaped")
	}

	page, err = HTML(v, Options{})
	if err != nil {
		t.Fatalf("HTML returned error: %v", err)
	}
	if strings.Contains(page, "Load another file") {
		t.Error("did not expect a back link without BackURL")
	}
}

func TestWriteJSONAndYAML(t *testing.T) {
	v := sampleView(t)

	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, v, Options{}); err != nil {
		t.Fatalf("Write json: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if _, ok := decoded["energy_per_epoch_uwh"]; !ok {
		t.Fatalf("expected energy_per_epoch_uwh key, got %v", decoded)
	}

	buf.Reset()
	if err := Write(&buf, FormatYAML, v, Options{}); err != nil {
		t.Fatalf("Write yaml: %v", err)
	}
	if !strings.Contains(buf.String(), "title: Energy Efficiency Dashboard") {
		t.Fatalf("unexpected yaml:\n%s", buf.String())
	}

	if err := Write(&buf, Format("pdf"), v, Options{}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestScaled(t *testing.T) {
	if got := scaled(0, 10, 50); got != 0 {
		t.Errorf("scaled zero = %d", got)
	}
	if got := scaled(10, 10, 50); got != 50 {
		t.Errorf("scaled max = %d", got)
	}
	if got := scaled(0.001, 10, 50); got != 1 {
		t.Errorf("expected tiny positive value to get one cell, got %d", got)
	}
}

func TestDonutSkipsNonPositiveSlices(t *testing.T) {
	d := newDonut(dashboard.Breakdown{
		{Name: "CPU", Value: 30, Color: dashboard.ColorCPU},
		{Name: "GPU", Value: 0, Color: dashboard.ColorGPU},
		{Name: "RAM", Value: 10, Color: dashboard.ColorRAM},
	}, "W")
	if len(d.Slices) != 2 {
		t.Fatalf("expected 2 slices, got %d", len(d.Slices))
	}
	circumference := 2 * math.Pi * donutRadius
	if sum := d.Slices[0].Dash + d.Slices[1].Dash; math.Abs(sum-circumference) > 1e-9 {
		t.Fatalf("slices should cover the circle, got %f of %f", sum, circumference)
	}
	if d.Legend[0] != "CPU: 30W" {
		t.Fatalf("unexpected legend %q", d.Legend[0])
	}
	if empty := newDonut(nil, "W"); !empty.Empty {
		t.Fatal("expected empty donut")
	}
}
