// internal/audit/types.go
// Package audit defines the energy audit result contract exchanged with the
// measurement service and the checks applied to it.
package audit

// Experiment types reported by the measurement service.
const (
	TypeDatasetTraining = "dataset_training"
	TypeInference       = "inference"
)

// Result is a single audit run as produced by the measurement service or
// loaded from an exported JSON file. Dataset and RawEmissionsPreview are
// optional and stay nil when absent.
type Result struct {
	Experiment          Experiment    `json:"experiment" yaml:"experiment"`
	Metrics             Metrics       `json:"metrics" yaml:"metrics"`
	Dataset             *Dataset      `json:"dataset,omitempty" yaml:"dataset,omitempty" validate:"omitempty"`
	Model               Model         `json:"model" yaml:"model"`
	System              System        `json:"system" yaml:"system"`
	Recommendations     []string      `json:"recommendations" yaml:"recommendations"`
	RawEmissionsPreview []RawEmission `json:"raw_emissions_preview,omitempty" yaml:"raw_emissions_preview,omitempty" validate:"omitempty,dive"`
}

// Experiment describes what was measured.
type Experiment struct {
	Type      string `json:"type" yaml:"type" validate:"oneof=dataset_training inference"`
	Epochs    int    `json:"epochs" yaml:"epochs" validate:"gte=1"`
	Timestamp string `json:"timestamp" yaml:"timestamp" validate:"omitempty,audit_timestamp"`
}

// Metrics holds run totals. EnergyPerEpoch has one entry per epoch in kWh.
type Metrics struct {
	TotalEnergyKWh float64   `json:"total_energy_kwh" yaml:"total_energy_kwh" validate:"gte=0"`
	TotalCarbonKg  float64   `json:"total_carbon_kg" yaml:"total_carbon_kg" validate:"gte=0"`
	EnergyPerEpoch []float64 `json:"energy_per_epoch" yaml:"energy_per_epoch" validate:"dive,gte=0"`
}

// Dataset is present only when the audited artifact was tabular data.
type Dataset struct {
	Samples  int `json:"samples" yaml:"samples" validate:"gte=0"`
	Features int `json:"features" yaml:"features" validate:"gte=0"`
}

// Model names the estimator that was trained or evaluated.
type Model struct {
	Name string `json:"name" yaml:"name"`
}

// System describes the host the measurement ran on.
type System struct {
	Platform      string `json:"platform" yaml:"platform"`
	PythonVersion string `json:"python_version" yaml:"python_version"`
	CPUCount      int    `json:"cpu_count" yaml:"cpu_count" validate:"gte=0"`
}

// RawEmission is one measurement tick. Power is in watts, energy in kWh,
// emissions in kg and kg/s.
type RawEmission struct {
	Timestamp             string  `json:"timestamp" yaml:"timestamp"`
	Duration              float64 `json:"duration" yaml:"duration" validate:"gte=0"`
	Emissions             float64 `json:"emissions" yaml:"emissions"`
	EmissionsRate         float64 `json:"emissions_rate" yaml:"emissions_rate"`
	CPUPower              float64 `json:"cpu_power" yaml:"cpu_power"`
	GPUPower              float64 `json:"gpu_power" yaml:"gpu_power"`
	RAMPower              float64 `json:"ram_power" yaml:"ram_power"`
	CPUEnergy             float64 `json:"cpu_energy" yaml:"cpu_energy"`
	GPUEnergy             float64 `json:"gpu_energy" yaml:"gpu_energy"`
	RAMEnergy             float64 `json:"ram_energy" yaml:"ram_energy"`
	EnergyConsumed        float64 `json:"energy_consumed" yaml:"energy_consumed"`
	CountryName           string  `json:"country_name" yaml:"country_name"`
	CPUModel              string  `json:"cpu_model" yaml:"cpu_model"`
	RAMTotalSize          float64 `json:"ram_total_size" yaml:"ram_total_size"`
	CPUCount              int     `json:"cpu_count" yaml:"cpu_count"`
	RAMUtilizationPercent float64 `json:"ram_utilization_percent" yaml:"ram_utilization_percent"`
}

// LastEmission returns the final preview sample, or nil when there is none.
func (r *Result) LastEmission() *RawEmission {
	if r == nil || len(r.RawEmissionsPreview) == 0 {
		return nil
	}
	return &r.RawEmissionsPreview[len(r.RawEmissionsPreview)-1]
}

// EpochMismatch reports whether the declared epoch count disagrees with the
// number of per-epoch energy samples.
func (r *Result) EpochMismatch() bool {
	if r == nil {
		return false
	}
	return r.Experiment.Epochs != len(r.Metrics.EnergyPerEpoch)
}
