// internal/audit/recommend.go
package audit

// Facts are the run characteristics the recommendation rules look at.
type Facts struct {
	EnergyKWh      float64
	CarbonKg       float64
	Samples        int
	Features       int
	Model          string
	Epochs         int
	EnergyPerEpoch []float64
	CPUCount       int
}

// FactsFrom extracts recommendation inputs from a result.
func FactsFrom(r *Result) Facts {
	f := Facts{
		EnergyKWh:      r.Metrics.TotalEnergyKWh,
		CarbonKg:       r.Metrics.TotalCarbonKg,
		Model:          r.Model.Name,
		Epochs:         r.Experiment.Epochs,
		EnergyPerEpoch: r.Metrics.EnergyPerEpoch,
		CPUCount:       r.System.CPUCount,
	}
	if r.Dataset != nil {
		f.Samples = r.Dataset.Samples
		f.Features = r.Dataset.Features
	}
	return f
}

// Recommend applies the measurement service's rule set. The two general
// recommendations are always appended last.
func Recommend(f Facts) []string {
	var recs []string

	switch {
	case f.EnergyKWh < 0.01:
		recs = append(recs, "Energy consumption is very low; configuration is efficient.")
	case f.EnergyKWh < 0.1:
		recs = append(recs, "Moderate energy usage; early stopping can reduce cost.")
	default:
		recs = append(recs, "High energy usage; reduce model complexity or dataset size.")
	}

	if f.CarbonKg > 0.5 {
		recs = append(recs, "High carbon footprint; use renewable-powered infrastructure.")
	}
	if f.Epochs > 10 {
		recs = append(recs, "High epoch count; consider early stopping.")
	}
	if n := len(f.EnergyPerEpoch); n > 2 && f.EnergyPerEpoch[n-1] >= f.EnergyPerEpoch[n-2] {
		recs = append(recs, "Energy plateau detected; early stopping recommended.")
	}
	if f.Samples > 200000 {
		recs = append(recs, "Large dataset; apply sampling or distributed training.")
	}
	if f.Features > 1000 {
		recs = append(recs, "High feature dimensionality; apply PCA or feature selection.")
	}
	if f.Model == "RandomForest" {
		recs = append(recs, "Reduce number of trees or tree depth to reduce energy.")
	}
	if f.CPUCount >= 16 {
		recs = append(recs, "Parallel training recommended for efficiency.")
	}

	recs = append(recs,
		"Use pruning, quantization, and mixed precision to reduce compute.",
		"Schedule training during low-carbon electricity hours.",
	)
	return recs
}

// WithRecommendations returns a copy of r whose recommendations are filled
// from the rule set when r carries none. r itself is not modified.
func WithRecommendations(r *Result) *Result {
	if r == nil || len(r.Recommendations) > 0 {
		return r
	}
	clone := *r
	clone.Recommendations = Recommend(FactsFrom(r))
	return &clone
}
