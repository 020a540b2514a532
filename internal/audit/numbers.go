// internal/audit/numbers.go
package audit

import (
	"encoding/json"
	"fmt"
	"math"
)

// wholeNumber decodes counts that producers may serialise as floats, such as
// 8.0 from a float64 dataframe column. Fractional values are rejected.
type wholeNumber int

func (n *wholeNumber) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return fmt.Errorf("%s is not a whole number", data)
	}
	*n = wholeNumber(f)
	return nil
}

func (e *Experiment) UnmarshalJSON(data []byte) error {
	type plain Experiment
	aux := struct {
		*plain
		Epochs wholeNumber `json:"epochs"`
	}{plain: (*plain)(e), Epochs: wholeNumber(e.Epochs)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.Epochs = int(aux.Epochs)
	return nil
}

func (d *Dataset) UnmarshalJSON(data []byte) error {
	type plain Dataset
	aux := struct {
		*plain
		Samples  wholeNumber `json:"samples"`
		Features wholeNumber `json:"features"`
	}{plain: (*plain)(d), Samples: wholeNumber(d.Samples), Features: wholeNumber(d.Features)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.Samples, d.Features = int(aux.Samples), int(aux.Features)
	return nil
}

func (s *System) UnmarshalJSON(data []byte) error {
	type plain System
	aux := struct {
		*plain
		CPUCount wholeNumber `json:"cpu_count"`
	}{plain: (*plain)(s), CPUCount: wholeNumber(s.CPUCount)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.CPUCount = int(aux.CPUCount)
	return nil
}

func (r *RawEmission) UnmarshalJSON(data []byte) error {
	type plain RawEmission
	aux := struct {
		*plain
		CPUCount wholeNumber `json:"cpu_count"`
	}{plain: (*plain)(r), CPUCount: wholeNumber(r.CPUCount)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.CPUCount = int(aux.CPUCount)
	return nil
}
