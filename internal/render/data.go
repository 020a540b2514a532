// internal/render/data.go
package render

import (
	"bytes"
	"encoding/json"

	"go.yaml.in/yaml/v3"

	"github.com/mwiater/ecoaudit/internal/dashboard"
)

// JSON encodes v with two-space indentation and a trailing newline.
func JSON(v dashboard.View) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// YAML encodes v as a YAML document.
func YAML(v dashboard.View) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
