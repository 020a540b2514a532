// internal/audit/decode.go
package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var (
	// ErrParse marks input that is not syntactically valid JSON.
	ErrParse = errors.New("invalid JSON")
	// ErrStructure marks valid JSON that lacks the required top-level fields
	// or whose fields have the wrong shape.
	ErrStructure = errors.New("malformed audit result")
)

// requiredFields must be present and truthy for a document to be renderable.
var requiredFields = []string{"experiment", "metrics", "recommendations"}

// falsy lists JSON values that count as absent for a required field.
var falsy = []any{nil, false, 0, ""}

var structureSchema = gojsonschema.NewGoLoader(buildStructureSchema())

func buildStructureSchema() map[string]any {
	properties := make(map[string]any, len(requiredFields))
	for _, name := range requiredFields {
		properties[name] = map[string]any{
			"not": map[string]any{"enum": falsy},
		}
	}
	return map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"required":   requiredFields,
		"properties": properties,
	}
}

// Decode parses an exported audit result. Syntax errors wrap ErrParse; a
// document missing experiment, metrics or recommendations (or whose fields
// have the wrong shape) wraps ErrStructure. Optional sections are not checked.
func Decode(data []byte) (*Result, error) {
	if !json.Valid(data) {
		var probe any
		err := json.Unmarshal(data, &probe)
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if err := checkStructure(data); err != nil {
		return nil, err
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStructure, err)
	}
	return &res, nil
}

func checkStructure(data []byte) error {
	result, err := gojsonschema.Validate(structureSchema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	missing := make([]string, 0, len(requiredFields))
	seen := make(map[string]bool, len(requiredFields))
	var other []string
	for _, desc := range result.Errors() {
		field := desc.Field()
		if desc.Type() == "required" {
			if prop, ok := desc.Details()["property"].(string); ok {
				field = prop
			}
		}
		if isRequiredField(field) {
			if !seen[field] {
				seen[field] = true
				missing = append(missing, field)
			}
			continue
		}
		other = append(other, desc.String())
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrStructure, strings.Join(orderFields(missing), ", "))
	}
	return fmt.Errorf("%w: %s", ErrStructure, strings.Join(other, "; "))
}

func isRequiredField(name string) bool {
	for _, field := range requiredFields {
		if field == name {
			return true
		}
	}
	return false
}

// orderFields returns names in declaration order so messages are stable.
func orderFields(names []string) []string {
	ordered := make([]string, 0, len(names))
	for _, field := range requiredFields {
		for _, name := range names {
			if name == field {
				ordered = append(ordered, field)
				break
			}
		}
	}
	return ordered
}
