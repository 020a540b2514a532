// internal/audit/validate.go
package audit

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// timestampPattern is the run timestamp layout, YYYYMMDD_HHMMSS.
var timestampPattern = regexp.MustCompile(`^\d{8}_\d{6}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("audit_timestamp", func(fl validator.FieldLevel) bool {
		return timestampPattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidationError lists the invariant violations found in a Result, keyed by
// field namespace.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return "audit result failed validation: " + strings.Join(parts, "; ")
}

// Validate checks the documented invariants of a Result. Findings are
// advisory: a result that fails validation can still be rendered.
func (r *Result) Validate() error {
	if r == nil {
		return errors.New("audit result is nil")
	}
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := strings.TrimPrefix(fe.Namespace(), "Result.")
		fields[name] = describe(name, fe)
	}
	return &ValidationError{Fields: fields}
}

func describe(name string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be >= %s (got %v)", name, fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got %q)", name, fe.Param(), fe.Value())
	case "audit_timestamp":
		return fmt.Sprintf("%s must match YYYYMMDD_HHMMSS (got %q)", name, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", name, fe.Tag())
	}
}
