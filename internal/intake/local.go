// internal/intake/local.go
package intake

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mwiater/ecoaudit/internal/audit"
	"github.com/mwiater/ecoaudit/internal/logging"
)

var localExtensions = []string{".json"}

var utf8BOM = []byte("\xef\xbb\xbf")

// Local imports a previously exported audit result from a JSON file. No
// network access is involved.
type Local struct {
	maxBytes int64
}

// NewLocal constructs a Local that refuses files larger than maxBytes. A
// non-positive limit disables the check.
func NewLocal(maxBytes int64) *Local {
	return &Local{maxBytes: maxBytes}
}

func (l *Local) Name() string { return "local" }

func (l *Local) Extensions() []string { return localExtensions }

func (l *Local) Accepts(name string) bool { return hasSuffix(name, localExtensions) }

// Acquire reads the whole file and decodes it. Syntax and structural
// problems are reported as distinct kinds.
func (l *Local) Acquire(ctx context.Context, req Request) (*audit.Result, error) {
	up := req.Upload
	if !l.Accepts(up.Name) {
		return nil, unsupported(localExtensions)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := l.read(up)
	if err != nil {
		return nil, err
	}
	logging.LogRequest("file->ecoaudit", "local", up.Name, map[string]any{"bytes": len(data)})

	res, err := audit.Decode(bytes.TrimPrefix(data, utf8BOM))
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, audit.ErrParse):
		return nil, &Error{
			Kind:    KindParse,
			Title:   "Invalid JSON",
			Message: fmt.Sprintf("%s is not valid JSON.", up.Name),
			Err:     err,
		}
	case errors.Is(err, audit.ErrStructure):
		return nil, &Error{
			Kind:    KindStructure,
			Title:   "Invalid audit file",
			Message: fmt.Sprintf("%s is not an audit result (%s).", up.Name, detail(err)),
			Err:     err,
		}
	default:
		return nil, err
	}
}

func (l *Local) read(up Upload) ([]byte, error) {
	f, err := up.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", up.Name, err)
	}
	defer f.Close()

	var r io.Reader = f
	if l.maxBytes > 0 {
		r = io.LimitReader(f, l.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &Error{
			Kind:    KindParse,
			Title:   "Invalid JSON",
			Message: fmt.Sprintf("Could not read %s.", up.Name),
			Err:     fmt.Errorf("%w: %w", audit.ErrParse, err),
		}
	}
	if l.maxBytes > 0 && int64(len(data)) > l.maxBytes {
		return nil, &Error{
			Kind:    KindParse,
			Title:   "Invalid JSON",
			Message: fmt.Sprintf("%s exceeds the %d MB import limit.", up.Name, l.maxBytes>>20),
			Err:     fmt.Errorf("%w: file too large", audit.ErrParse),
		}
	}
	return data, nil
}

// detail strips the sentinel prefix from a decode error.
func detail(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
