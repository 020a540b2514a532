// internal/intake/intake.go
// Package intake acquires an audit result, either by submitting an artifact to
// the measurement service or by importing a previously exported JSON file.
package intake

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mwiater/ecoaudit/internal/appconfig"
	"github.com/mwiater/ecoaudit/internal/audit"
)

const (
	// MinEpochs and MaxEpochs bound the epoch count sent to the service.
	MinEpochs = 1
	MaxEpochs = 100
)

// Upload is a user-supplied file. Open is called once per acquisition.
type Upload struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// Request is one acquisition. Epochs is only used by the remote strategy.
type Request struct {
	Upload Upload
	Epochs int
}

// Acquirer produces an audit result or a classified *Error.
type Acquirer interface {
	// Name identifies the strategy in logs and the UI.
	Name() string
	// Extensions lists accepted file suffixes, e.g. ".csv".
	Extensions() []string
	// Accepts reports whether a file name has an accepted suffix.
	Accepts(name string) bool
	Acquire(ctx context.Context, req Request) (*audit.Result, error)
}

// New returns the strategy selected by cfg.IntakeMode.
func New(cfg appconfig.Config) (Acquirer, error) {
	switch cfg.IntakeModeName() {
	case appconfig.IntakeRemote:
		return NewRemote(cfg.EndpointURL(), nil), nil
	case appconfig.IntakeLocal:
		return NewLocal(cfg.MaxUploadBytes()), nil
	default:
		return nil, fmt.Errorf("unknown intake mode %q", cfg.IntakeMode)
	}
}

// FromPath builds an Upload for a file on disk.
func FromPath(path string) (Upload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Upload{}, err
	}
	if info.IsDir() {
		return Upload{}, fmt.Errorf("%s is a directory", path)
	}
	return Upload{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// FromBytes builds an in-memory Upload.
func FromBytes(name string, data []byte) Upload {
	return Upload{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// CoerceEpochs interprets a user-entered epoch count. Empty, non-numeric or
// non-positive input becomes 1; values above 100 are clamped to 100.
func CoerceEpochs(raw string) int {
	n, err := strconv.Atoi(leadingInteger(raw))
	switch {
	case err != nil && !errors.Is(err, strconv.ErrRange):
		return MinEpochs
	case n < MinEpochs:
		return MinEpochs
	case n > MaxEpochs:
		return MaxEpochs
	}
	return n
}

// leadingInteger keeps an optional sign and the digits that follow it, so
// "5 epochs" reads as 5 the way a browser number field would.
func leadingInteger(raw string) string {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

func hasSuffix(name string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func unsupported(exts []string) *Error {
	return &Error{
		Kind:    KindUnsupported,
		Title:   "Invalid file",
		Message: fmt.Sprintf("Please upload a %s file.", strings.Join(exts, " or ")),
		Err:     ErrUnsupportedFile,
	}
}

// statusOK reports a 2xx response.
func statusOK(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}
