// internal/intake/errors.go
package intake

import (
	"errors"
)

// Kind classifies why an acquisition failed. Every kind is recoverable: the
// user can pick another file and try again.
type Kind string

const (
	KindUnsupported Kind = "unsupported"
	KindTransport   Kind = "transport"
	KindApplication Kind = "application"
	KindParse       Kind = "parse"
	KindStructure   Kind = "structure"
)

var (
	// ErrUnsupportedFile is returned before any I/O for files of the wrong type.
	ErrUnsupportedFile = errors.New("unsupported file type")
	// ErrTransport means the measurement service could not be reached.
	ErrTransport = errors.New("audit service unreachable")
	// ErrApplication means the service answered with an error status.
	ErrApplication = errors.New("audit service reported an error")
	// ErrNoFile is returned when submitting without a selected file.
	ErrNoFile = errors.New("no file selected")
	// ErrBusy is returned when an acquisition is already in flight.
	ErrBusy = errors.New("an audit is already running")
)

// Error is a classified acquisition failure. Message is suitable for showing
// to the user as-is.
type Error struct {
	Kind    Kind
	Title   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return ""
}

// TitleOf returns the notification title for err.
func TitleOf(err error) string {
	var ie *Error
	if errors.As(err, &ie) && ie.Title != "" {
		return ie.Title
	}
	return "Error"
}
