// internal/notify/notify.go
// Package notify prints short, titled notifications to the terminal.
package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Level selects the notification colour and marker.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarn
	LevelError
)

var markers = map[Level]string{
	LevelInfo:    "i",
	LevelSuccess: "✔",
	LevelWarn:    "!",
	LevelError:   "✖",
}

// Notifier writes one line per notification. It is safe for concurrent use.
type Notifier struct {
	mu     sync.Mutex
	out    io.Writer
	styles map[Level]*color.Color
}

// New returns a Notifier writing to out, or to stderr when out is nil.
func New(out io.Writer) *Notifier {
	if out == nil {
		out = os.Stderr
	}
	return &Notifier{
		out: out,
		styles: map[Level]*color.Color{
			LevelInfo:    color.New(color.FgCyan),
			LevelSuccess: color.New(color.FgGreen),
			LevelWarn:    color.New(color.FgYellow),
			LevelError:   color.New(color.FgRed, color.Bold),
		},
	}
}

func (n *Notifier) Info(title, message string)    { n.Notify(LevelInfo, title, message) }
func (n *Notifier) Success(title, message string) { n.Notify(LevelSuccess, title, message) }
func (n *Notifier) Warn(title, message string)    { n.Notify(LevelWarn, title, message) }
func (n *Notifier) Error(title, message string)   { n.Notify(LevelError, title, message) }

// Notify prints "<marker> <title>: <message>" with the title coloured for level.
func (n *Notifier) Notify(level Level, title, message string) {
	style, ok := n.styles[level]
	if !ok {
		level, style = LevelInfo, n.styles[LevelInfo]
	}
	head := style.Sprintf("%s %s", markers[level], title)

	n.mu.Lock()
	defer n.mu.Unlock()
	if message == "" {
		fmt.Fprintln(n.out, head)
		return
	}
	fmt.Fprintf(n.out, "%s: %s\n", head, message)
}
