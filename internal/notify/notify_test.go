package notify

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
)

func TestNotifyPlain(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	n := New(&buf)
	n.Error("Invalid file", "Please upload a .csv or .pkl file.")
	n.Success("Audit complete", "")
	n.Warn("Epoch mismatch", "2 declared, 3 measured")
	n.Notify(Level(42), "Unknown", "falls back to info")

	want := "✖ Invalid file: Please upload a .csv or .pkl file.\n" +
		"✔ Audit complete\n" +
		"! Epoch mismatch: 2 declared, 3 measured\n" +
		"i Unknown: falls back to info\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestNotifyColored(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	New(&buf).Info("Imported", "run.json")
	if !bytes.Contains(buf.Bytes(), []byte("\x1b[")) {
		t.Fatalf("expected ANSI escape codes, got %q", buf.String())
	}
}
