// internal/tui/spinner_test.go
package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwiater/ecoaudit/internal/audit"
)

func TestUpdateQuitsWhenAcquisitionCompletes(t *testing.T) {
	want := &audit.Result{Model: audit.Model{Name: "RandomForest"}}
	m := newModel(context.Background(), DefaultLabel, DefaultHint, func(context.Context) (*audit.Result, error) {
		return want, nil
	})

	msg := acquireCmd(m.ctx, m.acquire)()
	next, cmd := m.Update(msg)
	if cmd == nil {
		t.Fatal("expected a quit command, got nil")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
	got := next.(*model)
	if got.res != want || got.err != nil {
		t.Fatalf("unexpected final state res=%v err=%v", got.res, got.err)
	}
	if got.View() != "" {
		t.Fatalf("expected empty view once done, got %q", got.View())
	}
}

func TestUpdateCarriesAcquisitionError(t *testing.T) {
	boom := errors.New("boom")
	m := newModel(context.Background(), DefaultLabel, DefaultHint, nil)
	next, _ := m.Update(acquiredMsg{err: boom})
	if !errors.Is(next.(*model).err, boom) {
		t.Fatalf("expected boom, got %v", next.(*model).err)
	}
}

func TestUpdateCtrlCCancels(t *testing.T) {
	m := newModel(context.Background(), DefaultLabel, DefaultHint, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected a quit command, got nil")
	}
	if !errors.Is(m.err, ErrInterrupted) {
		t.Fatalf("expected ErrInterrupted, got %v", m.err)
	}
	if m.ctx.Err() == nil {
		t.Fatal("expected acquisition context to be cancelled")
	}
}

func TestUpdateIgnoresOtherKeys(t *testing.T) {
	m := newModel(context.Background(), DefaultLabel, DefaultHint, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd != nil {
		t.Fatal("expected no command for q while busy")
	}
	if m.done {
		t.Fatal("expected model to keep running")
	}
}

func TestView(t *testing.T) {
	m := newModel(context.Background(), DefaultLabel, DefaultHint, nil)
	view := m.View()
	if !strings.Contains(view, "Running Audit...") {
		t.Errorf("expected label in view, got %q", view)
	}
	if !strings.Contains(view, "CodeCarbon is measuring energy consumption") {
		t.Errorf("expected hint in view, got %q", view)
	}
}

func TestRunWithSpinnerWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	calls := 0
	res, err := RunWithSpinner(context.Background(), &buf, "", func(context.Context) (*audit.Result, error) {
		calls++
		return &audit.Result{}, nil
	})
	if err != nil || res == nil {
		t.Fatalf("unexpected result %v %v", res, err)
	}
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected nothing drawn, got %q", buf.String())
	}
}
