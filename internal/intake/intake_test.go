package intake

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mwiater/ecoaudit/internal/appconfig"
	"github.com/mwiater/ecoaudit/internal/audit"
)

const minimalResult = `{
  "experiment": {"type": "inference", "epochs": 1, "timestamp": "20240115_143022"},
  "metrics": {"total_energy_kwh": 0.001, "total_carbon_kg": 0.0002, "energy_per_epoch": [0.001]},
  "model": {"name": "LogisticRegression"},
  "system": {"platform": "Linux-6.1.0-x86_64", "python_version": "3.11.4", "cpu_count": 4},
  "recommendations": ["Energy consumption is very low; configuration is efficient."]
}`

func TestCoerceEpochs(t *testing.T) {
	tests := map[string]int{
		"":                     1,
		"0":                    1,
		"-5":                   1,
		"1":                    1,
		"5":                    5,
		" 12 ":                 12,
		"7.9":                  7,
		"42abc":                42,
		"abc":                  1,
		"100":                  100,
		"150":                  100,
		"99999999999999999999": 100,
	}
	for raw, want := range tests {
		if got := CoerceEpochs(raw); got != want {
			t.Errorf("CoerceEpochs(%q) = %d, want %d", raw, got, want)
		}
	}
}

func TestRemoteRejectsUnsupportedFileWithoutRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	remote := NewRemote(srv.URL, srv.Client())
	_, err := remote.Acquire(context.Background(), Request{Upload: FromBytes("notes.txt", []byte("hi")), Epochs: 3})
	if KindOf(err) != KindUnsupported {
		t.Fatalf("expected unsupported kind, got %v", err)
	}
	if !errors.Is(err, ErrUnsupportedFile) {
		t.Fatalf("expected ErrUnsupportedFile, got %v", err)
	}
	if err.Error() != "Please upload a .csv or .pkl file." {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if hits.Load() != 0 {
		t.Fatalf("expected no requests, got %d", hits.Load())
	}
}

func TestRemoteAcceptsIsCaseSensitive(t *testing.T) {
	remote := NewRemote("http://localhost:5000/api/audit", nil)
	if !remote.Accepts("data.csv") || !remote.Accepts("model.pkl") {
		t.Fatal("expected .csv and .pkl to be accepted")
	}
	if remote.Accepts("DATA.CSV") || remote.Accepts("data.json") {
		t.Fatal("expected upper-case and .json names to be rejected")
	}
}

func TestRemoteSendsMultipartForm(t *testing.T) {
	var gotFile, gotName, gotEpochs string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file field: %v", err)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		gotFile, gotName = string(data), hdr.Filename
		gotEpochs = r.FormValue("epochs")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, minimalResult)
	}))
	defer srv.Close()

	remote := NewRemote(srv.URL, srv.Client())
	res, err := remote.Acquire(context.Background(), Request{
		Upload: FromBytes("iris.csv", []byte("a,b\n1,2\n")),
		Epochs: 250,
	})
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if res.Model.Name != "LogisticRegression" {
		t.Fatalf("unexpected result %+v", res)
	}
	if gotName != "iris.csv" || gotFile != "a,b\n1,2\n" {
		t.Fatalf("unexpected file part %q %q", gotName, gotFile)
	}
	if gotEpochs != "100" {
		t.Fatalf("expected epochs clamped to 100, got %q", gotEpochs)
	}
}

func TestRemoteApplicationErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"service message", http.StatusBadRequest, `{"error": "Unsupported model type"}`, "Unsupported model type"},
		{"empty error", http.StatusInternalServerError, `{"error": ""}`, "Audit failed"},
		{"html body", http.StatusBadGateway, `<html>oops</html>`, "Audit failed"},
		{"unreadable success body", http.StatusOK, `{"status": "ok"}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewRemote(srv.URL, srv.Client()).Acquire(context.Background(), Request{
				Upload: FromBytes("model.pkl", []byte{0x80, 0x04}),
				Epochs: 1,
			})
			if KindOf(err) != KindApplication {
				t.Fatalf("expected application kind, got %v", err)
			}
			if !errors.Is(err, ErrApplication) {
				t.Fatalf("expected ErrApplication, got %v", err)
			}
			if tt.message != "" && err.Error() != tt.message {
				t.Fatalf("expected message %q, got %q", tt.message, err.Error())
			}
		})
	}
}

func TestRemoteTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL + "/api/audit"
	host := strings.TrimPrefix(srv.URL, "http://")
	srv.Close()

	_, err := NewRemote(endpoint, nil).Acquire(context.Background(), Request{
		Upload: FromBytes("iris.csv", []byte("a\n1\n")),
		Epochs: 1,
	})
	if KindOf(err) != KindTransport {
		t.Fatalf("expected transport kind, got %v", err)
	}
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	want := "Cannot connect to backend. Make sure the audit service is running on " + host
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestLocalImport(t *testing.T) {
	local := NewLocal(1 << 20)

	res, err := local.Acquire(context.Background(), Request{Upload: FromBytes("run.json", []byte(minimalResult))})
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if res.Experiment.Type != audit.TypeInference {
		t.Fatalf("unexpected experiment %+v", res.Experiment)
	}

	withBOM := append([]byte("\xef\xbb\xbf"), minimalResult...)
	if _, err := local.Acquire(context.Background(), Request{Upload: FromBytes("bom.json", withBOM)}); err != nil {
		t.Fatalf("expected BOM-prefixed file to import, got %v", err)
	}
}

func TestLocalImportErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		kind Kind
	}{
		{"wrong extension", "run.csv", minimalResult, KindUnsupported},
		{"syntax error", "run.json", `{"experiment": `, KindParse},
		{"missing fields", "run.json", `{"recommendations": []}`, KindStructure},
		{"not an object", "run.json", `[1, 2, 3]`, KindStructure},
	}
	local := NewLocal(1 << 20)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := local.Acquire(context.Background(), Request{Upload: FromBytes(tt.file, []byte(tt.body))})
			if got := KindOf(err); got != tt.kind {
				t.Fatalf("expected kind %q, got %q (%v)", tt.kind, got, err)
			}
		})
	}

	_, err := local.Acquire(context.Background(), Request{Upload: FromBytes("run.json", []byte(`{"recommendations": []}`))})
	if !strings.Contains(err.Error(), "experiment, metrics") {
		t.Fatalf("expected missing fields in message, got %q", err.Error())
	}
	if !errors.Is(err, audit.ErrStructure) {
		t.Fatalf("expected audit.ErrStructure, got %v", err)
	}
}

func TestLocalImportSizeLimit(t *testing.T) {
	_, err := NewLocal(16).Acquire(context.Background(), Request{Upload: FromBytes("run.json", []byte(minimalResult))})
	if KindOf(err) != KindParse {
		t.Fatalf("expected parse kind for oversized file, got %v", err)
	}
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.json")
	if err := os.WriteFile(path, []byte(minimalResult), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	up, err := FromPath(path)
	if err != nil {
		t.Fatalf("FromPath returned error: %v", err)
	}
	if up.Name != "run.json" || up.Size != int64(len(minimalResult)) {
		t.Fatalf("unexpected upload %+v", up)
	}
	if _, err := FromPath(dir); err == nil {
		t.Fatal("expected error for directory")
	}
}

func TestNewSelectsStrategy(t *testing.T) {
	acq, err := New(appconfig.Config{IntakeMode: appconfig.IntakeLocal})
	if err != nil || acq.Name() != "local" {
		t.Fatalf("expected local strategy, got %v %v", acq, err)
	}
	acq, err = New(appconfig.Config{IntakeMode: appconfig.IntakeRemote})
	if err != nil || acq.Name() != "remote" {
		t.Fatalf("expected remote strategy, got %v %v", acq, err)
	}
}

// blockingAcquirer waits on release before returning.
type blockingAcquirer struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (b *blockingAcquirer) Name() string             { return "blocking" }
func (b *blockingAcquirer) Extensions() []string     { return []string{".json"} }
func (b *blockingAcquirer) Accepts(name string) bool { return strings.HasSuffix(name, ".json") }
func (b *blockingAcquirer) Acquire(ctx context.Context, req Request) (*audit.Result, error) {
	b.calls.Add(1)
	close(b.started)
	<-b.release
	return &audit.Result{Experiment: audit.Experiment{Epochs: req.Epochs}}, nil
}

func TestSessionSelection(t *testing.T) {
	s := NewSession(NewLocal(0), 0)
	if s.Epochs() != 1 {
		t.Fatalf("expected default epochs coerced to 1, got %d", s.Epochs())
	}
	if _, err := s.Submit(context.Background()); !errors.Is(err, ErrNoFile) {
		t.Fatalf("expected ErrNoFile, got %v", err)
	}

	if err := s.Select(FromBytes("good.json", []byte(minimalResult))); err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if err := s.Select(FromBytes("bad.txt", nil)); KindOf(err) != KindUnsupported {
		t.Fatalf("expected unsupported, got %v", err)
	}
	sel, ok := s.Selected()
	if !ok || sel.Name != "good.json" {
		t.Fatalf("expected previous selection kept, got %+v", sel)
	}
	if got := s.SetEpochs("500"); got != 100 || s.Epochs() != 100 {
		t.Fatalf("expected epochs clamped to 100, got %d", got)
	}

	res, err := s.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if res.Model.Name != "LogisticRegression" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestSessionSingleFlight(t *testing.T) {
	acq := &blockingAcquirer{started: make(chan struct{}), release: make(chan struct{})}
	s := NewSession(acq, 3)
	if err := s.Select(FromBytes("run.json", nil)); err != nil {
		t.Fatalf("Select returned error: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background())
		done <- err
	}()
	select {
	case <-acq.started:
	case <-time.After(2 * time.Second):
		t.Fatal("acquisition did not start")
	}

	if !s.Busy() {
		t.Fatal("expected session to be busy")
	}
	if _, err := s.Submit(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	close(acq.release)
	if err := <-done; err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if s.Busy() {
		t.Fatal("expected session to be idle")
	}
	if acq.calls.Load() != 1 {
		t.Fatalf("expected exactly one acquisition, got %d", acq.calls.Load())
	}
}
