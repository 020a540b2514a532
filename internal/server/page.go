// internal/server/page.go
package server

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mwiater/ecoaudit/internal/intake"
	"github.com/mwiater/ecoaudit/internal/render"
)

type feature struct {
	Title string
	Desc  string
}

var features = []feature{
	{"Hardware Tracking", "CPU, GPU & RAM power draw"},
	{"Carbon Footprint", "CO₂ emissions per training run"},
	{"Per-Epoch Analysis", "Energy breakdown by epoch"},
	{"Region Aware", "Country-level grid intensity"},
}

type intakePage struct {
	Stylesheet template.CSS
	Remote     bool
	Accept     string
	Epochs     int
	MinEpochs  int
	MaxEpochs  int
	Features   []feature
	Toast      *toast
}

func (s *Server) renderIntake(w http.ResponseWriter, status int, t *toast) {
	exts := s.acquirer.Extensions()
	page := intakePage{
		Stylesheet: render.Stylesheet(),
		Remote:     s.acquirer.Name() == "remote",
		Accept:     strings.Join(exts, ","),
		Epochs:     s.cfg.Epochs(),
		MinEpochs:  intake.MinEpochs,
		MaxEpochs:  intake.MaxEpochs,
		Features:   features,
		Toast:      t,
	}

	var buf bytes.Buffer
	if err := intakeTemplate.Execute(&buf, page); err != nil {
		s.logger.Error("render intake page", zap.Error(err))
		http.Error(w, "could not render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

var intakeTemplate = template.Must(template.New("intake").Parse(intakeTemplateHTML))

const intakeTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Energy Efficiency Audit</title>
  <style>{{ .Stylesheet }}</style>
</head>
<body>
<main>
  <div class="grid grid-2">
    <section>
      <h1>Energy Efficiency <span style="color: var(--accent)">Audit</span></h1>
      <p class="muted">Measure the energy consumption and carbon footprint of your ML training pipeline.
        Upload a dataset or model and get an in-depth efficiency report powered by CodeCarbon.</p>
      <p class="muted">Upload &rarr; Audit &rarr; Report</p>
      <div class="grid grid-4">
        {{- range .Features }}
        <div class="card info"><div class="value">{{ .Title }}</div><div class="muted">{{ .Desc }}</div></div>
        {{- end }}
      </div>
    </section>
    <section class="card">
      {{- with .Toast }}
      <div class="card toast" role="alert"><strong>{{ .Title }}</strong><div>{{ .Message }}</div></div>
      {{- end }}
      {{- if .Remote }}
      <h2>Upload your file</h2>
      <p class="muted">Accepts .csv (dataset) or .pkl (model)</p>
      {{- else }}
      <h2>Import an audit result</h2>
      <p class="muted">Accepts a .json file exported from a previous audit</p>
      {{- end }}
      <form method="post" action="/audit" enctype="multipart/form-data" onsubmit="lockSubmit(this)">
        <div class="field">
          <input type="file" name="file" accept="{{ .Accept }}" required>
        </div>
        {{- if .Remote }}
        <div class="field">
          <label for="epochs" class="muted">Number of Epochs</label>
          <input type="number" id="epochs" name="epochs" min="{{ .MinEpochs }}" max="{{ .MaxEpochs }}" value="{{ .Epochs }}" placeholder="e.g. 5">
        </div>
        <button class="primary" type="submit" data-busy="Running Audit...">Run Audit</button>
        <p class="muted">CodeCarbon is measuring energy consumption while the audit runs. This may take a while.</p>
        {{- else }}
        <button class="primary" type="submit" data-busy="Loading...">View Dashboard</button>
        {{- end }}
      </form>
    </section>
  </div>
</main>
<script>
  function lockSubmit(form) {
    var button = form.querySelector("button[type=submit]");
    button.disabled = true;
    button.textContent = button.dataset.busy;
  }
</script>
</body>
</html>`
