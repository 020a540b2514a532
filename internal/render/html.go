// internal/render/html.go
package render

import (
	"bytes"
	"html/template"

	"github.com/mwiater/ecoaudit/internal/dashboard"
)

type htmlPage struct {
	View       dashboard.View
	Header     string
	Mismatch   string
	BackURL    string
	Summary    [][2]string
	Info       [][2]string
	Epochs     seriesChart
	Cumulative seriesChart
	Power      donutChart
	ShowPower  bool
	Energy     hbarChart
	ShowEnergy bool
	Headings   map[string]string
	Stylesheet template.CSS
}

// HTML renders v as a standalone page. Charts are inline SVG so the page
// works offline.
func HTML(v dashboard.View, opts Options) (string, error) {
	page := htmlPage{
		View:       v,
		Header:     headerLine(v),
		BackURL:    opts.BackURL,
		Summary:    summaryCards(v),
		Info:       infoCards(v.Info),
		Epochs:     barChart(v.Epochs),
		Cumulative: areaChart(v.Cumulative),
		Power:      newDonut(v.Power, "W"),
		ShowPower:  len(v.Power) > 0,
		Energy:     newHBars(v.Energy),
		ShowEnergy: len(v.Energy) > 0,
		Headings: map[string]string{
			"epochs":          headingEpochs,
			"cumulative":      headingCumulative,
			"power":           headingPower,
			"energy":          headingEnergy,
			"recommendations": headingRecommendations,
			"snapshot":        headingSnapshot,
		},
		Stylesheet: Stylesheet(),
	}
	if v.EpochMismatch {
		page.Mismatch = mismatchNote(v)
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, page); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Stylesheet is the CSS shared by every ecoaudit web page.
func Stylesheet() template.CSS {
	return template.CSS(stylesheet)
}

const stylesheet = `
:root {
  --background: hsl(220, 25%, 8%);
  --card: hsl(220, 25%, 13%);
  --border: hsl(220, 20%, 20%);
  --text: hsl(210, 40%, 96%);
  --muted: hsl(215, 20%, 55%);
  --accent: hsl(160, 70%, 45%);
  --primary: hsl(217, 91%, 60%);
  --warning: hsl(45, 95%, 55%);
  --danger: hsl(350, 80%, 55%);
}
* { box-sizing: border-box; }
body { margin: 0; background: var(--background); color: var(--text); font-family: system-ui, -apple-system, "Segoe UI", sans-serif; }
main { max-width: 1200px; margin: 0 auto; padding: 24px; }
h1 { font-size: 1.9rem; margin: 0 0 4px; }
h2 { font-size: 1rem; margin: 0 0 12px; }
a.button, button { display: inline-block; padding: 8px 14px; border: 1px solid var(--border); border-radius: 8px; background: transparent; color: var(--text); text-decoration: none; cursor: pointer; font-size: 0.9rem; }
button.primary { background: var(--accent); border-color: var(--accent); color: hsl(220, 25%, 8%); font-weight: 600; }
.muted { color: var(--muted); font-size: 0.85rem; }
.header { display: flex; justify-content: space-between; align-items: center; margin-bottom: 28px; gap: 16px; }
.grid { display: grid; gap: 16px; margin-bottom: 24px; }
.grid-4 { grid-template-columns: repeat(auto-fit, minmax(220px, 1fr)); }
.grid-2 { grid-template-columns: repeat(auto-fit, minmax(480px, 1fr)); }
.card { background: var(--card); border: 1px solid var(--border); border-radius: 12px; padding: 16px; }
.metric { border-left: 4px solid var(--accent); }
.metric .value { font-size: 1.5rem; font-weight: 700; margin-top: 6px; }
.info .value { font-weight: 600; margin-top: 4px; }
.note { border-color: var(--warning); color: var(--warning); margin-bottom: 16px; }
.toast { border-color: var(--danger); margin-bottom: 16px; }
.toast strong { color: var(--danger); }
svg text { fill: var(--muted); font-size: 11px; }
svg line.grid { stroke: var(--border); stroke-dasharray: 3 3; }
ol.recs { margin: 0; padding-left: 0; list-style: none; }
ol.recs li { display: flex; gap: 12px; padding: 10px 0; border-bottom: 1px solid var(--border); }
ol.recs li:last-child { border-bottom: none; }
ol.recs .num { color: var(--accent); font-weight: 700; min-width: 1.5em; }
.snapshot { display: grid; gap: 12px; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); }
.snapshot div { background: hsla(220, 20%, 20%, 0.4); border-radius: 8px; padding: 10px; }
.legend { list-style: none; padding: 0; margin: 8px 0 0; display: flex; gap: 16px; justify-content: center; }
.centered { display: flex; flex-direction: column; align-items: center; }
form .field { margin-bottom: 16px; }
input[type=number], input[type=file] { background: var(--background); color: var(--text); border: 1px solid var(--border); border-radius: 8px; padding: 8px; width: 100%; }
`

var dashboardTemplate = template.Must(template.New("dashboard").Parse(dashboardTemplateHTML))

const dashboardTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .View.Title }}</title>
  <style>{{ .Stylesheet }}</style>
</head>
<body>
<main>
  <div class="header">
    <div>
      <h1>{{ .View.Title }}</h1>
      <p class="muted">{{ .Header }}</p>
    </div>
    {{- if .BackURL }}
    <a class="button" href="{{ .BackURL }}">&larr; Load another file</a>
    {{- end }}
  </div>

  {{- if .Mismatch }}
  <div class="card note">{{ .Mismatch }}</div>
  {{- end }}

  <section class="grid grid-4">
    {{- range .Summary }}
    <div class="card metric"><div class="muted">{{ index . 0 }}</div><div class="value">{{ index . 1 }}</div></div>
    {{- end }}
  </section>

  {{- if .Info }}
  <section class="grid grid-4">
    {{- range .Info }}
    <div class="card info"><div class="muted">{{ index . 0 }}</div><div class="value">{{ index . 1 }}</div></div>
    {{- end }}
  </section>
  {{- end }}

  <section class="grid grid-2">
    <div class="card">
      <h2>{{ index .Headings "epochs" }}</h2>
      {{ template "series" .Epochs }}
    </div>
    <div class="card">
      <h2>{{ index .Headings "cumulative" }}</h2>
      {{ template "series" .Cumulative }}
    </div>
    {{- if .ShowPower }}
    <div class="card centered">
      <h2>{{ index .Headings "power" }}</h2>
      {{- with .Power }}
      {{- if .Empty }}
      <p class="muted">No power draw recorded.</p>
      {{- else }}
      <svg viewBox="0 0 {{ .Size }} {{ .Size }}" width="{{ .Size }}" height="{{ .Size }}" role="img">
        {{- range .Slices }}
        <circle cx="{{ $.Power.Center }}" cy="{{ $.Power.Center }}" r="{{ $.Power.Radius }}" fill="none" stroke="{{ .Color }}" stroke-width="{{ $.Power.Stroke }}"
          stroke-dasharray="{{ printf "%.2f" .Dash }} {{ printf "%.2f" .Gap }}" stroke-dashoffset="{{ printf "%.2f" .Offset }}"
          transform="rotate(-90 {{ $.Power.Center }} {{ $.Power.Center }})"><title>{{ .Title }}</title></circle>
        {{- end }}
      </svg>
      <ul class="legend">
        {{- range .Legend }}<li class="muted">{{ . }}</li>{{- end }}
      </ul>
      {{- end }}
      {{- end }}
    </div>
    {{- end }}
    {{- if .ShowEnergy }}
    <div class="card">
      <h2>{{ index .Headings "energy" }}</h2>
      {{- with .Energy }}
      <svg viewBox="0 0 {{ .Width }} {{ .Height }}" width="100%" role="img">
        {{- range .Rows }}
        <text x="0" y="{{ printf "%.1f" .LabelY }}" dominant-baseline="middle">{{ .Label }}</text>
        <rect x="50" y="{{ printf "%.1f" .Y }}" width="{{ printf "%.1f" .W }}" height="{{ printf "%.1f" .BarHeight }}" rx="4" fill="{{ .Color }}"><title>{{ .Value }}</title></rect>
        <text x="{{ printf "%.1f" .TextX }}" y="{{ printf "%.1f" .LabelY }}" dominant-baseline="middle">{{ .Value }}</text>
        {{- end }}
      </svg>
      {{- end }}
    </div>
    {{- end }}
  </section>

  <section class="card" style="margin-bottom: 24px">
    <h2>{{ index .Headings "recommendations" }}</h2>
    {{- if .View.Recommendations }}
    <ol class="recs">
      {{- range .View.Recommendations }}
      <li><span class="num">{{ .Number }}</span><span>{{ .Text }}</span></li>
      {{- end }}
    </ol>
    {{- else }}
    <p class="muted">No recommendations.</p>
    {{- end }}
  </section>

  {{- with .View.Snapshot }}
  <section class="card">
    <h2>{{ index $.Headings "snapshot" }}</h2>
    <div class="snapshot">
      {{- range .Fields }}
      <div><div class="muted">{{ index . 0 }}</div><div>{{ index . 1 }}</div></div>
      {{- end }}
    </div>
  </section>
  {{- end }}
</main>
</body>
</html>
{{ define "series" -}}
{{- if .Empty }}
<p class="muted">No epochs recorded.</p>
{{- else }}
<svg viewBox="0 0 {{ .Width }} {{ .Height }}" width="100%" role="img">
  {{- range .Grid }}
  <line class="grid" x1="{{ $.Left }}" x2="{{ $.Right }}" y1="{{ printf "%.1f" .Y }}" y2="{{ printf "%.1f" .Y }}"></line>
  <text x="{{ $.Left }}" dx="-6" y="{{ printf "%.1f" .Y }}" text-anchor="end" dominant-baseline="middle">{{ .Label }}</text>
  {{- end }}
  {{- range .Bars }}
  <rect x="{{ printf "%.1f" .X }}" y="{{ printf "%.1f" .Y }}" width="{{ printf "%.1f" .W }}" height="{{ printf "%.1f" .H }}" rx="4" fill="{{ .Color }}"><title>{{ .Title }}</title></rect>
  {{- end }}
  {{- if .Line }}
  <polygon points="{{ .Area }}" fill="{{ .Fill }}" fill-opacity="0.2"></polygon>
  <polyline points="{{ .Line }}" fill="none" stroke="{{ .Stroke }}" stroke-width="2"></polyline>
  {{- end }}
  {{- range .Labels }}
  <text x="{{ printf "%.1f" .X }}" y="{{ $.Height }}" dy="-10" text-anchor="middle">{{ .Label }}</text>
  {{- end }}
</svg>
{{- end }}
{{- end }}`
