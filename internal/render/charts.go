// internal/render/charts.go
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/mwiater/ecoaudit/internal/dashboard"
)

// Plot geometry shared by the SVG charts, in user units.
const (
	plotWidth   = 560
	plotHeight  = 260
	padLeft     = 64
	padRight    = 12
	padTop      = 12
	padBottom   = 32
	gridLines   = 4
	maxXLabels  = 20
	donutSize   = 260
	donutRadius = 90
	donutStroke = 36
	hbarRow     = 40
	hbarLabel   = 50
)

const (
	epochFill        = "hsl(160, 70%, 45%)"
	cumulativeStroke = "hsl(217, 91%, 60%)"
)

type gridLine struct {
	Y     float64
	Label string
}

type xLabel struct {
	X     float64
	Label string
}

type bar struct {
	X, Y, W, H float64
	Color      string
	Title      string
}

// seriesChart is a vertical bar or area chart over a point series.
type seriesChart struct {
	Width, Height int
	Left, Right   float64
	Base          float64
	Grid          []gridLine
	Labels        []xLabel
	Bars          []bar
	Line, Area    string
	Stroke, Fill  string
	Empty         bool
}

type donutSlice struct {
	Color     string
	Dash, Gap float64
	Offset    float64
	Title     string
}

type donutChart struct {
	Size, Radius, Stroke float64
	Center               float64
	Slices               []donutSlice
	Legend               []string
	Empty                bool
}

type hbarChart struct {
	Width, Height int
	Rows          []hbarRowData
}

type hbarRowData struct {
	Y, W      float64
	Label     string
	Value     string
	Color     string
	TextX     float64
	LabelY    float64
	BarHeight float64
}

func plotArea() (w, h float64) {
	return plotWidth - padLeft - padRight, plotHeight - padTop - padBottom
}

func newSeriesChart(points []dashboard.Point) seriesChart {
	c := seriesChart{
		Width:  plotWidth,
		Height: plotHeight,
		Left:   padLeft,
		Right:  plotWidth - padRight,
		Base:   plotHeight - padBottom,
		Empty:  len(points) == 0,
	}
	if c.Empty {
		return c
	}
	w, h := plotArea()
	top := seriesMax(points)
	for i := 0; i <= gridLines; i++ {
		frac := float64(i) / gridLines
		c.Grid = append(c.Grid, gridLine{
			Y:     c.Base - frac*h,
			Label: fmt.Sprintf("%.2f", frac*top),
		})
	}
	slot := w / float64(len(points))
	step := int(math.Ceil(float64(len(points)) / maxXLabels))
	for i, p := range points {
		if i%step == 0 {
			c.Labels = append(c.Labels, xLabel{X: padLeft + (float64(i)+0.5)*slot, Label: p.Label})
		}
	}
	return c
}

func barChart(points []dashboard.Point) seriesChart {
	c := newSeriesChart(points)
	if c.Empty {
		return c
	}
	w, h := plotArea()
	top := seriesMax(points)
	slot := w / float64(len(points))
	barW := slot * 0.6
	for i, p := range points {
		bh := math.Max(p.Value, 0) / top * h
		c.Bars = append(c.Bars, bar{
			X:     padLeft + float64(i)*slot + (slot-barW)/2,
			Y:     c.Base - bh,
			W:     barW,
			H:     bh,
			Color: epochFill,
			Title: fmt.Sprintf("%s: %.2f µWh", p.Label, p.Value),
		})
	}
	return c
}

func areaChart(points []dashboard.Point) seriesChart {
	c := newSeriesChart(points)
	if c.Empty {
		return c
	}
	w, h := plotArea()
	top := seriesMax(points)
	slot := w / float64(len(points))
	coords := make([]string, len(points))
	for i, p := range points {
		x := padLeft + (float64(i)+0.5)*slot
		y := c.Base - p.Value/top*h
		coords[i] = fmt.Sprintf("%.1f,%.1f", x, y)
	}
	first := padLeft + 0.5*slot
	last := padLeft + (float64(len(points))-0.5)*slot
	c.Line = strings.Join(coords, " ")
	c.Area = fmt.Sprintf("%.1f,%.1f %s %.1f,%.1f", first, c.Base, c.Line, last, c.Base)
	c.Stroke = cumulativeStroke
	c.Fill = cumulativeStroke
	return c
}

func seriesMax(points []dashboard.Point) float64 {
	top := 0.0
	for _, p := range points {
		top = math.Max(top, p.Value)
	}
	if top <= 0 {
		return 1
	}
	return top
}

// newDonut draws the visible slices of b as stroked circle segments.
func newDonut(b dashboard.Breakdown, unit string) donutChart {
	d := donutChart{
		Size:   donutSize,
		Radius: donutRadius,
		Stroke: donutStroke,
		Center: donutSize / 2,
	}
	visible := b.Visible()
	if len(visible) == 0 {
		d.Empty = true
		return d
	}
	total := 0.0
	for _, s := range visible {
		total += s.Value
	}
	circumference := 2 * math.Pi * donutRadius
	offset := 0.0
	for _, s := range visible {
		dash := s.Value / total * circumference
		label := fmt.Sprintf("%s: %g%s", s.Name, s.Value, unit)
		d.Slices = append(d.Slices, donutSlice{
			Color:  s.Color,
			Dash:   dash,
			Gap:    circumference - dash,
			Offset: -offset,
			Title:  label,
		})
		d.Legend = append(d.Legend, label)
		offset += dash
	}
	return d
}

func newHBars(b dashboard.Breakdown) hbarChart {
	c := hbarChart{Width: plotWidth, Height: hbarRow*len(b) + padTop}
	top := b.Max()
	if top <= 0 {
		top = 1
	}
	span := float64(plotWidth - hbarLabel - padRight - 90)
	for i, s := range b {
		y := float64(padTop + i*hbarRow)
		w := math.Max(s.Value, 0) / top * span
		c.Rows = append(c.Rows, hbarRowData{
			Y:         y,
			W:         w,
			Label:     s.Name,
			Value:     fmt.Sprintf("%.2f µWh", s.Value),
			Color:     s.Color,
			TextX:     hbarLabel + w + 6,
			LabelY:    y + hbarRow*0.45,
			BarHeight: hbarRow * 0.6,
		})
	}
	return c
}
