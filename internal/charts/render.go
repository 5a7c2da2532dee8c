// Package charts renders presentation chart images and implements the
// chart specialist that turns analysis payloads into PNG files on
// disk.
package charts

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Chart kinds a Spec can request.
const (
	ChartBar     = "bar"
	ChartLine    = "line"
	ChartPie     = "pie"
	ChartStacked = "stacked_bar"
	ChartTable   = "table"
)

// Spec describes one chart to render. Labels and Values drive
// single-series kinds; Series drives multi-series kinds; Columns and
// Cells drive the table kind.
type Spec struct {
	// Kind is one of the Chart* constants.
	Kind string
	// Title is drawn above the plot area.
	Title string
	// Labels are the category names along the x axis or pie slices.
	Labels []string
	// Values holds the single data series.
	Values []float64
	// Series maps series name to per-label values.
	Series map[string][]float64
	// SeriesOrder fixes the series drawing order; empty means sorted.
	SeriesOrder []string
	// Columns are table header cells.
	Columns []string
	// Cells are table body rows.
	Cells [][]string
	// Palette holds theme hex colors applied in order.
	Palette []string
}

// Renderer turns a Spec into an encoded image.
type Renderer interface {
	Render(spec Spec, w io.Writer) error
}

// ImageRenderer renders Specs to PNG at a fixed canvas size.
type ImageRenderer struct {
	// Width is the canvas width in pixels.
	Width int
	// Height is the canvas height in pixels.
	Height int
}

// NewImageRenderer creates a renderer sized for 16:9 slide bodies.
func NewImageRenderer() *ImageRenderer {
	return &ImageRenderer{Width: 800, Height: 500}
}

// Render encodes the spec as PNG.
func (r *ImageRenderer) Render(spec Spec, w io.Writer) error {
	switch spec.Kind {
	case ChartBar:
		return r.bar(spec, w)
	case ChartLine:
		return r.line(spec, w)
	case ChartPie:
		return r.pie(spec, w)
	case ChartStacked:
		return r.stacked(spec, w)
	case ChartTable:
		return r.table(spec, w)
	default:
		return fmt.Errorf("unsupported chart kind %q", spec.Kind)
	}
}

func (r *ImageRenderer) bar(spec Spec, w io.Writer) error {
	if len(spec.Labels) == 0 || len(spec.Labels) != len(spec.Values) {
		return fmt.Errorf("bar chart needs matching labels and values, got %d and %d", len(spec.Labels), len(spec.Values))
	}

	bars := make([]chart.Value, len(spec.Labels))
	for i, label := range spec.Labels {
		bars[i] = chart.Value{Label: label, Value: spec.Values[i], Style: fillStyle(spec.Palette, i)}
	}

	graph := chart.BarChart{
		Title:      spec.Title,
		Width:      r.Width,
		Height:     r.Height,
		BarWidth:   60,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		Bars:       bars,
	}
	return graph.Render(chart.PNG, w)
}

func (r *ImageRenderer) pie(spec Spec, w io.Writer) error {
	if len(spec.Labels) == 0 || len(spec.Labels) != len(spec.Values) {
		return fmt.Errorf("pie chart needs matching labels and values, got %d and %d", len(spec.Labels), len(spec.Values))
	}
	var total float64
	for _, v := range spec.Values {
		total += v
	}
	if total <= 0 {
		return fmt.Errorf("pie chart needs a positive value total")
	}

	values := make([]chart.Value, len(spec.Labels))
	for i, label := range spec.Labels {
		values[i] = chart.Value{Label: label, Value: spec.Values[i], Style: fillStyle(spec.Palette, i)}
	}

	graph := chart.PieChart{
		Title:  spec.Title,
		Width:  r.Width,
		Height: r.Height,
		Values: values,
	}
	return graph.Render(chart.PNG, w)
}

func (r *ImageRenderer) line(spec Spec, w io.Writer) error {
	series := spec.Series
	if len(series) == 0 {
		if len(spec.Values) == 0 {
			return fmt.Errorf("line chart needs at least one series")
		}
		series = map[string][]float64{spec.Title: spec.Values}
	}

	var list []chart.Series
	for i, name := range seriesNames(series, spec.SeriesOrder) {
		ys := series[name]
		if len(ys) < 2 {
			return fmt.Errorf("line series %q needs at least two points, got %d", name, len(ys))
		}
		xs := make([]float64, len(ys))
		for j := range ys {
			xs[j] = float64(j)
		}
		list = append(list, chart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style:   strokeStyle(spec.Palette, i),
		})
	}

	var ticks []chart.Tick
	for i, label := range spec.Labels {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: label})
	}

	graph := chart.Chart{
		Title:  spec.Title,
		Width:  r.Width,
		Height: r.Height,
		XAxis:  chart.XAxis{Ticks: ticks},
		Series: list,
	}
	return graph.Render(chart.PNG, w)
}

func (r *ImageRenderer) stacked(spec Spec, w io.Writer) error {
	if len(spec.Labels) == 0 || len(spec.Series) == 0 {
		return fmt.Errorf("comparison chart needs labels and at least one series")
	}
	names := seriesNames(spec.Series, spec.SeriesOrder)
	for _, name := range names {
		if len(spec.Series[name]) != len(spec.Labels) {
			return fmt.Errorf("series %q has %d values for %d labels", name, len(spec.Series[name]), len(spec.Labels))
		}
	}

	bars := make([]chart.StackedBar, len(spec.Labels))
	for i, label := range spec.Labels {
		values := make([]chart.Value, len(names))
		for j, name := range names {
			values[j] = chart.Value{Label: name, Value: spec.Series[name][i], Style: fillStyle(spec.Palette, j)}
		}
		bars[i] = chart.StackedBar{Name: label, Values: values}
	}

	graph := chart.StackedBarChart{
		Title:      spec.Title,
		Width:      r.Width,
		Height:     r.Height,
		BarSpacing: 40,
		Bars:       bars,
	}
	return graph.Render(chart.PNG, w)
}

// table draws a header row plus body grid with the low-level raster
// renderer; the chart library has no native table type.
func (r *ImageRenderer) table(spec Spec, w io.Writer) error {
	if len(spec.Columns) == 0 {
		return fmt.Errorf("table needs at least one column")
	}

	rend, err := chart.PNG(r.Width, r.Height)
	if err != nil {
		return err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return err
	}

	rend.SetFillColor(drawing.ColorWhite)
	rend.MoveTo(0, 0)
	rend.LineTo(r.Width, 0)
	rend.LineTo(r.Width, r.Height)
	rend.LineTo(0, r.Height)
	rend.Close()
	rend.Fill()

	rend.SetFont(font)
	headerFill := paletteColor(spec.Palette, 0, drawing.ColorFromHex("1F4E79"))
	top := 16
	if spec.Title != "" {
		rend.SetFontSize(16)
		rend.SetFontColor(drawing.ColorFromHex("333333"))
		rend.Text(spec.Title, 16, 28)
		top = 44
	}

	cols := len(spec.Columns)
	rows := len(spec.Cells) + 1
	cellW := (r.Width - 32) / cols
	cellH := (r.Height - top - 16) / rows
	if cellH > 48 {
		cellH = 48
	}

	cell := func(row, col int, fill drawing.Color) (x, y int) {
		x = 16 + col*cellW
		y = top + row*cellH
		rend.SetFillColor(fill)
		rend.MoveTo(x, y)
		rend.LineTo(x+cellW, y)
		rend.LineTo(x+cellW, y+cellH)
		rend.LineTo(x, y+cellH)
		rend.Close()
		rend.Fill()
		return x, y
	}

	rend.SetFontSize(12)
	for c, name := range spec.Columns {
		x, y := cell(0, c, headerFill)
		rend.SetFontColor(drawing.ColorWhite)
		rend.Text(name, x+8, y+cellH/2+5)
	}

	bodyFill := [2]drawing.Color{drawing.ColorWhite, drawing.ColorFromHex("F2F2F2")}
	for ri, row := range spec.Cells {
		for c := 0; c < cols; c++ {
			x, y := cell(ri+1, c, bodyFill[ri%2])
			if c < len(row) {
				rend.SetFontColor(drawing.ColorFromHex("333333"))
				rend.Text(row[c], x+8, y+cellH/2+5)
			}
		}
	}

	rend.SetStrokeColor(drawing.ColorFromHex("CCCCCC"))
	rend.SetStrokeWidth(1)
	for i := 0; i <= rows; i++ {
		y := top + i*cellH
		rend.MoveTo(16, y)
		rend.LineTo(16+cols*cellW, y)
		rend.Stroke()
	}
	for i := 0; i <= cols; i++ {
		x := 16 + i*cellW
		rend.MoveTo(x, top)
		rend.LineTo(x, top+rows*cellH)
		rend.Stroke()
	}

	return rend.Save(w)
}

// seriesNames returns order when given, else sorted map keys.
func seriesNames(series map[string][]float64, order []string) []string {
	if len(order) > 0 {
		return order
	}
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func fillStyle(palette []string, i int) chart.Style {
	if len(palette) == 0 {
		return chart.Style{}
	}
	c := paletteColor(palette, i, drawing.Color{})
	return chart.Style{FillColor: c, StrokeColor: c}
}

func strokeStyle(palette []string, i int) chart.Style {
	if len(palette) == 0 {
		return chart.Style{}
	}
	return chart.Style{StrokeColor: paletteColor(palette, i, drawing.Color{}), StrokeWidth: 2.5}
}

func paletteColor(palette []string, i int, fallback drawing.Color) drawing.Color {
	if len(palette) == 0 {
		return fallback
	}
	return drawing.ColorFromHex(strings.TrimPrefix(palette[i%len(palette)], "#"))
}
