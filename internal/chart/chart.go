// Package chart renders long-format trajectory tables: one low-opacity
// line per trajectory, an emphasized mean line on top, and one sub-panel
// per noise level when the table carries a noise column.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/sebastiankruger/trajectory-simulator/internal/simulate"
	"github.com/sebastiankruger/trajectory-simulator/internal/table"
)

const (
	panelWidth  = 4 * vg.Inch
	panelHeight = 3 * vg.Inch
)

// Options controls the rendering of one table.
type Options struct {
	Title string
	Alpha float64 // per-trajectory line opacity in (0, 1], default 0.2
	Facet bool    // split into one panel per noise level when available
}

// Chart is a rendered set of panels ready to be written as PNG.
type Chart struct {
	canvas *vgimg.Canvas
}

// WritePNG writes the rendered chart to w.
func (c *Chart) WritePNG(w io.Writer) error {
	png := vgimg.PngCanvas{Canvas: c.canvas}
	_, err := png.WriteTo(w)
	return errors.Wrap(err, "write png")
}

// SavePNG writes the rendered chart to a file.
func (c *Chart) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create chart file")
	}
	defer f.Close()
	return c.WritePNG(f)
}

// Plotter renders a long-format table into a chart.
type Plotter interface {
	Plot(tbl *table.Table, opts Options) (*Chart, error)
}

// LinePlotter is the default Plotter implementation.
type LinePlotter struct{}

// NewLinePlotter creates a LinePlotter.
func NewLinePlotter() *LinePlotter {
	return &LinePlotter{}
}

// Plot renders the table. Tables with a noise column are faceted into one
// panel per level when opts.Facet is set; plain tables render as a single
// panel.
func (lp *LinePlotter) Plot(tbl *table.Table, opts Options) (*Chart, error) {
	if tbl == nil || tbl.Len() == 0 {
		return nil, errors.Wrap(simulate.ErrInvalidArgument, "empty table")
	}
	if opts.Alpha == 0 {
		opts.Alpha = 0.2
	}
	if opts.Alpha < 0 || opts.Alpha > 1 {
		return nil, errors.Wrapf(simulate.ErrInvalidArgument, "alpha %g outside (0, 1]", opts.Alpha)
	}

	var panels []*plot.Plot
	if opts.Facet && tbl.HasNoise() {
		for _, level := range tbl.NoiseLevels() {
			p, err := lp.renderPanel(tbl, &level, fmt.Sprintf("noise = %g", level), opts)
			if err != nil {
				return nil, err
			}
			panels = append(panels, p)
		}
	} else {
		p, err := lp.renderPanel(tbl, nil, opts.Title, opts)
		if err != nil {
			return nil, err
		}
		panels = append(panels, p)
	}

	img := vgimg.New(vg.Length(len(panels))*panelWidth, panelHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 1,
		Cols: len(panels),
		PadX: vg.Millimeter,
		PadY: vg.Millimeter,
	}
	canvases := plot.Align([][]*plot.Plot{panels}, tiles, dc)
	for j, p := range panels {
		p.Draw(canvases[0][j])
	}
	return &Chart{canvas: img}, nil
}

// renderPanel draws the trajectories of one facet. A nil level selects all
// rows.
func (lp *LinePlotter) renderPanel(tbl *table.Table, level *float64, title string, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = table.ColTime
	p.Y.Label.Text = table.ColValue

	lineColor := color.NRGBA{B: 160, A: uint8(opts.Alpha * 255)}

	byTrajectory := make(map[string]plotter.XYs)
	var order []string
	sums := make(map[float64]float64)
	counts := make(map[float64]int)

	for i := 0; i < tbl.Len(); i++ {
		if level != nil && tbl.Noise[i] != *level {
			continue
		}
		id := tbl.Trajectory[i]
		if _, ok := byTrajectory[id]; !ok {
			order = append(order, id)
		}
		byTrajectory[id] = append(byTrajectory[id], plotter.XY{X: tbl.Time[i], Y: tbl.Value[i]})
		sums[tbl.Time[i]] += tbl.Value[i]
		counts[tbl.Time[i]]++
	}

	for _, id := range order {
		line, err := plotter.NewLine(byTrajectory[id])
		if err != nil {
			return nil, errors.Wrapf(err, "trajectory %s", id)
		}
		line.LineStyle.Color = lineColor
		line.LineStyle.Width = vg.Points(0.75)
		p.Add(line)
	}

	times := make([]float64, 0, len(sums))
	for t := range sums {
		times = append(times, t)
	}
	sort.Float64s(times)

	mean := make(plotter.XYs, len(times))
	for i, t := range times {
		mean[i] = plotter.XY{X: t, Y: sums[t] / float64(counts[t])}
	}
	meanLine, err := plotter.NewLine(mean)
	if err != nil {
		return nil, errors.Wrap(err, "mean line")
	}
	meanLine.LineStyle.Color = color.NRGBA{R: 200, A: 255}
	meanLine.LineStyle.Width = vg.Points(2)
	p.Add(meanLine)

	return p, nil
}
