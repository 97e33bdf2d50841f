package chart

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

type PlotOptions struct {
	// OutputDir is where PNG files are written, it is created when missing.
	OutputDir string
	// Viewer is the command (and leading args) used to show a rendered file,
	// the file path is appended. Empty means charts are only written.
	Viewer []string
	// Width and Height are in inches, both default to 6.
	Width  float64
	Height float64
	// Bins is the number of histogram bins, defaults to 10.
	Bins int
}

// PlotCharter renders charts with gonum/plot.
type PlotCharter struct {
	opts PlotOptions
	// out is where the path of every written chart is announced
	out io.Writer
}

func NewPlotCharter(opts PlotOptions) PlotCharter {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.Width <= 0 {
		opts.Width = 6
	}
	if opts.Height <= 0 {
		opts.Height = 6
	}
	if opts.Bins <= 0 {
		opts.Bins = 10
	}
	return PlotCharter{opts: opts, out: os.Stdout}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Filename is the file a chart with the given title is written to.
func (c PlotCharter) Filename(title string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		slug = "chart"
	}
	return filepath.Join(c.opts.OutputDir, slug+".png")
}

func newPlot(spec Spec) *plot.Plot {
	p := plot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel
	return p
}

func (c PlotCharter) Histogram(ctx context.Context, spec Spec, values []float64) error {
	p := newPlot(spec)
	hist, err := plotter.NewHist(plotter.Values(values), c.opts.Bins)
	if err != nil {
		return fmt.Errorf("build histogram: %w", err)
	}
	p.Add(hist)
	return c.show(ctx, spec, p)
}

func (c PlotCharter) Scatter(ctx context.Context, spec Spec, xs, ys []float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("scatter needs as many x values (%d) as y values (%d)", len(xs), len(ys))
	}
	points := make(plotter.XYs, len(xs))
	for i := range xs {
		points[i].X = xs[i]
		points[i].Y = ys[i]
	}

	p := newPlot(spec)
	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return fmt.Errorf("build scatter: %w", err)
	}
	p.Add(scatter)
	return c.show(ctx, spec, p)
}

func (c PlotCharter) Lines(ctx context.Context, spec Spec, series []Series) error {
	p := newPlot(spec)
	for i, s := range series {
		points := make(plotter.XYs, len(s.Values))
		for j, v := range s.Values {
			points[j].X = float64(j)
			points[j].Y = v
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			return fmt.Errorf("build line %q: %w", s.Label, err)
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i)
		p.Add(line)
		p.Legend.Add(s.Label, line)
	}
	p.Legend.Top = true
	return c.show(ctx, spec, p)
}

// show writes the chart and, when a viewer is configured, blocks until the
// viewer exits.
func (c PlotCharter) show(ctx context.Context, spec Spec, p *plot.Plot) error {
	err := os.MkdirAll(c.opts.OutputDir, 0755)
	if err != nil {
		return err
	}
	path := c.Filename(spec.Title)
	err = p.Save(vg.Length(c.opts.Width)*vg.Inch, vg.Length(c.opts.Height)*vg.Inch, path)
	if err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	fmt.Fprintf(c.out, "chart written to %s\n", path)

	if len(c.opts.Viewer) == 0 {
		return nil
	}
	args := append(append([]string{}, c.opts.Viewer[1:]...), path)
	cmd := exec.CommandContext(ctx, c.opts.Viewer[0], args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	slog.DebugContext(ctx, "opening chart viewer", "viewer", c.opts.Viewer[0], "path", path)
	err = cmd.Run()
	if err != nil {
		return fmt.Errorf("chart viewer: %w", err)
	}
	return nil
}
