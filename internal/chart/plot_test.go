package chart

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestCharter(t *testing.T) (PlotCharter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	c := NewPlotCharter(PlotOptions{OutputDir: filepath.Join(t.TempDir(), "charts")})
	c.out = out
	return c, out
}

func requirePNG(t *testing.T, path string) {
	t.Helper()
	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(contents, []byte("\x89PNG")), "expected a png at %s", path)
}

func TestFilename(t *testing.T) {
	c := NewPlotCharter(PlotOptions{OutputDir: "out"})
	require.Equal(t, filepath.Join("out", "what-grade-will-i-earn.png"), c.Filename("What Grade Will I Earn?"))
	require.Equal(t, filepath.Join("out", "chart.png"), c.Filename("???"))
}

func TestPlotCharter(t *testing.T) {
	c, out := newTestCharter(t)
	ctx := context.Background()

	err := c.Histogram(ctx, Spec{Title: "Lateness", XLabel: "Due Dates", YLabel: "Number of Assignments"}, []float64{1, -2, 0, 3})
	require.NoError(t, err)
	requirePNG(t, c.Filename("Lateness"))

	err = c.Scatter(ctx, Spec{Title: "Points"}, []float64{10, 15}, []float64{5.5, 5})
	require.NoError(t, err)
	requirePNG(t, c.Filename("Points"))

	err = c.Lines(ctx, Spec{Title: "Prediction"}, []Series{
		{Label: "Max Points", Values: []float64{10, 20, 100}},
		{Label: "Min Score", Values: []float64{5, 10, 10}},
	})
	require.NoError(t, err)
	requirePNG(t, c.Filename("Prediction"))

	require.Contains(t, out.String(), "lateness.png")
	require.Contains(t, out.String(), "prediction.png")
}

func TestScatterMismatch(t *testing.T) {
	c, _ := newTestCharter(t)
	err := c.Scatter(context.Background(), Spec{Title: "Points"}, []float64{1, 2}, []float64{1})
	require.Error(t, err)
}

func TestViewerFailure(t *testing.T) {
	c, _ := newTestCharter(t)
	c.opts.Viewer = []string{filepath.Join(t.TempDir(), "missing-viewer")}
	err := c.Histogram(context.Background(), Spec{Title: "Scores"}, []float64{50, 75, 100})
	require.ErrorContains(t, err, "chart viewer")
}
