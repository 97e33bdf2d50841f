package analytics

import (
	"context"
	"testing"

	"gradebook/internal/gradebook"
	"gradebook/internal/gradebook/gradebooktest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestDaysBetween(t *testing.T) {
	table := []struct {
		first    string
		second   string
		expected int
	}{
		{first: "2024-01-10T00:00:00+00:00", second: "2024-01-15T00:00:00+00:00", expected: 5},
		{first: "2024-01-15T00:00:00+00:00", second: "2024-01-10T00:00:00+00:00", expected: -5},
		// partial days floor toward the earlier date
		{first: "2024-01-10T00:00:00+00:00", second: "2024-01-10T23:59:59+00:00", expected: 0},
		{first: "2024-01-10T01:00:00+00:00", second: "2024-01-10T00:00:00+00:00", expected: -1},
		{first: "2024-01-15T06:00:00+00:00", second: "2024-01-14T00:00:00+00:00", expected: -2},
		{first: "2024-01-10T00:00:00Z", second: "2024-01-12T00:00:00-0500", expected: 2},
		{first: "2024-01-10T00:00:00+02:00", second: "2024-01-10T23:00:00-02:00", expected: 1},
	}
	for _, row := range table {
		days, err := DaysBetween(row.first, row.second)
		require.NoError(t, err, row.first, row.second)
		require.Equal(t, row.expected, days, "%s -> %s", row.first, row.second)
	}
}

func TestDaysBetweenMalformed(t *testing.T) {
	_, err := DaysBetween("yesterday", "2024-01-15T00:00:00+00:00")
	require.ErrorContains(t, err, "malformed timestamp")

	_, err = DaysBetween("2024-01-15T00:00:00+00:00", "2024-01-15")
	require.Error(t, err)
}

func TestScoreSeries(t *testing.T) {
	got := ScoreSeries(gradebooktest.MathSubmissions())
	if diff := cmp.Diff([]float64{100, 14.0 / 15.0 * 100}, got, approx); diff != "" {
		t.Fatalf("score series mismatch (-want +got):\n%s", diff)
	}

	zero := []gradebook.Submission{{Grade: "A", Score: 1, Status: gradebook.StatusGraded}}
	require.Empty(t, ScoreSeries(zero))
}

func TestEarlinessSeries(t *testing.T) {
	got, err := EarlinessSeries(gradebooktest.MathSubmissions())
	require.NoError(t, err)
	require.Equal(t, []float64{1, -2, 0}, got)

	broken := gradebooktest.MathSubmissions()
	broken[1].SubmittedAt = "not a date"
	_, err = EarlinessSeries(broken)
	require.ErrorContains(t, err, "assignment 2")
}

const mathTotalWeighted = 10*25/100.0 + 15*15/100.0 + 100*40/100.0

func TestPointsSeries(t *testing.T) {
	possible, weighted, err := PointsSeries(gradebooktest.MathSubmissions())
	require.NoError(t, err)
	require.Equal(t, []float64{10, 15, 100}, possible)

	expected := []float64{
		10 * 25 / mathTotalWeighted,
		15 * 15 / mathTotalWeighted,
		100 * 40 / mathTotalWeighted,
	}
	if diff := cmp.Diff(expected, weighted, approx); diff != "" {
		t.Fatalf("weighted points mismatch (-want +got):\n%s", diff)
	}

	_, _, err = PointsSeries(nil)
	require.ErrorIs(t, err, ErrNoData)
}

func TestPredictionSeries(t *testing.T) {
	got, err := PredictionSeries(gradebooktest.MathSubmissions())
	require.NoError(t, err)

	w := mathTotalWeighted
	expected := Prediction{
		MaxPoints: []float64{250 / w, 475 / w, 4475 / w},
		MaxScore:  []float64{250 / w, 460 / w, 4460 / w},
		MinScore:  []float64{250 / w, 460 / w, 460 / w},
	}
	if diff := cmp.Diff(expected, got, approx); diff != "" {
		t.Fatalf("prediction mismatch (-want +got):\n%s", diff)
	}
	require.InDelta(t, 100, got.MaxPoints[2], 1e-9)

	weightless := gradebooktest.MathSubmissions()
	for i := range weightless {
		weightless[i].Assignment.Group.Weight = 0
	}
	_, err = PredictionSeries(weightless)
	require.ErrorIs(t, err, ErrNoData)
}

func TestPlots(t *testing.T) {
	agg, _, charts := newTestAggregator()
	ctx := context.Background()

	require.NoError(t, agg.PlotScores(ctx, "annie", gradebooktest.MathCourse))
	require.NoError(t, agg.PlotEarliness(ctx, "annie", gradebooktest.MathCourse))
	require.NoError(t, agg.PlotPoints(ctx, "annie", gradebooktest.MathCourse))
	require.NoError(t, agg.PlotPrediction(ctx, "annie", gradebooktest.MathCourse))

	require.Len(t, charts.charts, 4)
	require.Equal(t, "histogram", charts.charts[0].kind)
	require.Equal(t, scoresChart, charts.charts[0].spec)
	require.Equal(t, "histogram", charts.charts[1].kind)
	require.Equal(t, "Lateness", charts.charts[1].spec.Title)
	require.Equal(t, "scatter", charts.charts[2].kind)
	require.Equal(t, []float64{10, 15, 100}, charts.charts[2].xs)
	require.Equal(t, "lines", charts.charts[3].kind)
	require.Equal(t, "What Grade Will I Earn?", charts.charts[3].spec.Title)

	labels := []string{}
	for _, s := range charts.charts[3].series {
		labels = append(labels, s.Label)
	}
	require.Equal(t, []string{"Max Points", "Max Score", "Min Score"}, labels)
}

func TestPlotsWithoutData(t *testing.T) {
	agg, _, charts := newTestAggregator()
	ctx := context.Background()

	require.ErrorIs(t, agg.PlotScores(ctx, "annie", gradebooktest.CSCourse), ErrNoData)
	require.ErrorIs(t, agg.PlotEarliness(ctx, "annie", gradebooktest.CSCourse), ErrNoData)
	require.ErrorIs(t, agg.PlotPoints(ctx, "annie", gradebooktest.CSCourse), ErrNoData)
	require.ErrorIs(t, agg.PlotPrediction(ctx, "annie", gradebooktest.CSCourse), ErrNoData)
	require.Empty(t, charts.charts)
}
