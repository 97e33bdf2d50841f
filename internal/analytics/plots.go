package analytics

import (
	"context"

	"gradebook/internal/chart"
)

var (
	scoresChart = chart.Spec{
		Title:  "Distribution of Fractional Scores in the Course",
		XLabel: "Score Received",
		YLabel: "Number of Assignments",
	}
	earlinessChart = chart.Spec{
		Title:  "Lateness",
		XLabel: "Due Dates",
		YLabel: "Number of Assignments",
	}
	pointsChart = chart.Spec{
		Title:  "Points Possible vs Weighted Points",
		XLabel: "Points Possible",
		YLabel: "Weighted Points Possible",
	}
	predictionChart = chart.Spec{
		Title:  "What Grade Will I Earn?",
		XLabel: "Weighted Points",
		YLabel: "Course Percentage",
	}
)

func (a Aggregator) PlotScores(ctx context.Context, user string, courseID int64) error {
	submissions, err := a.submissions(ctx, user, courseID)
	if err != nil {
		return err
	}
	values := ScoreSeries(submissions)
	if len(values) == 0 {
		return ErrNoData
	}
	return a.charts.Histogram(ctx, scoresChart, values)
}

func (a Aggregator) PlotEarliness(ctx context.Context, user string, courseID int64) error {
	submissions, err := a.submissions(ctx, user, courseID)
	if err != nil {
		return err
	}
	values, err := EarlinessSeries(submissions)
	if err != nil {
		a.tel.ReportWarning("earliness.timestamp", err, courseID)
		return err
	}
	if len(values) == 0 {
		return ErrNoData
	}
	return a.charts.Histogram(ctx, earlinessChart, values)
}

func (a Aggregator) PlotPoints(ctx context.Context, user string, courseID int64) error {
	submissions, err := a.submissions(ctx, user, courseID)
	if err != nil {
		return err
	}
	possible, weighted, err := PointsSeries(submissions)
	if err != nil {
		return err
	}
	return a.charts.Scatter(ctx, pointsChart, possible, weighted)
}

func (a Aggregator) PlotPrediction(ctx context.Context, user string, courseID int64) error {
	submissions, err := a.submissions(ctx, user, courseID)
	if err != nil {
		return err
	}
	prediction, err := PredictionSeries(submissions)
	if err != nil {
		return err
	}
	return a.charts.Lines(ctx, predictionChart, []chart.Series{
		{Label: "Max Points", Values: prediction.MaxPoints},
		{Label: "Max Score", Values: prediction.MaxScore},
		{Label: "Min Score", Values: prediction.MinScore},
	})
}
