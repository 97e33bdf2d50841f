// Package chart renders numeric series as histogram, scatter and line charts.
package chart

import "context"

// Spec carries the fixed labels of a chart.
type Spec struct {
	Title  string
	XLabel string
	YLabel string
}

// Series is one labeled line of a line chart, x is the index of each value.
type Series struct {
	Label  string
	Values []float64
}

// Charter is the charting collaborator. Each call renders synchronously and
// returns once the chart has been shown (or written).
type Charter interface {
	Histogram(ctx context.Context, spec Spec, values []float64) error
	Scatter(ctx context.Context, spec Spec, xs, ys []float64) error
	Lines(ctx context.Context, spec Spec, series []Series) error
}
