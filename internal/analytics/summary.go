package analytics

import (
	"context"

	"github.com/aclements/go-moremath/stats"
)

// Summary describes the distribution of fractional scores (0-1) of the
// graded work in a course.
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
}

func (a Aggregator) Summarize(ctx context.Context, user string, courseID int64) (Summary, error) {
	submissions, err := a.submissions(ctx, user, courseID)
	if err != nil {
		return Summary{}, err
	}

	var sample stats.Sample
	for _, s := range submissions {
		if !s.Graded() || s.Assignment.PointsPossible <= 0 {
			continue
		}
		sample.Xs = append(sample.Xs, s.Score/s.Assignment.PointsPossible)
	}
	if len(sample.Xs) == 0 {
		return Summary{}, nil
	}
	sample.Sort()

	lo, hi := sample.Bounds()
	summary := Summary{
		Count:  len(sample.Xs),
		Mean:   sample.Mean(),
		Median: sample.Quantile(0.5),
		Min:    lo,
		Max:    hi,
	}
	if len(sample.Xs) > 1 {
		summary.StdDev = sample.StdDev()
	}
	return summary, nil
}
