package analytics

import (
	"fmt"
	"time"

	"gradebook/internal/gradebook"
)

const day = 24 * time.Hour

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
}

func parseTimestamp(value string) (time.Time, error) {
	var err error
	for _, layout := range timestampLayouts {
		var t time.Time
		t, err = time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("malformed timestamp %q: %w", value, err)
}

// DaysBetween returns the whole days from first to second (second - first).
// Partial days are floored, so a difference of -1h is -1 day.
func DaysBetween(first, second string) (int, error) {
	from, err := parseTimestamp(first)
	if err != nil {
		return 0, err
	}
	to, err := parseTimestamp(second)
	if err != nil {
		return 0, err
	}
	diff := to.Sub(from)
	days := int(diff / day)
	if diff%day < 0 {
		days--
	}
	return days, nil
}

// ScoreSeries is the percentage score of every submission that carries a
// grade and is worth points.
func ScoreSeries(submissions []gradebook.Submission) []float64 {
	var out []float64
	for _, s := range submissions {
		if !s.HasGrade() || s.Assignment.PointsPossible <= 0 {
			continue
		}
		out = append(out, s.Score/s.Assignment.PointsPossible*100)
	}
	return out
}

// EarlinessSeries is how many days before the due date each submission was
// turned in, negative when late. Submissions without both timestamps are
// skipped.
func EarlinessSeries(submissions []gradebook.Submission) ([]float64, error) {
	var out []float64
	for _, s := range submissions {
		if s.SubmittedAt == "" || s.Assignment.DueAt == "" {
			continue
		}
		days, err := DaysBetween(s.SubmittedAt, s.Assignment.DueAt)
		if err != nil {
			return nil, fmt.Errorf("assignment %d: %w", s.Assignment.ID, err)
		}
		out = append(out, float64(days))
	}
	return out, nil
}

// totalWeighted is the sum of group weighted points possible, in course
// percentage units.
func totalWeighted(submissions []gradebook.Submission) float64 {
	total := 0.0
	for _, s := range submissions {
		total += s.Assignment.PointsPossible * s.Assignment.Group.Weight / 100
	}
	return total
}

// PointsSeries pairs the points possible of each assignment with its share of
// the weighted course total.
func PointsSeries(submissions []gradebook.Submission) (possible, weighted []float64, err error) {
	total := totalWeighted(submissions)
	if total == 0 {
		return nil, nil, ErrNoData
	}
	possible = make([]float64, len(submissions))
	weighted = make([]float64, len(submissions))
	for i, s := range submissions {
		possible[i] = s.Assignment.PointsPossible
		weighted[i] = s.Assignment.PointsPossible * s.Assignment.Group.Weight / total
	}
	return possible, weighted, nil
}

type Prediction struct {
	MaxPoints []float64
	MaxScore  []float64
	MinScore  []float64
}

// PredictionSeries walks the submissions in order and keeps three running
// sums in course percentage: every point possible, the best still reachable
// score (ungraded work counted as full marks) and the worst still reachable
// score (ungraded work counted as zero). Graded work is work with a graded_at
// timestamp.
func PredictionSeries(submissions []gradebook.Submission) (Prediction, error) {
	total := totalWeighted(submissions)
	if total == 0 {
		return Prediction{}, ErrNoData
	}

	var out Prediction
	var maxPoints, maxScore, minScore float64
	for _, s := range submissions {
		weight := s.Assignment.Group.Weight
		possible := s.Assignment.PointsPossible * weight / total
		maxPoints += possible
		if s.GradedAt != "" {
			earned := s.Score * weight / total
			minScore += earned
			maxScore += earned
		} else {
			maxScore += possible
		}
		out.MaxPoints = append(out.MaxPoints, maxPoints)
		out.MaxScore = append(out.MaxScore, maxScore)
		out.MinScore = append(out.MinScore, minScore)
	}
	return out, nil
}
