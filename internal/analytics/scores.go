package analytics

import (
	"context"
	"strings"

	"gradebook/internal/gradebook"
)

// Score is an earned/possible pair. A Score with no graded work is the
// no-data result of an average, it is never a fault.
type Score struct {
	Earned   float64
	Possible float64
	// Graded counts the submissions that contributed.
	Graded int
}

// Empty reports that no graded work contributed to the score.
func (s Score) Empty() bool {
	return s.Graded == 0
}

// Value is Earned/Possible, 0 when nothing was possible.
func (s Score) Value() float64 {
	if s.Possible == 0 {
		return 0
	}
	return s.Earned / s.Possible
}

func unweighted(submissions []gradebook.Submission, keep func(gradebook.Submission) bool) Score {
	var score Score
	for _, s := range submissions {
		if !s.Graded() || !keep(s) {
			continue
		}
		score.Earned += s.Score
		score.Possible += s.Assignment.PointsPossible
		score.Graded++
	}
	return score
}

// AverageUnweighted is sum(score)/sum(points possible) over graded submissions.
func (a Aggregator) AverageUnweighted(ctx context.Context, user string, courseID int64) (Score, error) {
	submissions, err := a.submissions(ctx, user, courseID)
	if err != nil {
		return Score{}, err
	}
	return unweighted(submissions, func(gradebook.Submission) bool { return true }), nil
}

// AverageWeighted scales both score and points possible of every graded
// submission by the weight of its assignment group.
func (a Aggregator) AverageWeighted(ctx context.Context, user string, courseID int64) (Score, error) {
	submissions, err := a.submissions(ctx, user, courseID)
	if err != nil {
		return Score{}, err
	}
	var score Score
	for _, s := range submissions {
		if !s.Graded() {
			continue
		}
		weight := s.Assignment.Group.Weight
		score.Earned += s.Score * weight
		score.Possible += s.Assignment.PointsPossible * weight
		score.Graded++
	}
	return score, nil
}

// AverageGroup is the unweighted average restricted to one assignment group,
// the group name is matched case-insensitively.
func (a Aggregator) AverageGroup(ctx context.Context, user string, courseID int64, group string) (Score, error) {
	submissions, err := a.submissions(ctx, user, courseID)
	if err != nil {
		return Score{}, err
	}
	return unweighted(submissions, func(s gradebook.Submission) bool {
		return strings.EqualFold(s.Assignment.Group.Name, group)
	}), nil
}
