package analytics

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatNumber prints a number in its shortest form, 10 rather than 10.0.
func FormatNumber(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// formatScore always keeps a decimal place on whole numbers, 10.0 rather than 10.
func formatScore(x float64) string {
	if x == math.Trunc(x) && math.Abs(x) < 1e15 {
		return strconv.FormatFloat(x, 'f', 1, 64)
	}
	return FormatNumber(x)
}

// RenderAssignment describes the submission for one assignment, or returns
// "Assignment not found: <id>" when the course has no such assignment.
func (a Aggregator) RenderAssignment(ctx context.Context, user string, courseID, assignmentID int64) (string, error) {
	submissions, err := a.submissions(ctx, user, courseID)
	if err != nil {
		return "", err
	}

	rendered := fmt.Sprintf("Assignment not found: %d", assignmentID)
	for _, s := range submissions {
		if s.Assignment.ID != assignmentID {
			continue
		}
		grade := "(missing)"
		if s.Graded() {
			grade = fmt.Sprintf(
				"%s/%s (%s)",
				formatScore(s.Score),
				FormatNumber(s.Assignment.PointsPossible),
				s.Grade,
			)
		}
		rendered = fmt.Sprintf(
			"%d: %s\nGroup: %s\nModule: %s\nGrade: %s",
			s.Assignment.ID,
			s.Assignment.Name,
			s.Assignment.Group.Name,
			s.Assignment.Module,
			grade,
		)
	}
	return rendered, nil
}

// RenderAll lists every submission of the course, one per line.
func (a Aggregator) RenderAll(ctx context.Context, user string, courseID int64) (string, error) {
	submissions, err := a.submissions(ctx, user, courseID)
	if err != nil {
		return "", err
	}
	var out strings.Builder
	for _, s := range submissions {
		state := "Ungraded"
		if s.HasGrade() {
			state = "Graded"
		}
		fmt.Fprintf(&out, "%d: %s (%s)\n", s.Assignment.ID, s.Assignment.Name, state)
	}
	return out.String(), nil
}
