// Package analytics computes gradebook statistics over the courses and
// submissions of a single user. Every call fetches fresh data from the
// source, nothing is shared between calls.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gradebook/internal/chart"
	"gradebook/internal/gradebook"
	"gradebook/internal/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("gradebook/internal/analytics")

// ErrNoData is returned by chart producers that have nothing to plot.
var ErrNoData = errors.New("no data to plot")

// NoCourseFound is returned by FindCourseName when no course matches.
const NoCourseFound = "no course found"

const (
	report_source_courses     = "source.courses"
	report_source_submissions = "source.submissions"
)

type Aggregator struct {
	source gradebook.Source
	charts chart.Charter
	tel    telemetry.API
}

func New(source gradebook.Source, charts chart.Charter, tel telemetry.API) Aggregator {
	return Aggregator{
		source: source,
		charts: charts,
		tel:    telemetry.NewScopedAPI("analytics", tel),
	}
}

func (a Aggregator) courses(ctx context.Context, user string) ([]gradebook.Course, error) {
	ctx, span := tracer.Start(ctx, "aggregator:courses", trace.WithAttributes(
		attribute.String("user", user),
	))
	defer span.End()

	courses, err := a.source.Courses(ctx, user)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		a.tel.ReportBroken(report_source_courses, err, user)
		return nil, fmt.Errorf("fetch courses: %w", err)
	}
	return courses, nil
}

func (a Aggregator) submissions(ctx context.Context, user string, courseID int64) ([]gradebook.Submission, error) {
	ctx, span := tracer.Start(ctx, "aggregator:submissions", trace.WithAttributes(
		attribute.String("user", user),
		attribute.Int64("course_id", courseID),
	))
	defer span.End()

	submissions, err := a.source.Submissions(ctx, user, courseID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		a.tel.ReportBroken(report_source_submissions, err, user, courseID)
		return nil, fmt.Errorf("fetch submissions of course %d: %w", courseID, err)
	}
	return submissions, nil
}

func (a Aggregator) CountCourses(ctx context.Context, user string) (int, error) {
	courses, err := a.courses(ctx, user)
	if err != nil {
		return 0, err
	}
	return len(courses), nil
}

// FindCourseByCode returns the id of the first course whose code contains
// substring, or 0 when none does.
func (a Aggregator) FindCourseByCode(ctx context.Context, user, substring string) (int64, error) {
	courses, err := a.courses(ctx, user)
	if err != nil {
		return 0, err
	}
	for _, course := range courses {
		if strings.Contains(course.Code, substring) {
			return course.ID, nil
		}
	}
	return 0, nil
}

// FirstCourse returns the id of the first course of the user, or 0.
func (a Aggregator) FirstCourse(ctx context.Context, user string) (int64, error) {
	courses, err := a.courses(ctx, user)
	if err != nil {
		return 0, err
	}
	if len(courses) == 0 {
		return 0, nil
	}
	return courses[0].ID, nil
}

// FindCourseName returns the name of the course with the given id. When the
// source returns the id more than once, the last match wins.
func (a Aggregator) FindCourseName(ctx context.Context, user string, courseID int64) (string, error) {
	courses, err := a.courses(ctx, user)
	if err != nil {
		return "", err
	}
	found := NoCourseFound
	for _, course := range courses {
		if course.ID == courseID {
			found = course.Name
		}
	}
	return found, nil
}

func (a Aggregator) RenderCourses(ctx context.Context, user string) (string, error) {
	courses, err := a.courses(ctx, user)
	if err != nil {
		return "", err
	}
	var out strings.Builder
	for _, course := range courses {
		fmt.Fprintf(&out, "%d: %s\n", course.ID, course.Code)
	}
	return out.String(), nil
}

func (a Aggregator) TotalPoints(ctx context.Context, user string, courseID int64) (float64, error) {
	submissions, err := a.submissions(ctx, user, courseID)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, s := range submissions {
		total += s.Assignment.PointsPossible
	}
	return total, nil
}

func (a Aggregator) CountComments(ctx context.Context, user string, courseID int64) (int, error) {
	submissions, err := a.submissions(ctx, user, courseID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, s := range submissions {
		total += len(s.Comments)
	}
	return total, nil
}

// GradedRatio renders "<graded>/<total>" over every submission in the course.
func (a Aggregator) GradedRatio(ctx context.Context, user string, courseID int64) (string, error) {
	submissions, err := a.submissions(ctx, user, courseID)
	if err != nil {
		return "", err
	}
	graded := 0
	for _, s := range submissions {
		if s.Graded() {
			graded++
		}
	}
	return fmt.Sprintf("%d/%d", graded, len(submissions)), nil
}

// GroupNames lists the distinct assignment group names of a course in the
// order they first appear.
func (a Aggregator) GroupNames(ctx context.Context, user string, courseID int64) ([]string, error) {
	submissions, err := a.submissions(ctx, user, courseID)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var names []string
	for _, s := range submissions {
		name := s.Assignment.Group.Name
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}
