// Package gradebook holds the read-only records a learning management system
// hands back for a student, and the Source contract every backend implements.
package gradebook

import "context"

type Course struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Group is a weighted category of assignments, Weight is in percentage points.
type Group struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

type Assignment struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	PointsPossible float64 `json:"points_possible"`
	Module         string  `json:"module"`
	// DueAt is kept as the raw ISO-8601 string the source returned,
	// empty when the assignment has no due date.
	DueAt string `json:"due_at"`
	Group Group  `json:"group"`
}

type Comment struct {
	Author    string `json:"author"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

type Status string

const (
	StatusGraded      Status = "graded"
	StatusSubmitted   Status = "submitted"
	StatusUnsubmitted Status = "unsubmitted"
)

type Submission struct {
	Status Status `json:"status"`
	// Score and Grade are only meaningful when Status is StatusGraded.
	Score       float64    `json:"score"`
	Grade       string     `json:"grade"`
	Comments    []Comment  `json:"comments"`
	SubmittedAt string     `json:"submitted_at"`
	GradedAt    string     `json:"graded_at"`
	Assignment  Assignment `json:"assignment"`
}

func (s Submission) Graded() bool {
	return s.Status == StatusGraded
}

func (s Submission) HasGrade() bool {
	return s.Grade != ""
}

// Source provides the courses and submissions of a user. Implementations
// must return complete results for a single call, there is no caching
// between calls.
type Source interface {
	Courses(ctx context.Context, user string) ([]Course, error)
	Submissions(ctx context.Context, user string, courseID int64) ([]Submission, error)
}
