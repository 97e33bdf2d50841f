// Package gradebooktest provides an in-memory gradebook.Source and a small
// sample dataset for tests.
package gradebooktest

import (
	"context"
	"fmt"

	"gradebook/internal/gradebook"
)

type UserData struct {
	Courses     []gradebook.Course
	Submissions map[int64][]gradebook.Submission
}

// Source serves fixed data per user. Err, when set, is returned by every call.
// Calls counts how many fetches were made.
type Source struct {
	Users map[string]UserData
	Err   error
	Calls int
}

func (s *Source) Courses(ctx context.Context, user string) ([]gradebook.Course, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Users[user].Courses, nil
}

func (s *Source) Submissions(ctx context.Context, user string, courseID int64) ([]gradebook.Submission, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	data, ok := s.Users[user]
	if !ok {
		return nil, fmt.Errorf("unknown user %q", user)
	}
	return data.Submissions[courseID], nil
}

const (
	MathCourse int64 = 679554
	CSCourse   int64 = 100167
)

var (
	Homework = gradebook.Group{Name: "Homework", Weight: 25}
	Quizzes  = gradebook.Group{Name: "Quizzes", Weight: 15}
	Exams    = gradebook.Group{Name: "Exams", Weight: 40}
)

// MathSubmissions are two graded submissions and one ungraded one.
func MathSubmissions() []gradebook.Submission {
	return []gradebook.Submission{
		{
			Status: gradebook.StatusGraded,
			Score:  10,
			Grade:  "A",
			Comments: []gradebook.Comment{
				{Author: "Professor", Body: "Nice work"},
				{Author: "Annie", Body: "Thanks!"},
			},
			SubmittedAt: "2024-01-08T12:00:00+00:00",
			GradedAt:    "2024-01-11T09:00:00+00:00",
			Assignment: gradebook.Assignment{
				ID:             1,
				Name:           "Introduction",
				PointsPossible: 10,
				Module:         "Module 1",
				DueAt:          "2024-01-10T00:00:00+00:00",
				Group:          Homework,
			},
		},
		{
			Status: gradebook.StatusGraded,
			Score:  14,
			Grade:  "A",
			Comments: []gradebook.Comment{
				{Author: "Professor", Body: "Watch the signs"},
			},
			SubmittedAt: "2024-01-15T06:00:00+00:00",
			GradedAt:    "2024-01-16T09:00:00+00:00",
			Assignment: gradebook.Assignment{
				ID:             2,
				Name:           "Basic Addition",
				PointsPossible: 15,
				Module:         "Module 2",
				DueAt:          "2024-01-14T00:00:00+00:00",
				Group:          Quizzes,
			},
		},
		{
			Status:      gradebook.StatusSubmitted,
			SubmittedAt: "2024-02-01T00:00:00+00:00",
			Assignment: gradebook.Assignment{
				ID:             3,
				Name:           "Midterm",
				PointsPossible: 100,
				Module:         "Module 2",
				DueAt:          "2024-02-01T00:00:00+00:00",
				Group:          Exams,
			},
		},
	}
}

// NewSource returns a source with three users: "annie" with two courses,
// "pierce" with none and "dup" whose course list repeats an id.
func NewSource() *Source {
	return &Source{
		Users: map[string]UserData{
			"annie": {
				Courses: []gradebook.Course{
					{ID: MathCourse, Code: "MATH101", Name: "Calculus"},
					{ID: CSCourse, Code: "CISC108", Name: "Introduction to Computer Science"},
				},
				Submissions: map[int64][]gradebook.Submission{
					MathCourse: MathSubmissions(),
				},
			},
			"pierce": {},
			"dup": {
				Courses: []gradebook.Course{
					{ID: 7, Code: "ICRM304", Name: "History of Ice Cream"},
					{ID: 7, Code: "ICRM305", Name: "History of Frozen Yogurt"},
				},
			},
		},
	}
}
