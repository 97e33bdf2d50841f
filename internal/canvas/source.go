package canvas

import (
	"context"
	"fmt"
	"net/url"

	"gradebook/internal/gradebook"
)

type course struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CourseCode string `json:"course_code"`
}

type assignmentGroup struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	GroupWeight float64 `json:"group_weight"`
}

type moduleItem struct {
	Type      string `json:"type"`
	ContentID int64  `json:"content_id"`
}

type module struct {
	ID    int64        `json:"id"`
	Name  string       `json:"name"`
	Items []moduleItem `json:"items"`
}

type submissionComment struct {
	AuthorName string `json:"author_name"`
	Comment    string `json:"comment"`
	CreatedAt  string `json:"created_at"`
}

type assignment struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	PointsPossible    *float64 `json:"points_possible"`
	DueAt             *string  `json:"due_at"`
	AssignmentGroupID int64    `json:"assignment_group_id"`
}

type submission struct {
	AssignmentID       int64               `json:"assignment_id"`
	WorkflowState      string              `json:"workflow_state"`
	Score              *float64            `json:"score"`
	Grade              *string             `json:"grade"`
	SubmittedAt        *string             `json:"submitted_at"`
	GradedAt           *string             `json:"graded_at"`
	SubmissionComments []submissionComment `json:"submission_comments"`
	Assignment         assignment          `json:"assignment"`
}

func deref[T any](value *T) T {
	var zero T
	if value == nil {
		return zero
	}
	return *value
}

func (c *Client) Courses(ctx context.Context, user string) ([]gradebook.Course, error) {
	courses, err := getAll[course](ctx, c, fmt.Sprintf("/api/v1/users/%s/courses", url.PathEscape(user)), nil)
	if err != nil {
		return nil, err
	}
	out := make([]gradebook.Course, len(courses))
	for i, course := range courses {
		out[i] = gradebook.Course{
			ID:   course.ID,
			Code: course.CourseCode,
			Name: course.Name,
		}
	}
	return out, nil
}

func (c *Client) groups(ctx context.Context, courseID int64) (map[int64]gradebook.Group, error) {
	groups, err := getAll[assignmentGroup](ctx, c, fmt.Sprintf("/api/v1/courses/%d/assignment_groups", courseID), nil)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]gradebook.Group, len(groups))
	for _, g := range groups {
		out[g.ID] = gradebook.Group{Name: g.Name, Weight: g.GroupWeight}
	}
	return out, nil
}

// modules maps assignment ids to the name of the module that contains them.
func (c *Client) modules(ctx context.Context, courseID int64) (map[int64]string, error) {
	modules, err := getAll[module](ctx, c, fmt.Sprintf("/api/v1/courses/%d/modules", courseID), url.Values{
		"include[]": {"items"},
	})
	if err != nil {
		return nil, err
	}
	out := map[int64]string{}
	for _, m := range modules {
		for _, item := range m.Items {
			if item.Type != "Assignment" {
				continue
			}
			out[item.ContentID] = m.Name
		}
	}
	return out, nil
}

func (c *Client) Submissions(ctx context.Context, user string, courseID int64) ([]gradebook.Submission, error) {
	groups, err := c.groups(ctx, courseID)
	if err != nil {
		return nil, err
	}
	modules, err := c.modules(ctx, courseID)
	if err != nil {
		return nil, err
	}

	submissions, err := getAll[submission](ctx, c, fmt.Sprintf("/api/v1/courses/%d/students/submissions", courseID), url.Values{
		"student_ids[]": {user},
		"include[]":     {"assignment", "submission_comments"},
	})
	if err != nil {
		return nil, err
	}

	out := make([]gradebook.Submission, len(submissions))
	for i, s := range submissions {
		group, ok := groups[s.Assignment.AssignmentGroupID]
		if !ok {
			c.tel.ReportWarning("source.group", courseID, s.Assignment.ID, s.Assignment.AssignmentGroupID)
		}

		comments := make([]gradebook.Comment, len(s.SubmissionComments))
		for j, comment := range s.SubmissionComments {
			comments[j] = gradebook.Comment{
				Author:    comment.AuthorName,
				Body:      comment.Comment,
				CreatedAt: comment.CreatedAt,
			}
		}

		out[i] = gradebook.Submission{
			Status:      gradebook.Status(s.WorkflowState),
			Score:       deref(s.Score),
			Grade:       deref(s.Grade),
			Comments:    comments,
			SubmittedAt: deref(s.SubmittedAt),
			GradedAt:    deref(s.GradedAt),
			Assignment: gradebook.Assignment{
				ID:             s.Assignment.ID,
				Name:           s.Assignment.Name,
				PointsPossible: deref(s.Assignment.PointsPossible),
				Module:         modules[s.Assignment.ID],
				DueAt:          deref(s.Assignment.DueAt),
				Group:          group,
			},
		}
	}
	return out, nil
}
