package db

import "context"

type Course struct {
	ID   int64
	Code string
	Name string
}

const getCourses = `select id, code, name from courses where user = ? order by idx`

func (q *Queries) GetCourses(ctx context.Context, user string) ([]Course, error) {
	rows, err := q.db.QueryContext(ctx, getCourses, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Course
	for rows.Next() {
		var i Course
		if err := rows.Scan(&i.ID, &i.Code, &i.Name); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type SubmissionRow struct {
	Idx            int64
	Status         string
	Score          float64
	Grade          string
	SubmittedAt    string
	GradedAt       string
	AssignmentID   int64
	AssignmentName string
	PointsPossible float64
	Module         string
	DueAt          string
	GroupName      string
	GroupWeight    float64
}

const getSubmissions = `select
    s.idx, s.status, s.score, s.grade, s.submitted_at, s.graded_at,
    a.id, a.name, a.points_possible, a.module, a.due_at,
    a.group_name, coalesce(g.weight, 0)
from submissions s
inner join assignments a
    on a.user = s.user and a.course_id = s.course_id and a.id = s.assignment_id
left join assignment_groups g
    on g.user = a.user and g.course_id = a.course_id and g.name = a.group_name
where s.user = ? and s.course_id = ?
order by s.idx`

func (q *Queries) GetSubmissions(ctx context.Context, user string, courseID int64) ([]SubmissionRow, error) {
	rows, err := q.db.QueryContext(ctx, getSubmissions, user, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SubmissionRow
	for rows.Next() {
		var i SubmissionRow
		if err := rows.Scan(
			&i.Idx, &i.Status, &i.Score, &i.Grade, &i.SubmittedAt, &i.GradedAt,
			&i.AssignmentID, &i.AssignmentName, &i.PointsPossible, &i.Module, &i.DueAt,
			&i.GroupName, &i.GroupWeight,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type Comment struct {
	SubmissionIdx int64
	Author        string
	Body          string
	CreatedAt     string
}

const getComments = `select submission_idx, author, body, created_at
from comments
where user = ? and course_id = ?
order by submission_idx, idx`

func (q *Queries) GetComments(ctx context.Context, user string, courseID int64) ([]Comment, error) {
	rows, err := q.db.QueryContext(ctx, getComments, user, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Comment
	for rows.Next() {
		var i Comment
		if err := rows.Scan(&i.SubmissionIdx, &i.Author, &i.Body, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteUser removes every row belonging to a user.
func (q *Queries) DeleteUser(ctx context.Context, user string) error {
	for _, table := range []string{"comments", "submissions", "assignments", "assignment_groups", "courses"} {
		_, err := q.db.ExecContext(ctx, "delete from "+table+" where user = ?", user)
		if err != nil {
			return err
		}
	}
	return nil
}

type CreateCourseParams struct {
	User string
	Idx  int64
	ID   int64
	Code string
	Name string
}

const createCourse = `insert into courses (user, idx, id, code, name) values (?, ?, ?, ?, ?)`

func (q *Queries) CreateCourse(ctx context.Context, arg CreateCourseParams) error {
	_, err := q.db.ExecContext(ctx, createCourse, arg.User, arg.Idx, arg.ID, arg.Code, arg.Name)
	return err
}

type CreateGroupParams struct {
	User     string
	CourseID int64
	Name     string
	Weight   float64
}

const createGroup = `insert or replace into assignment_groups (user, course_id, name, weight) values (?, ?, ?, ?)`

func (q *Queries) CreateGroup(ctx context.Context, arg CreateGroupParams) error {
	_, err := q.db.ExecContext(ctx, createGroup, arg.User, arg.CourseID, arg.Name, arg.Weight)
	return err
}

type CreateAssignmentParams struct {
	User           string
	CourseID       int64
	ID             int64
	Name           string
	PointsPossible float64
	Module         string
	DueAt          string
	GroupName      string
}

const createAssignment = `insert or replace into assignments (
    user, course_id, id, name, points_possible, module, due_at, group_name
) values (?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateAssignment(ctx context.Context, arg CreateAssignmentParams) error {
	_, err := q.db.ExecContext(
		ctx, createAssignment,
		arg.User, arg.CourseID, arg.ID, arg.Name, arg.PointsPossible, arg.Module, arg.DueAt, arg.GroupName,
	)
	return err
}

type CreateSubmissionParams struct {
	User         string
	CourseID     int64
	Idx          int64
	AssignmentID int64
	Status       string
	Score        float64
	Grade        string
	SubmittedAt  string
	GradedAt     string
}

const createSubmission = `insert into submissions (
    user, course_id, idx, assignment_id, status, score, grade, submitted_at, graded_at
) values (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateSubmission(ctx context.Context, arg CreateSubmissionParams) error {
	_, err := q.db.ExecContext(
		ctx, createSubmission,
		arg.User, arg.CourseID, arg.Idx, arg.AssignmentID, arg.Status, arg.Score, arg.Grade, arg.SubmittedAt, arg.GradedAt,
	)
	return err
}

type CreateCommentParams struct {
	User          string
	CourseID      int64
	SubmissionIdx int64
	Idx           int64
	Author        string
	Body          string
	CreatedAt     string
}

const createComment = `insert into comments (
    user, course_id, submission_idx, idx, author, body, created_at
) values (?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateComment(ctx context.Context, arg CreateCommentParams) error {
	_, err := q.db.ExecContext(
		ctx, createComment,
		arg.User, arg.CourseID, arg.SubmissionIdx, arg.Idx, arg.Author, arg.Body, arg.CreatedAt,
	)
	return err
}
