// Package store keeps snapshots of a user's gradebook in sqlite (or a remote
// libsql database) so the analytics can run without reaching the LMS.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"gradebook/internal/gradebook"
	"gradebook/internal/store/db"
	"gradebook/internal/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("gradebook/internal/store")

const (
	report_import   = "import"
	report_snapshot = "snapshot"
)

type Store struct {
	db  *sql.DB
	qry *db.Queries
	tel telemetry.API
}

func NewStore(database *sql.DB, tel telemetry.API) Store {
	return Store{
		db:  database,
		qry: db.New(database),
		tel: telemetry.NewScopedAPI("store", tel),
	}
}

// Migrate creates the tables when they do not exist yet.
func (s Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, db.Schema)
	return err
}

// Import replaces everything stored for user with the given courses and
// submissions, in a single transaction.
func (s Store) Import(ctx context.Context, user string, courses []gradebook.Course, submissions map[int64][]gradebook.Submission) error {
	ctx, span := tracer.Start(ctx, "store:import", trace.WithAttributes(
		attribute.String("user", user),
		attribute.Int("courses", len(courses)),
	))
	defer span.End()

	err := s.importTx(ctx, user, courses, submissions)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.tel.ReportBroken(report_import, err, user)
		return err
	}
	return nil
}

func (s Store) importTx(ctx context.Context, user string, courses []gradebook.Course, submissions map[int64][]gradebook.Submission) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	err = txqry.DeleteUser(ctx, user)
	if err != nil {
		return err
	}

	for i, course := range courses {
		err = txqry.CreateCourse(ctx, db.CreateCourseParams{
			User: user,
			Idx:  int64(i),
			ID:   course.ID,
			Code: course.Code,
			Name: course.Name,
		})
		if err != nil {
			return fmt.Errorf("course %d: %w", course.ID, err)
		}
	}

	for courseID, subs := range submissions {
		for i, sub := range subs {
			err = importSubmission(ctx, txqry, user, courseID, int64(i), sub)
			if err != nil {
				return fmt.Errorf("course %d: assignment %d: %w", courseID, sub.Assignment.ID, err)
			}
		}
	}

	return tx.Commit()
}

func importSubmission(ctx context.Context, txqry *db.Queries, user string, courseID, idx int64, sub gradebook.Submission) error {
	err := txqry.CreateGroup(ctx, db.CreateGroupParams{
		User:     user,
		CourseID: courseID,
		Name:     sub.Assignment.Group.Name,
		Weight:   sub.Assignment.Group.Weight,
	})
	if err != nil {
		return err
	}
	err = txqry.CreateAssignment(ctx, db.CreateAssignmentParams{
		User:           user,
		CourseID:       courseID,
		ID:             sub.Assignment.ID,
		Name:           sub.Assignment.Name,
		PointsPossible: sub.Assignment.PointsPossible,
		Module:         sub.Assignment.Module,
		DueAt:          sub.Assignment.DueAt,
		GroupName:      sub.Assignment.Group.Name,
	})
	if err != nil {
		return err
	}
	err = txqry.CreateSubmission(ctx, db.CreateSubmissionParams{
		User:         user,
		CourseID:     courseID,
		Idx:          idx,
		AssignmentID: sub.Assignment.ID,
		Status:       string(sub.Status),
		Score:        sub.Score,
		Grade:        sub.Grade,
		SubmittedAt:  sub.SubmittedAt,
		GradedAt:     sub.GradedAt,
	})
	if err != nil {
		return err
	}
	for i, comment := range sub.Comments {
		err = txqry.CreateComment(ctx, db.CreateCommentParams{
			User:          user,
			CourseID:      courseID,
			SubmissionIdx: idx,
			Idx:           int64(i),
			Author:        comment.Author,
			Body:          comment.Body,
			CreatedAt:     comment.CreatedAt,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s Store) Courses(ctx context.Context, user string) ([]gradebook.Course, error) {
	rows, err := s.qry.GetCourses(ctx, user)
	if err != nil {
		return nil, err
	}
	courses := make([]gradebook.Course, len(rows))
	for i, row := range rows {
		courses[i] = gradebook.Course{ID: row.ID, Code: row.Code, Name: row.Name}
	}
	return courses, nil
}

func (s Store) Submissions(ctx context.Context, user string, courseID int64) ([]gradebook.Submission, error) {
	rows, err := s.qry.GetSubmissions(ctx, user, courseID)
	if err != nil {
		return nil, err
	}
	comments, err := s.qry.GetComments(ctx, user, courseID)
	if err != nil {
		return nil, err
	}
	byIdx := make(map[int64][]gradebook.Comment)
	for _, c := range comments {
		byIdx[c.SubmissionIdx] = append(byIdx[c.SubmissionIdx], gradebook.Comment{
			Author:    c.Author,
			Body:      c.Body,
			CreatedAt: c.CreatedAt,
		})
	}

	submissions := make([]gradebook.Submission, len(rows))
	for i, row := range rows {
		submissions[i] = gradebook.Submission{
			Status:      gradebook.Status(row.Status),
			Score:       row.Score,
			Grade:       row.Grade,
			Comments:    byIdx[row.Idx],
			SubmittedAt: row.SubmittedAt,
			GradedAt:    row.GradedAt,
			Assignment: gradebook.Assignment{
				ID:             row.AssignmentID,
				Name:           row.AssignmentName,
				PointsPossible: row.PointsPossible,
				Module:         row.Module,
				DueAt:          row.DueAt,
				Group:          gradebook.Group{Name: row.GroupName, Weight: row.GroupWeight},
			},
		}
	}
	return submissions, nil
}

// Snapshot copies everything src knows about user into the store and returns
// how many courses were written.
func (s Store) Snapshot(ctx context.Context, src gradebook.Source, user string) (int, error) {
	ctx, span := tracer.Start(ctx, "store:snapshot", trace.WithAttributes(
		attribute.String("user", user),
	))
	defer span.End()

	courses, err := src.Courses(ctx, user)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.tel.ReportBroken(report_snapshot, err, user)
		return 0, fmt.Errorf("fetch courses: %w", err)
	}

	submissions := make(map[int64][]gradebook.Submission, len(courses))
	for _, course := range courses {
		subs, err := src.Submissions(ctx, user, course.ID)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			s.tel.ReportBroken(report_snapshot, err, user, course.ID)
			return 0, fmt.Errorf("fetch submissions of course %d: %w", course.ID, err)
		}
		submissions[course.ID] = subs
	}

	err = s.Import(ctx, user, courses, submissions)
	if err != nil {
		return 0, err
	}
	s.tel.ReportDebug("snapshot written", "user", user, "courses", len(courses))
	return len(courses), nil
}
