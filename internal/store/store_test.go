package store

import (
	"context"
	"errors"
	"testing"

	"gradebook/internal/gradebook"
	"gradebook/internal/gradebook/gradebooktest"
	"gradebook/internal/store/db"
	"gradebook/internal/telemetry"
	"gradebook/lib/testutil"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) Store {
	return NewStore(testutil.OpenDB(t, db.Schema), telemetry.SlogAPI{})
}

func TestImportRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	source := gradebooktest.NewSource()
	annie := source.Users["annie"]

	err := store.Import(ctx, "annie", annie.Courses, annie.Submissions)
	require.NoError(t, err)

	courses, err := store.Courses(ctx, "annie")
	require.NoError(t, err)
	require.Equal(t, annie.Courses, courses)

	submissions, err := store.Submissions(ctx, "annie", gradebooktest.MathCourse)
	require.NoError(t, err)
	require.Equal(t, gradebooktest.MathSubmissions(), submissions)

	submissions, err = store.Submissions(ctx, "annie", gradebooktest.CSCourse)
	require.NoError(t, err)
	require.Empty(t, submissions)
}

func TestImportReplacesUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := []gradebook.Course{{ID: 1, Code: "OLD100", Name: "Old"}}
	require.NoError(t, store.Import(ctx, "annie", first, nil))
	require.NoError(t, store.Import(ctx, "pierce", first, nil))

	second := []gradebook.Course{{ID: 2, Code: "NEW200", Name: "New"}}
	require.NoError(t, store.Import(ctx, "annie", second, nil))

	courses, err := store.Courses(ctx, "annie")
	require.NoError(t, err)
	require.Equal(t, second, courses)

	// other users are untouched
	courses, err = store.Courses(ctx, "pierce")
	require.NoError(t, err)
	require.Equal(t, first, courses)
}

func TestImportKeepsCourseOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	dup := gradebooktest.NewSource().Users["dup"]

	require.NoError(t, store.Import(ctx, "dup", dup.Courses, nil))
	courses, err := store.Courses(ctx, "dup")
	require.NoError(t, err)
	require.Equal(t, dup.Courses, courses)
}

func TestSnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	source := gradebooktest.NewSource()

	count, err := store.Snapshot(ctx, source, "annie")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	submissions, err := store.Submissions(ctx, "annie", gradebooktest.MathCourse)
	require.NoError(t, err)
	require.Len(t, submissions, 3)
	require.Equal(t, "Basic Addition", submissions[1].Assignment.Name)
	require.Equal(t, gradebooktest.Quizzes, submissions[1].Assignment.Group)
}

func TestSnapshotSourceFailure(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	source := gradebooktest.NewSource()
	require.NoError(t, store.Import(ctx, "annie", []gradebook.Course{{ID: 1, Code: "KEEP100"}}, nil))

	source.Err = errors.New("canvas is down")
	_, err := store.Snapshot(ctx, source, "annie")
	require.ErrorIs(t, err, source.Err)

	// a failed snapshot leaves the previous one in place
	courses, err := store.Courses(ctx, "annie")
	require.NoError(t, err)
	require.Equal(t, []gradebook.Course{{ID: 1, Code: "KEEP100"}}, courses)
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, store.Migrate(context.Background()))
}
