package fixture

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gradebook/internal/gradebook"

	"github.com/stretchr/testify/require"
)

func TestSource(t *testing.T) {
	source := NewSource("testdata/gradebook.json5")
	ctx := context.Background()

	courses, err := source.Courses(ctx, "annie")
	require.NoError(t, err)
	require.Equal(t, []gradebook.Course{
		{ID: 679554, Code: "MATH101", Name: "Calculus"},
		{ID: 100167, Code: "CISC108", Name: "Introduction to Computer Science"},
	}, courses)

	submissions, err := source.Submissions(ctx, "annie", 679554)
	require.NoError(t, err)
	require.Len(t, submissions, 2)
	require.True(t, submissions[0].Graded())
	require.Equal(t, "Homework", submissions[0].Assignment.Group.Name)
	require.Equal(t, 25.0, submissions[0].Assignment.Group.Weight)
	require.Len(t, submissions[0].Comments, 1)
	require.False(t, submissions[1].Graded())
	require.Empty(t, submissions[1].Assignment.DueAt)

	submissions, err = source.Submissions(ctx, "annie", 100167)
	require.NoError(t, err)
	require.Empty(t, submissions)

	courses, err = source.Courses(ctx, "pierce")
	require.NoError(t, err)
	require.Empty(t, courses)

	courses, err = source.Courses(ctx, "nobody")
	require.NoError(t, err)
	require.Empty(t, courses)
}

func TestSourceRereadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gradebook.json5")
	write := func(contents string) {
		require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	}
	source := NewSource(path)
	ctx := context.Background()

	write(`{users: {troy: {courses: [{id: 394382, code: "ICRM304", name: "History of Ice Cream"}]}}}`)
	courses, err := source.Courses(ctx, "troy")
	require.NoError(t, err)
	require.Len(t, courses, 1)

	write(`{users: {troy: {courses: []}}}`)
	courses, err = source.Courses(ctx, "troy")
	require.NoError(t, err)
	require.Empty(t, courses)
}

func TestSourceMissingFile(t *testing.T) {
	source := NewSource(filepath.Join(t.TempDir(), "missing.json5"))
	_, err := source.Courses(context.Background(), "annie")
	require.True(t, os.IsNotExist(err))
}
