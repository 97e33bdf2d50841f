package canvas

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"gradebook/internal/gradebook"
	"gradebook/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, body)
}

func newTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("/api/v1/users/self/courses", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		if r.URL.Query().Get("page") == "2" {
			writeJSON(w, `[{"id": 100167, "name": "Introduction to Computer Science", "course_code": "CISC108"}]`)
			return
		}
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		w.Header().Set("Link", fmt.Sprintf(
			`<%s/api/v1/users/self/courses?page=1>; rel="current", <%s/api/v1/users/self/courses?page=2>; rel="next"`,
			server.URL, server.URL,
		))
		writeJSON(w, `[{"id": 679554, "name": "Calculus", "course_code": "MATH101"}]`)
	})
	mux.HandleFunc("/api/v1/courses/679554/assignment_groups", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[
			{"id": 1, "name": "Homework", "group_weight": 25},
			{"id": 2, "name": "Exams", "group_weight": 40}
		]`)
	})
	mux.HandleFunc("/api/v1/courses/679554/modules", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, []string{"items"}, r.URL.Query()["include[]"])
		writeJSON(w, `[
			{"id": 10, "name": "Module 1", "items": [
				{"type": "Assignment", "content_id": 299650},
				{"type": "Page", "content_id": 553716}
			]},
			{"id": 11, "name": "Module 2", "items": [{"type": "Assignment", "content_id": 553716}]}
		]`)
	})
	mux.HandleFunc("/api/v1/courses/679554/students/submissions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, []string{"self"}, r.URL.Query()["student_ids[]"])
		assert.ElementsMatch(t, []string{"assignment", "submission_comments"}, r.URL.Query()["include[]"])
		writeJSON(w, `[
			{
				"assignment_id": 299650,
				"workflow_state": "graded",
				"score": 10.0,
				"grade": "A",
				"submitted_at": "2024-01-08T12:00:00Z",
				"graded_at": "2024-01-11T09:00:00Z",
				"submission_comments": [{"author_name": "Professor", "comment": "Nice work", "created_at": "2024-01-11T09:00:00Z"}],
				"assignment": {"id": 299650, "name": "Introduction", "points_possible": 10, "due_at": "2024-01-10T00:00:00Z", "assignment_group_id": 1}
			},
			{
				"assignment_id": 553716,
				"workflow_state": "unsubmitted",
				"score": null,
				"grade": null,
				"submitted_at": null,
				"graded_at": null,
				"assignment": {"id": 553716, "name": "Midterm", "points_possible": null, "due_at": null, "assignment_group_id": 2}
			}
		]`)
	})
	mux.HandleFunc("/api/v1/courses/404/assignment_groups", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors": [{"message": "The specified resource does not exist."}]}`, http.StatusNotFound)
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, baseUrl string) *Client {
	client, err := NewClient(ClientOptions{BaseUrl: baseUrl, Token: "secret"}, telemetry.SlogAPI{})
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestCourses(t *testing.T) {
	server := newTestServer(t)
	client := newTestClient(t, server.URL)

	courses, err := client.Courses(context.Background(), "self")
	require.NoError(t, err)
	require.Equal(t, []gradebook.Course{
		{ID: 679554, Code: "MATH101", Name: "Calculus"},
		{ID: 100167, Code: "CISC108", Name: "Introduction to Computer Science"},
	}, courses)
}

func TestSubmissions(t *testing.T) {
	server := newTestServer(t)
	client := newTestClient(t, server.URL)

	submissions, err := client.Submissions(context.Background(), "self", 679554)
	require.NoError(t, err)
	require.Equal(t, []gradebook.Submission{
		{
			Status:      gradebook.StatusGraded,
			Score:       10,
			Grade:       "A",
			Comments:    []gradebook.Comment{{Author: "Professor", Body: "Nice work", CreatedAt: "2024-01-11T09:00:00Z"}},
			SubmittedAt: "2024-01-08T12:00:00Z",
			GradedAt:    "2024-01-11T09:00:00Z",
			Assignment: gradebook.Assignment{
				ID:             299650,
				Name:           "Introduction",
				PointsPossible: 10,
				Module:         "Module 1",
				DueAt:          "2024-01-10T00:00:00Z",
				Group:          gradebook.Group{Name: "Homework", Weight: 25},
			},
		},
		{
			Status:   gradebook.StatusUnsubmitted,
			Comments: []gradebook.Comment{},
			Assignment: gradebook.Assignment{
				ID:     553716,
				Name:   "Midterm",
				Module: "Module 2",
				Group:  gradebook.Group{Name: "Exams", Weight: 40},
			},
		},
	}, submissions)
}

func TestDumpDir(t *testing.T) {
	server := newTestServer(t)
	dir := filepath.Join(t.TempDir(), "dumps")
	client, err := NewClient(ClientOptions{BaseUrl: server.URL, Token: "secret", DumpDir: dir}, telemetry.SlogAPI{})
	require.NoError(t, err)

	_, err = client.Courses(context.Background(), "self")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestErrorStatus(t *testing.T) {
	server := newTestServer(t)
	client := newTestClient(t, server.URL)

	_, err := client.Submissions(context.Background(), "self", 404)
	require.ErrorContains(t, err, "404")
	require.ErrorContains(t, err, "/api/v1/courses/404/assignment_groups")
}

func TestNewClientRejectsRelativeUrl(t *testing.T) {
	_, err := NewClient(ClientOptions{BaseUrl: "canvas.example.edu"}, telemetry.SlogAPI{})
	require.Error(t, err)
}

func TestNextLink(t *testing.T) {
	table := []struct {
		header   string
		expected string
	}{
		{header: "", expected: ""},
		{header: `<https://x/api?page=1>; rel="current"`, expected: ""},
		{
			header:   `<https://x/api?page=1>; rel="current",<https://x/api?page=2>; rel="next",<https://x/api?page=9>; rel="last"`,
			expected: "https://x/api?page=2",
		},
	}
	for _, row := range table {
		require.Equal(t, row.expected, nextLink(row.header))
	}
}
