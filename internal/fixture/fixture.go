// Package fixture serves gradebook data from a json5 file, for offline use
// and for tests.
package fixture

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"gradebook/internal/gradebook"

	"github.com/titanous/json5"
)

type UserData struct {
	Courses []gradebook.Course `json:"courses"`
	// keyed by course id
	Submissions map[string][]gradebook.Submission `json:"submissions"`
}

type Dataset struct {
	Users map[string]UserData `json:"users"`
}

// Source reads the dataset file again on every call.
type Source struct {
	path string
}

func NewSource(path string) Source {
	return Source{path: path}
}

func Load(path string) (Dataset, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, err
	}
	var dataset Dataset
	err = json5.Unmarshal(contents, &dataset)
	if err != nil {
		return Dataset{}, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return dataset, nil
}

func (s Source) user(user string) (UserData, error) {
	dataset, err := Load(s.path)
	if err != nil {
		return UserData{}, err
	}
	return dataset.Users[user], nil
}

func (s Source) Courses(ctx context.Context, user string) ([]gradebook.Course, error) {
	data, err := s.user(user)
	if err != nil {
		return nil, err
	}
	return data.Courses, nil
}

func (s Source) Submissions(ctx context.Context, user string, courseID int64) ([]gradebook.Submission, error) {
	data, err := s.user(user)
	if err != nil {
		return nil, err
	}
	return data.Submissions[strconv.FormatInt(courseID, 10)], nil
}
