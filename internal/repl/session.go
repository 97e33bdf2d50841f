package repl

import "github.com/google/uuid"

// Session is the state of one REPL run.
type Session struct {
	User string
	// CourseID is the course every command works on, 0 ends the session.
	CourseID int64
	ID       uuid.UUID
}

func NewSession(user string) *Session {
	return &Session{User: user, ID: uuid.New()}
}
