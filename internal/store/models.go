package store

import "time"

// Session is one capture run. EndedAt is nil while the session is live.
type Session struct {
	ID        string
	Title     string
	Source    string
	StartedAt time.Time
	EndedAt   *time.Time
	CreatedAt time.Time

	// EntryCount is populated by ListSessions.
	EntryCount int
}

// Live reports whether the session has not been ended yet.
func (s *Session) Live() bool { return s.EndedAt == nil }
