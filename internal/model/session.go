package model

import "time"

// SessionStatus enumerates exam session states.
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusSubmitting SessionStatus = "submitting"
	SessionStatusSubmitted  SessionStatus = "submitted"
)

// ExamSession represents one student's attempt at one test.
//
// Deadline is the absolute wall-clock instant at which the attempt must
// auto-submit. It is computed exactly once, when the attempt starts, and
// persisted outside process memory so that a restart resumes the same
// countdown instead of granting extra time. Remaining time is always
// derived as deadline minus now, never tracked as a decrementing counter.
type ExamSession struct {
	TestID      int64            `json:"test_id"`
	StudentID   int64            `json:"student_id"`
	Deadline    time.Time        `json:"deadline"`
	Answers     map[int64]string `json:"answers"`
	LastSavedAt *time.Time       `json:"last_saved_at,omitempty"`
	Status      SessionStatus    `json:"status"`
}

// Remaining returns the time left on the attempt at the given instant,
// clamped to zero.
func (s *ExamSession) Remaining(now time.Time) time.Duration {
	r := s.Deadline.Sub(now)
	if r < 0 {
		return 0
	}
	return r
}
