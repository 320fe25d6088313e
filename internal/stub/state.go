// Package stub is a development stand-in for the real exam service. It
// implements the three endpoints the client consumes, backed by process
// memory: verify passcode, fetch draft, save draft. It deliberately does
// no grading and no durable storage.
package stub

import (
	"sync"

	"github.com/prostudia/examclient/internal/model"
)

type draftKey struct {
	TestID    int64
	StudentID int64
}

// State holds the stub's in-memory tests and drafts.
type State struct {
	mu     sync.RWMutex
	tests  map[string]*model.Test // keyed by passcode
	drafts map[draftKey][]model.QuestionAnswer
}

// NewState creates an empty State.
func NewState() *State {
	return &State{
		tests:  make(map[string]*model.Test),
		drafts: make(map[draftKey][]model.QuestionAnswer),
	}
}

// AddTest registers a test under its passcode.
func (s *State) AddTest(t *model.Test) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tests[t.Passcode] = t
}

// TestByPasscode looks up a test. Second return is false when the passcode
// resolves to nothing.
func (s *State) TestByPasscode(passcode string) (*model.Test, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tests[passcode]
	return t, ok
}

// Draft returns the saved draft for an attempt, or nil if none exists.
func (s *State) Draft(testID, studentID int64) []model.QuestionAnswer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.drafts[draftKey{TestID: testID, StudentID: studentID}]
}

// PutDraft replaces the attempt's draft wholesale. Last write wins, which
// matches the real service: clients always send their full answer set.
func (s *State) PutDraft(testID, studentID int64, answers []model.QuestionAnswer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draftKey{TestID: testID, StudentID: studentID}] = answers
}

// SeedSampleTest loads one ready-to-take test so the client can be tried
// against the stub with zero setup. Passcode: DEMO01.
func (s *State) SeedSampleTest() {
	s.AddTest(&model.Test{
		ID:       1,
		Title:    "Midterm Exam - Data Structures",
		Duration: 30,
		Passcode: "DEMO01",
		Status:   model.TestStatusActive,
		Questions: []model.Question{
			{
				ID:      1,
				Type:    model.QuestionTypeMCQ,
				Text:    "What is the time complexity of binary search?",
				Options: []string{"O(n)", "O(log n)", "O(n²)", "O(1)"},
				Points:  5,
			},
			{
				ID:     2,
				Type:   model.QuestionTypeTrueFalse,
				Text:   "A queue removes elements in the order they were added.",
				Points: 3,
			},
			{
				ID:     3,
				Type:   model.QuestionTypeShortAnswer,
				Text:   "Explain the difference between stack and queue data structures.",
				Points: 10,
			},
		},
	})
}
