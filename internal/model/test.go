package model

// TestStatus enumerates the lifecycle states of a test as published
// by the exam service.
type TestStatus string

const (
	TestStatusDraft  TestStatus = "draft"
	TestStatusActive TestStatus = "active"
	TestStatusClosed TestStatus = "closed"
)

// Test is the metadata of one test as returned by the passcode
// verification endpoint, together with its ordered question list.
type Test struct {
	ID          int64      `json:"test_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Duration    int        `json:"duration"` // minutes
	Passcode    string     `json:"passcode"`
	ClassID     string     `json:"class_id,omitempty"`
	Status      TestStatus `json:"status"`
	Questions   []Question `json:"questions"`
}

// TotalPoints sums the point values of all questions on the test.
func (t *Test) TotalPoints() int {
	total := 0
	for i := range t.Questions {
		total += t.Questions[i].Points
	}
	return total
}
