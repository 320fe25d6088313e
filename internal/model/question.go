package model

// QuestionType enumerates the supported question formats.
type QuestionType string

const (
	QuestionTypeMCQ         QuestionType = "mcq"
	QuestionTypeTrueFalse   QuestionType = "true-false"
	QuestionTypeShortAnswer QuestionType = "short-answer"
)

// Question represents a single question on a test, as delivered to the
// student. Correct answers are never part of this payload.
type Question struct {
	ID      int64        `json:"question_id"`
	Type    QuestionType `json:"type"`
	Text    string       `json:"text"`
	Options []string     `json:"options,omitempty"` // MCQ only
	Points  int          `json:"points"`
}
