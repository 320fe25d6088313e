package model

// QuestionAnswer is one recorded answer inside a draft, keyed by question.
type QuestionAnswer struct {
	QuestionID int64  `json:"question_id"`
	Answer     string `json:"answer"`
}

// SaveProgressRequest is the payload for the save-draft endpoint. The full
// current answer set is always sent, never a diff, so that an in-flight
// save can never clobber answers recorded after a later, more complete one.
type SaveProgressRequest struct {
	TestID    int64            `json:"test_id" binding:"required,gt=0"`
	StudentID int64            `json:"student_id" binding:"required,gt=0"`
	Answers   []QuestionAnswer `json:"answers" binding:"required,dive"`
}

// ProgressResponse is the draft returned by the current-progress endpoint.
// An empty Answers slice means no draft has been saved yet.
type ProgressResponse struct {
	TestID    int64            `json:"test_id"`
	StudentID int64            `json:"student_id"`
	Answers   []QuestionAnswer `json:"answers"`
}
