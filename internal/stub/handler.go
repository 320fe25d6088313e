package stub

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prostudia/examclient/internal/model"
	"github.com/prostudia/examclient/internal/response"
	"github.com/prostudia/examclient/internal/validator"
	"github.com/rs/zerolog"
)

// Handler serves the stub endpoints.
type Handler struct {
	state *State
	log   zerolog.Logger
}

// NewHandler creates a Handler over the given state.
func NewHandler(state *State, log zerolog.Logger) *Handler {
	return &Handler{
		state: state,
		log:   log.With().Str("component", "stub_handler").Logger(),
	}
}

// VerifyPasscode godoc
// GET /api/v1/test/verify_passcode/:passcode
// Resolves a passcode to the test metadata and its ordered questions.
func (h *Handler) VerifyPasscode(c *gin.Context) {
	passcode := c.Param("passcode")

	test, ok := h.state.TestByPasscode(passcode)
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrInvalidPasscode)
		return
	}
	if test.Status != model.TestStatusActive {
		response.Fail(c, http.StatusBadRequest, response.ErrTestNotActive)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"test": test})
}

// GetProgress godoc
// GET /api/v1/progress/current-progress?student_user_id=&test_id=
// Returns the saved draft for an attempt. 404 when none exists — the
// client treats that as a clean start, not a failure.
func (h *Handler) GetProgress(c *gin.Context) {
	studentID, err1 := strconv.ParseInt(c.Query("student_user_id"), 10, 64)
	testID, err2 := strconv.ParseInt(c.Query("test_id"), 10, 64)
	if err1 != nil || err2 != nil || studentID <= 0 || testID <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	answers := h.state.Draft(testID, studentID)
	if len(answers) == 0 {
		response.Fail(c, http.StatusNotFound, response.ErrNoDraft)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"progress": model.ProgressResponse{
		TestID:    testID,
		StudentID: studentID,
		Answers:   answers,
	}})
}

// SaveProgress godoc
// POST /api/v1/progress/submission
// Replaces the attempt's draft with the submitted answer set.
func (h *Handler) SaveProgress(c *gin.Context) {
	var req model.SaveProgressRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	h.state.PutDraft(req.TestID, req.StudentID, req.Answers)

	h.log.Debug().
		Int64("test_id", req.TestID).
		Int64("student_id", req.StudentID).
		Int("answers", len(req.Answers)).
		Msg("Draft stored")

	response.Success(c, http.StatusOK, gin.H{"saved": true})
}
