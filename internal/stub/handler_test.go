package stub

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prostudia/examclient/internal/config"
	"github.com/prostudia/examclient/internal/model"
	"github.com/prostudia/examclient/internal/validator"
	"github.com/rs/zerolog"
)

func newTestRouter() http.Handler {
	validator.Setup()

	state := NewState()
	state.SeedSampleTest()

	cfg := &config.Config{GinMode: "test"}
	return SetupRouter(NewHandler(state, zerolog.Nop()), cfg)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestVerifyPasscodeEndpoint(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/test/verify_passcode/DEMO01", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var env struct {
		Data struct {
			Test model.Test `json:"test"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Test.ID != 1 || len(env.Data.Test.Questions) != 3 {
		t.Errorf("test = %+v", env.Data.Test)
	}

	if w := doJSON(t, router, http.MethodGet, "/api/v1/test/verify_passcode/WRONG", nil); w.Code != http.StatusNotFound {
		t.Errorf("bad passcode status = %d", w.Code)
	}
}

func TestDraftRoundTrip(t *testing.T) {
	router := newTestRouter()

	// No draft yet.
	w := doJSON(t, router, http.MethodGet, "/api/v1/progress/current-progress?student_user_id=42&test_id=1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("empty draft status = %d", w.Code)
	}

	// Save a draft.
	w = doJSON(t, router, http.MethodPost, "/api/v1/progress/submission", model.SaveProgressRequest{
		TestID:    1,
		StudentID: 42,
		Answers: []model.QuestionAnswer{
			{QuestionID: 1, Answer: "B"},
			{QuestionID: 2, Answer: "true"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("save status = %d, body = %s", w.Code, w.Body.String())
	}

	// Fetch it back.
	w = doJSON(t, router, http.MethodGet, "/api/v1/progress/current-progress?student_user_id=42&test_id=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("fetch status = %d", w.Code)
	}

	var env struct {
		Data struct {
			Progress model.ProgressResponse `json:"progress"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data.Progress.Answers) != 2 {
		t.Errorf("answers = %v", env.Data.Progress.Answers)
	}

	// A later save replaces the draft wholesale.
	w = doJSON(t, router, http.MethodPost, "/api/v1/progress/submission", model.SaveProgressRequest{
		TestID:    1,
		StudentID: 42,
		Answers:   []model.QuestionAnswer{{QuestionID: 1, Answer: "C"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("resave status = %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/progress/current-progress?student_user_id=42&test_id=1", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data.Progress.Answers) != 1 || env.Data.Progress.Answers[0].Answer != "C" {
		t.Errorf("answers after resave = %v", env.Data.Progress.Answers)
	}
}

func TestSaveProgressValidation(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/progress/submission", map[string]interface{}{
		"test_id": 0,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
