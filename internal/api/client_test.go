package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prostudia/examclient/internal/model"
	"github.com/rs/zerolog"
)

func writeEnvelope(w http.ResponseWriter, status int, data interface{}, errCode string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	body := map[string]interface{}{"data": data}
	if errCode != "" {
		body["error"] = map[string]string{"code": errCode, "message": errCode}
	}
	json.NewEncoder(w).Encode(body)
}

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 2*time.Second, zerolog.Nop()), srv
}

func TestVerifyPasscode(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/test/verify_passcode/ABC123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		writeEnvelope(w, http.StatusOK, map[string]interface{}{
			"test": model.Test{
				ID:       7,
				Title:    "Algebra Quiz",
				Duration: 45,
				Status:   model.TestStatusActive,
				Questions: []model.Question{
					{ID: 1, Type: model.QuestionTypeMCQ, Text: "2+2?", Options: []string{"3", "4"}, Points: 2},
				},
			},
		}, "")
	})
	defer srv.Close()

	test, err := client.VerifyPasscode(context.Background(), "ABC123")
	if err != nil {
		t.Fatalf("VerifyPasscode: %v", err)
	}
	if test.ID != 7 || test.Duration != 45 || len(test.Questions) != 1 {
		t.Errorf("unexpected test: %+v", test)
	}
}

func TestVerifyPasscodeNotFound(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, nil, "INVALID_PASSCODE")
	})
	defer srv.Close()

	_, err := client.VerifyPasscode(context.Background(), "NOPE")
	if !errors.Is(err, ErrTestNotFound) {
		t.Errorf("err = %v, want ErrTestNotFound", err)
	}
}

func TestFetchProgressAbsentIsNotAnError(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, nil, "NO_DRAFT")
	})
	defer srv.Close()

	answers, err := client.FetchProgress(context.Background(), 42, 7)
	if err != nil {
		t.Fatalf("FetchProgress: %v", err)
	}
	if answers != nil {
		t.Errorf("answers = %v, want nil", answers)
	}
}

func TestFetchProgressReturnsDraft(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("student_user_id") != "42" || q.Get("test_id") != "7" {
			t.Errorf("query = %v", q)
		}
		writeEnvelope(w, http.StatusOK, map[string]interface{}{
			"progress": model.ProgressResponse{
				TestID:    7,
				StudentID: 42,
				Answers: []model.QuestionAnswer{
					{QuestionID: 1, Answer: "B"},
					{QuestionID: 3, Answer: "stack is LIFO"},
				},
			},
		}, "")
	})
	defer srv.Close()

	answers, err := client.FetchProgress(context.Background(), 42, 7)
	if err != nil {
		t.Fatalf("FetchProgress: %v", err)
	}
	if len(answers) != 2 || answers[0].Answer != "B" {
		t.Errorf("answers = %v", answers)
	}
}

func TestSaveProgress(t *testing.T) {
	var got model.SaveProgressRequest
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/progress/submission" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		writeEnvelope(w, http.StatusOK, map[string]bool{"saved": true}, "")
	})
	defer srv.Close()

	answers := []model.QuestionAnswer{{QuestionID: 1, Answer: "A"}}
	if err := client.SaveProgress(context.Background(), 7, 42, answers); err != nil {
		t.Fatalf("SaveProgress: %v", err)
	}
	if got.TestID != 7 || got.StudentID != 42 || len(got.Answers) != 1 {
		t.Errorf("request = %+v", got)
	}
}

func TestSaveProgressServerError(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusInternalServerError, nil, "INTERNAL_ERROR")
	})
	defer srv.Close()

	err := client.SaveProgress(context.Background(), 7, 42, []model.QuestionAnswer{{QuestionID: 1, Answer: "A"}})
	if err == nil {
		t.Fatal("expected error on 500")
	}
}
