// Package api implements the HTTP+JSON client for the exam service. Only
// three operations are consumed: passcode verification, draft fetch and
// draft save. Everything else the service offers is out of this client's
// hands.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prostudia/examclient/internal/model"
	"github.com/rs/zerolog"
)

// ErrTestNotFound is returned by VerifyPasscode when the passcode does not
// resolve to a test. Callers treat this as fatal for that start attempt.
var ErrTestNotFound = errors.New("api: no test for passcode")

// Client talks to the exam service REST API.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     zerolog.Logger
}

// NewClient creates a Client for the given base URL (e.g.
// "http://localhost:8080/api/v1"). All requests share one bounded timeout.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "api_client").Logger(),
	}
}

// envelope mirrors the service's standard response wrapper.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *errorBody      `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// VerifyPasscode resolves an access passcode to a test with its ordered
// question list. Called once, before a session starts.
func (c *Client) VerifyPasscode(ctx context.Context, passcode string) (*model.Test, error) {
	var payload struct {
		Test *model.Test `json:"test"`
	}

	status, err := c.get(ctx, "/test/verify_passcode/"+url.PathEscape(passcode), nil, &payload)
	if err != nil {
		if status == http.StatusNotFound {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("verify passcode: %w", err)
	}
	if payload.Test == nil {
		return nil, ErrTestNotFound
	}
	return payload.Test, nil
}

// FetchProgress retrieves the previously auto-saved draft for a student's
// attempt. A nil slice with nil error means no draft exists, which is the
// normal first-run case, not a failure.
func (c *Client) FetchProgress(ctx context.Context, studentID, testID int64) ([]model.QuestionAnswer, error) {
	query := url.Values{}
	query.Set("student_user_id", strconv.FormatInt(studentID, 10))
	query.Set("test_id", strconv.FormatInt(testID, 10))

	var payload struct {
		Progress *model.ProgressResponse `json:"progress"`
	}

	status, err := c.get(ctx, "/progress/current-progress", query, &payload)
	if err != nil {
		if status == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch progress: %w", err)
	}
	if payload.Progress == nil {
		return nil, nil
	}
	return payload.Progress.Answers, nil
}

// SaveProgress persists the full current answer set as the attempt's draft.
// The server applies last-write-wins per question.
func (c *Client) SaveProgress(ctx context.Context, testID, studentID int64, answers []model.QuestionAnswer) error {
	req := model.SaveProgressRequest{
		TestID:    testID,
		StudentID: studentID,
		Answers:   answers,
	}

	var payload struct {
		Saved bool `json:"saved"`
	}

	if _, err := c.post(ctx, "/progress/submission", req, &payload); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	if !payload.Saved {
		return errors.New("save progress: server refused draft")
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) (int, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) (int, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do executes the request and decodes the response envelope into out.
// Returns the HTTP status code alongside any error so callers can
// distinguish not-found from transport failures.
func (c *Client) do(req *http.Request, out interface{}) (int, error) {
	start := time.Now()

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read body: %w", err)
	}

	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Request completed")

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return resp.StatusCode, fmt.Errorf("decode envelope: %w", err)
	}

	if env.Error != nil {
		return resp.StatusCode, fmt.Errorf("%s: %s", env.Error.Code, env.Error.Message)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode data: %w", err)
		}
	}
	return resp.StatusCode, nil
}
