// Package session implements the exam attempt lifecycle: deadline
// computation and persistence, countdown, answer buffering, periodic draft
// auto-save, restore-on-reload and final submission.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/prostudia/examclient/internal/config"
	"github.com/prostudia/examclient/internal/model"
	"github.com/prostudia/examclient/internal/store"
	"github.com/rs/zerolog"
)

// RestoredNoticeWindow is how long the "answers restored" notice stays
// visible after a draft has been loaded.
const RestoredNoticeWindow = 8 * time.Second

var (
	// ErrNotInProgress is returned when an operation requires an
	// in-progress session but the session has already begun submitting.
	ErrNotInProgress = errors.New("session: attempt is no longer in progress")

	// ErrNotStarted is returned when an operation is called before Start.
	ErrNotStarted = errors.New("session: attempt has not been started")
)

// ProgressAPI is the slice of the exam service the controller talks to.
type ProgressAPI interface {
	FetchProgress(ctx context.Context, studentID, testID int64) ([]model.QuestionAnswer, error)
	SaveProgress(ctx context.Context, testID, studentID int64, answers []model.QuestionAnswer) error
}

// Controller owns one student's attempt at one test. All state is guarded
// by a single mutex; the countdown ticker, the auto-save ticker and the
// caller recording answers may each run on their own goroutine.
type Controller struct {
	api   ProgressAPI
	store store.Store
	clock Clock
	log   zerolog.Logger

	tickEvery time.Duration
	saveEvery time.Duration

	mu            sync.Mutex
	sess          model.ExamSession
	started       bool
	dirty         bool
	writeSeq      uint64 // bumped on every RecordAnswer
	restoreDone   bool
	restoredUntil time.Time
	saveInFlight  bool

	// stop is closed exactly once, when status leaves in_progress. Both
	// periodic schedules in Run end at that moment.
	stop chan struct{}
}

// NewController creates a Controller. The store holds the persisted
// deadline record; the clock is injectable for tests.
func NewController(cfg *config.Config, api ProgressAPI, st store.Store, clock Clock, log zerolog.Logger) *Controller {
	tick := cfg.TickInterval
	if tick <= 0 {
		tick = time.Second
	}
	save := cfg.SaveInterval
	if save <= 0 {
		save = time.Minute
	}
	if clock == nil {
		clock = SystemClock()
	}

	return &Controller{
		api:       api,
		store:     st,
		clock:     clock,
		log:       log.With().Str("component", "exam_session").Logger(),
		tickEvery: tick,
		saveEvery: save,
		stop:      make(chan struct{}),
	}
}

// Start begins (or resumes) the attempt. If a deadline was persisted for
// this test by an earlier run, it is reused as-is, so a reload never grants
// extra time. Otherwise the deadline is computed from durationMinutes and
// persisted before Start returns.
func (c *Controller) Start(testID, studentID int64, durationMinutes int) (model.ExamSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return c.sess, nil
	}

	now := c.clock.Now()
	key := config.StoreKey.TestDeadlineKey(testID)

	var deadline time.Time
	stored, err := c.store.Get(key)
	switch {
	case err == nil:
		unix, perr := strconv.ParseInt(stored, 10, 64)
		if perr != nil {
			return model.ExamSession{}, fmt.Errorf("corrupt deadline record for test %d: %w", testID, perr)
		}
		deadline = time.Unix(unix, 0)
		c.log.Info().
			Int64("test_id", testID).
			Time("deadline", deadline).
			Dur("remaining", maxDuration(0, deadline.Sub(now))).
			Msg("Resumed persisted deadline")

	case errors.Is(err, store.ErrNotFound):
		deadline = now.Add(time.Duration(durationMinutes) * time.Minute)
		if err := c.store.Set(key, strconv.FormatInt(deadline.Unix(), 10)); err != nil {
			return model.ExamSession{}, fmt.Errorf("persist deadline: %w", err)
		}

	default:
		return model.ExamSession{}, fmt.Errorf("read deadline record: %w", err)
	}

	c.sess = model.ExamSession{
		TestID:    testID,
		StudentID: studentID,
		Deadline:  deadline,
		Answers:   make(map[int64]string),
		Status:    model.SessionStatusInProgress,
	}
	c.started = true

	return c.sess, nil
}

// RestoreProgress loads a previously auto-saved draft into the answer set.
// Attempted exactly once, before the countdown and auto-save schedules are
// armed. Failure or an empty draft simply means the attempt starts clean;
// neither is an error. Returns the number of restored answers.
func (c *Controller) RestoreProgress(ctx context.Context) int {
	c.mu.Lock()
	if !c.started || c.restoreDone {
		c.mu.Unlock()
		return 0
	}
	c.restoreDone = true
	testID, studentID := c.sess.TestID, c.sess.StudentID
	c.mu.Unlock()

	saved, err := c.api.FetchProgress(ctx, studentID, testID)
	if err != nil {
		c.log.Warn().Err(err).Int64("test_id", testID).Msg("Draft fetch failed, starting clean")
		return 0
	}
	if len(saved) == 0 {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess.Status != model.SessionStatusInProgress {
		return 0
	}

	restored := 0
	for _, qa := range saved {
		// First recorded answer per question wins inside the draft.
		if _, exists := c.sess.Answers[qa.QuestionID]; exists {
			continue
		}
		c.sess.Answers[qa.QuestionID] = qa.Answer
		restored++
	}

	if restored > 0 {
		c.restoredUntil = c.clock.Now().Add(RestoredNoticeWindow)
		c.log.Info().Int("answers", restored).Msg("Draft restored")
	}
	return restored
}

// RestoredNoticeUntil reports the instant the "restored" notice should
// disappear. Zero if no draft was ever restored.
func (c *Controller) RestoredNoticeUntil() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.restoredUntil
}

// RecordAnswer overwrites the answer for a question. Last write wins; no
// history is kept. Only valid while the attempt is in progress.
func (c *Controller) RecordAnswer(questionID int64, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return ErrNotStarted
	}
	if c.sess.Status != model.SessionStatusInProgress {
		return ErrNotInProgress
	}

	c.sess.Answers[questionID] = value
	c.dirty = true
	c.writeSeq++
	return nil
}

// Tick recomputes the time remaining from the persisted deadline. It is a
// pull model on purpose: after any pause (suspended machine, stopped
// ticker) the next call self-corrects to real elapsed wall-clock time.
// When the deadline has passed and the attempt is still in progress, the
// attempt is submitted automatically, exactly once.
func (c *Controller) Tick(ctx context.Context) time.Duration {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return 0
	}
	remaining := c.sess.Remaining(c.clock.Now())
	expired := remaining == 0 && c.sess.Status == model.SessionStatusInProgress
	c.mu.Unlock()

	if expired {
		if err := c.Submit(ctx, false); err != nil {
			c.log.Error().Err(err).Msg("Auto-submit failed")
		}
	}
	return remaining
}

// AutoSave pushes the full current answer set to the draft endpoint. It
// only fires while the attempt is in progress and at least one answer has
// been recorded. Failures are logged and left for the next scheduled
// attempt; a lost draft save is recovered by the next one or by the final
// submit, both of which resend everything.
func (c *Controller) AutoSave(ctx context.Context) error {
	c.mu.Lock()
	if !c.started || c.sess.Status != model.SessionStatusInProgress || len(c.sess.Answers) == 0 {
		c.mu.Unlock()
		return nil
	}
	snapshot := c.snapshotAnswersLocked()
	seq := c.writeSeq
	testID, studentID := c.sess.TestID, c.sess.StudentID
	c.mu.Unlock()

	if err := c.api.SaveProgress(ctx, testID, studentID, snapshot); err != nil {
		// Deliberately no backoff and no user-facing error: the next
		// scheduled save retries with a fresh full snapshot.
		c.log.Warn().Err(err).Int64("test_id", testID).Msg("Draft save failed, will retry on next cycle")
		return err
	}

	c.mu.Lock()
	now := c.clock.Now()
	c.sess.LastSavedAt = &now
	if c.writeSeq == seq {
		// Nothing was recorded while the save was in flight.
		c.dirty = false
	}
	c.mu.Unlock()

	c.log.Debug().Int("answers", len(snapshot)).Msg("Draft saved")
	return nil
}

// Submit finalizes the attempt. The in_progress to submitting transition
// is the idempotency guard: the deadline expiring and the student clicking
// submit in the same instant still produce exactly one final save.
//
// On the manual path a failed final save is returned to the caller so the
// student can retry; the session stays in submitting and answers can no
// longer change. On the automatic path time is authoritative: the attempt
// becomes submitted even if the final save failed, because earlier
// auto-saves are the best-effort record.
func (c *Controller) Submit(ctx context.Context, manual bool) error {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return ErrNotStarted
	}

	switch c.sess.Status {
	case model.SessionStatusSubmitted:
		c.mu.Unlock()
		return nil
	case model.SessionStatusSubmitting:
		if !manual || c.saveInFlight {
			c.mu.Unlock()
			return nil
		}
		// Manual retry of a previously failed final save.
	case model.SessionStatusInProgress:
		c.sess.Status = model.SessionStatusSubmitting
		close(c.stop) // cancel both periodic schedules
	}

	c.saveInFlight = true
	snapshot := c.snapshotAnswersLocked()
	testID, studentID := c.sess.TestID, c.sess.StudentID
	c.mu.Unlock()

	var saveErr error
	if len(snapshot) > 0 {
		saveErr = c.api.SaveProgress(ctx, testID, studentID, snapshot)
	}

	c.mu.Lock()
	c.saveInFlight = false
	c.mu.Unlock()

	if saveErr != nil {
		if manual {
			c.log.Error().Err(saveErr).Int64("test_id", testID).Msg("Final save failed")
			return fmt.Errorf("final save: %w", saveErr)
		}
		// Deadline submission must not strand the attempt on a dead
		// network; prior auto-saves already carried the answers.
		c.log.Error().Err(saveErr).Int64("test_id", testID).Msg("Final save failed on deadline, submitting anyway")
	}

	if err := c.store.Remove(config.StoreKey.TestDeadlineKey(testID)); err != nil {
		c.log.Warn().Err(err).Int64("test_id", testID).Msg("Could not clear deadline record")
	}

	c.mu.Lock()
	c.sess.Status = model.SessionStatusSubmitted
	if saveErr == nil && len(snapshot) > 0 {
		now := c.clock.Now()
		c.sess.LastSavedAt = &now
		c.dirty = false
	}
	c.mu.Unlock()

	c.log.Info().Int64("test_id", testID).Int64("student_id", studentID).Bool("manual", manual).Msg("Attempt submitted")
	return nil
}

// Run drives the two periodic schedules in real time: the countdown check
// every tick interval and the draft save every save interval. It returns
// when the attempt leaves in_progress or ctx is cancelled (the owning view
// going away), so no orphaned ticker can touch a discarded session.
func (c *Controller) Run(ctx context.Context) {
	tick := time.NewTicker(c.tickEvery)
	defer tick.Stop()
	save := time.NewTicker(c.saveEvery)
	defer save.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		case <-tick.C:
			c.Tick(ctx)
		case <-save.C:
			_ = c.AutoSave(ctx) // retried on the next cycle
		}
	}
}

// Session returns a copy of the current session state.
func (c *Controller) Session() model.ExamSession {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.sess
	out.Answers = make(map[int64]string, len(c.sess.Answers))
	for k, v := range c.sess.Answers {
		out.Answers[k] = v
	}
	return out
}

// Status returns the current lifecycle state.
func (c *Controller) Status() model.SessionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.Status
}

// Dirty reports whether answers have been recorded since the last
// successful save.
func (c *Controller) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// Done reports when the attempt has left in_progress; the channel is
// closed at that transition.
func (c *Controller) Done() <-chan struct{} {
	return c.stop
}

// snapshotAnswersLocked builds the ordered wire form of the full current
// answer set. Caller must hold c.mu.
func (c *Controller) snapshotAnswersLocked() []model.QuestionAnswer {
	out := make([]model.QuestionAnswer, 0, len(c.sess.Answers))
	for qid, ans := range c.sess.Answers {
		out = append(out, model.QuestionAnswer{QuestionID: qid, Answer: ans})
	}
	return out
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
