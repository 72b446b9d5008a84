package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"trivia-service/internal/models"
)

// State names one phase of an interactive quiz run.
type State string

const (
	StateLoading        State = "loading"
	StateAwaitingAnswer State = "awaiting_answer"
	StateRevealing      State = "revealing"
	StateAdvancing      State = "advancing"
	StateFinished       State = "finished"
	StateFailed         State = "failed"
)

// RevealDelay is the fixed pause after an answer during which the correct
// answer and the user's choice are both shown before advancing.
const RevealDelay = time.Second

var (
	ErrNotAwaitingAnswer = errors.New("runner is not awaiting an answer")
	ErrStopped           = errors.New("runner is stopped")
)

// Engine is the slice of the session engine the runner drives. The
// in-process *service.SessionService satisfies it, as does the HTTP client.
type Engine interface {
	Initialize(ctx context.Context, userID, topicID string) (*models.QuizSession, error)
	SubmitAnswer(ctx context.Context, userID, topicID, chosen string) (*models.QuizSession, error)
	Finalize(ctx context.Context, userID, topicID string) (*models.HistoryEntry, error)
}

// Reveal describes the transient feedback shown between an answer and the
// next question.
type Reveal struct {
	Chosen        string
	CorrectAnswer string
	Correct       bool
}

// timerFactory schedules f after d and returns a cancel func. Split out so
// tests can fire the reveal timer by hand.
type timerFactory func(d time.Duration, f func()) (cancel func() bool)

func realTimer(d time.Duration, f func()) (cancel func() bool) {
	t := time.AfterFunc(d, f)
	return t.Stop
}

// Runner is the explicit state machine behind one interactive quiz run:
// Loading -> AwaitingAnswer -> Revealing -> Advancing -> AwaitingAnswer ...
// -> Finished, with Failed reachable from anywhere. The engine's persisted
// state changes happen immediately on submission; only the visual advance
// waits for the reveal timer, and stopping the runner cancels that advance
// without touching what was already committed.
type Runner struct {
	engine  Engine
	userID  string
	topicID string
	delay   time.Duration
	timer   timerFactory

	mu          sync.Mutex
	state       State
	session     *models.QuizSession
	reveal      *Reveal
	result      *models.HistoryEntry
	err         error
	cancelTimer func() bool
	stopped     bool
}

func New(engine Engine, userID, topicID string) *Runner {
	return &Runner{
		engine:  engine,
		userID:  userID,
		topicID: topicID,
		delay:   RevealDelay,
		timer:   realTimer,
		state:   StateLoading,
	}
}

// Start initializes or resumes the session. A resumed session that already
// has every answer recorded is finalized straight away.
func (r *Runner) Start(ctx context.Context) error {
	session, err := r.engine.Initialize(ctx, r.userID, r.topicID)
	if err != nil {
		r.fail(err)
		return err
	}

	r.mu.Lock()
	r.session = session
	if session.Complete() {
		r.state = StateAdvancing
		r.mu.Unlock()
		return r.finish(ctx)
	}
	r.state = StateAwaitingAnswer
	r.mu.Unlock()
	return nil
}

// Answer submits the chosen option and enters the reveal phase. The engine
// persists the update before Answer returns; the transition out of
// Revealing fires after the reveal delay unless the runner is stopped
// first.
func (r *Runner) Answer(ctx context.Context, chosen string) (Reveal, error) {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return Reveal{}, ErrStopped
	}
	if r.state != StateAwaitingAnswer {
		state := r.state
		r.mu.Unlock()
		return Reveal{}, fmt.Errorf("%w: state is %s", ErrNotAwaitingAnswer, state)
	}
	current := r.session.CurrentQuestion()
	if current == nil {
		r.mu.Unlock()
		return Reveal{}, fmt.Errorf("%w: no current question", ErrNotAwaitingAnswer)
	}
	correctAnswer := current.CorrectAnswer
	r.mu.Unlock()

	session, err := r.engine.SubmitAnswer(ctx, r.userID, r.topicID, chosen)
	if err != nil {
		r.fail(err)
		return Reveal{}, err
	}

	reveal := Reveal{
		Chosen:        chosen,
		CorrectAnswer: correctAnswer,
		Correct:       chosen == correctAnswer,
	}

	r.mu.Lock()
	r.session = session
	r.state = StateRevealing
	r.reveal = &reveal
	r.cancelTimer = r.timer(r.delay, func() { r.advance(context.Background()) })
	r.mu.Unlock()

	return reveal, nil
}

// advance leaves the reveal phase once the timer fires.
func (r *Runner) advance(ctx context.Context) {
	r.mu.Lock()
	if r.stopped || r.state != StateRevealing {
		r.mu.Unlock()
		return
	}
	r.state = StateAdvancing
	r.reveal = nil
	complete := r.session.Complete()
	r.mu.Unlock()

	if complete {
		_ = r.finish(ctx)
		return
	}

	r.mu.Lock()
	r.state = StateAwaitingAnswer
	r.mu.Unlock()
}

func (r *Runner) finish(ctx context.Context) error {
	entry, err := r.engine.Finalize(ctx, r.userID, r.topicID)
	if err != nil {
		r.fail(err)
		return err
	}
	r.mu.Lock()
	r.result = entry
	r.state = StateFinished
	r.mu.Unlock()
	return nil
}

// Stop tears the runner down. A pending reveal-timer advance is cancelled
// and will never apply; the submission it followed has already been
// persisted by the engine.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	if r.cancelTimer != nil {
		r.cancelTimer()
		r.cancelTimer = nil
	}
}

func (r *Runner) fail(err error) {
	r.mu.Lock()
	r.state = StateFailed
	r.err = err
	r.mu.Unlock()
}

func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Runner) Session() *models.QuizSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// Reveal returns the feedback for the question being revealed, or nil
// outside the reveal phase.
func (r *Runner) Reveal() *Reveal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reveal
}

// Result returns the history entry once the run is finished.
func (r *Runner) Result() *models.HistoryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}

func (r *Runner) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
