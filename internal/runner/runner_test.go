package runner

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"trivia-service/internal/models"
)

// scriptedEngine replays the engine's semantics in memory: record the
// answer, bump the score, advance unless on the last question.
type scriptedEngine struct {
	session     *models.QuizSession
	initErr     error
	submitErr   error
	finalizeErr error
	finalized   int
}

func newScriptedEngine(questionCount int) *scriptedEngine {
	questions := make([]models.Question, questionCount)
	for i := range questions {
		correct := fmt.Sprintf("right %d", i)
		questions[i] = models.Question{
			Prompt:        fmt.Sprintf("question %d", i),
			CorrectAnswer: correct,
			Options:       []string{correct, "wrong a", "wrong b"},
		}
	}
	return &scriptedEngine{
		session: &models.QuizSession{
			UserID:    "user-1",
			TopicID:   "science",
			Questions: questions,
		},
	}
}

func (e *scriptedEngine) Initialize(ctx context.Context, userID, topicID string) (*models.QuizSession, error) {
	if e.initErr != nil {
		return nil, e.initErr
	}
	return e.session, nil
}

func (e *scriptedEngine) SubmitAnswer(ctx context.Context, userID, topicID, chosen string) (*models.QuizSession, error) {
	if e.submitErr != nil {
		return nil, e.submitErr
	}
	current := e.session.CurrentQuestion()
	current.UserAnswer = chosen
	if chosen == current.CorrectAnswer {
		e.session.Score++
	}
	if !e.session.OnLastQuestion() {
		e.session.CurrentIndex++
	}
	e.session.LastUpdated = time.Now()
	return e.session, nil
}

func (e *scriptedEngine) Finalize(ctx context.Context, userID, topicID string) (*models.HistoryEntry, error) {
	if e.finalizeErr != nil {
		return nil, e.finalizeErr
	}
	e.finalized++
	return &models.HistoryEntry{Topic: topicID, Score: e.session.Score, Date: e.session.LastUpdated}, nil
}

// manualTimer captures the scheduled advance so tests fire it by hand.
type manualTimer struct {
	pending func()
}

func (m *manualTimer) factory(d time.Duration, f func()) (cancel func() bool) {
	m.pending = f
	return func() bool {
		stopped := m.pending != nil
		m.pending = nil
		return stopped
	}
}

func (m *manualTimer) fire(t *testing.T) {
	t.Helper()
	if m.pending == nil {
		t.Fatal("no advance scheduled")
	}
	f := m.pending
	m.pending = nil
	f()
}

func newTestRunner(engine Engine) (*Runner, *manualTimer) {
	timer := &manualTimer{}
	run := New(engine, "user-1", "science")
	run.timer = timer.factory
	return run, timer
}

func TestRunnerWalksEveryState(t *testing.T) {
	engine := newScriptedEngine(2)
	run, timer := newTestRunner(engine)

	if run.State() != StateLoading {
		t.Fatalf("before Start: state %s, want %s", run.State(), StateLoading)
	}
	if err := run.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if run.State() != StateAwaitingAnswer {
		t.Fatalf("after Start: state %s, want %s", run.State(), StateAwaitingAnswer)
	}

	reveal, err := run.Answer(context.Background(), "right 0")
	if err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}
	if !reveal.Correct || reveal.CorrectAnswer != "right 0" {
		t.Errorf("unexpected reveal %+v", reveal)
	}
	if run.State() != StateRevealing {
		t.Fatalf("after Answer: state %s, want %s", run.State(), StateRevealing)
	}
	if run.Reveal() == nil {
		t.Error("reveal feedback must be visible during the reveal phase")
	}

	timer.fire(t)
	if run.State() != StateAwaitingAnswer {
		t.Fatalf("after advance: state %s, want %s", run.State(), StateAwaitingAnswer)
	}
	if run.Reveal() != nil {
		t.Error("reveal feedback must clear after advancing")
	}

	// Wrong answer on the last question still finishes the run.
	reveal, err = run.Answer(context.Background(), "wrong a")
	if err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}
	if reveal.Correct {
		t.Error("wrong answer reported as correct")
	}
	timer.fire(t)

	if run.State() != StateFinished {
		t.Fatalf("after last advance: state %s, want %s", run.State(), StateFinished)
	}
	result := run.Result()
	if result == nil || result.Score != 1 {
		t.Errorf("expected final score 1, got %+v", result)
	}
	if engine.finalized != 1 {
		t.Errorf("engine finalized %d times, want 1", engine.finalized)
	}
}

func TestRunnerStopCancelsPendingAdvance(t *testing.T) {
	engine := newScriptedEngine(2)
	run, timer := newTestRunner(engine)
	if err := run.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if _, err := run.Answer(context.Background(), "right 0"); err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}

	run.Stop()
	if timer.pending != nil {
		t.Error("Stop must cancel the scheduled advance")
	}

	// A stray callback that raced past the cancel still may not move the
	// state machine.
	run.advance(context.Background())
	if run.State() != StateRevealing {
		t.Errorf("stopped runner advanced to %s", run.State())
	}

	// The submission before Stop is already committed on the engine side.
	if engine.session.Questions[0].UserAnswer != "right 0" {
		t.Error("submitted answer lost after Stop")
	}

	if _, err := run.Answer(context.Background(), "right 1"); !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped, got %v", err)
	}
}

func TestRunnerAnswerOutsideAwaitingState(t *testing.T) {
	engine := newScriptedEngine(2)
	run, _ := newTestRunner(engine)

	if _, err := run.Answer(context.Background(), "right 0"); !errors.Is(err, ErrNotAwaitingAnswer) {
		t.Fatalf("expected ErrNotAwaitingAnswer before Start, got %v", err)
	}

	if err := run.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if _, err := run.Answer(context.Background(), "right 0"); err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}
	if _, err := run.Answer(context.Background(), "right 1"); !errors.Is(err, ErrNotAwaitingAnswer) {
		t.Errorf("expected ErrNotAwaitingAnswer during reveal, got %v", err)
	}
}

func TestRunnerFailsWhenInitializeFails(t *testing.T) {
	engine := newScriptedEngine(2)
	engine.initErr = errors.New("no questions upstream")
	run, _ := newTestRunner(engine)

	if err := run.Start(context.Background()); err == nil {
		t.Fatal("Start should surface the initialize error")
	}
	if run.State() != StateFailed {
		t.Errorf("state %s, want %s", run.State(), StateFailed)
	}
	if run.Err() == nil {
		t.Error("Err must report the failure")
	}
}

func TestRunnerFailsWhenSubmitFails(t *testing.T) {
	engine := newScriptedEngine(2)
	run, _ := newTestRunner(engine)
	if err := run.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	engine.submitErr = errors.New("write timeout")
	if _, err := run.Answer(context.Background(), "right 0"); err == nil {
		t.Fatal("Answer should surface the submit error")
	}
	if run.State() != StateFailed {
		t.Errorf("state %s, want %s", run.State(), StateFailed)
	}
}

func TestRunnerFinalizesResumedCompleteSession(t *testing.T) {
	engine := newScriptedEngine(2)
	for i := range engine.session.Questions {
		engine.session.Questions[i].UserAnswer = engine.session.Questions[i].CorrectAnswer
		engine.session.Score++
	}
	engine.session.CurrentIndex = len(engine.session.Questions) - 1

	run, _ := newTestRunner(engine)
	if err := run.Start(context.Background()); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if run.State() != StateFinished {
		t.Fatalf("state %s, want %s", run.State(), StateFinished)
	}
	if result := run.Result(); result == nil || result.Score != 2 {
		t.Errorf("expected resumed run to finalize with score 2, got %+v", result)
	}
}
