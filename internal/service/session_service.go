package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"trivia-service/internal/models"
	"trivia-service/internal/opentdb"
	"trivia-service/internal/quiz"
)

// QuestionFetcher requests ten raw questions for an Open Trivia DB category.
type QuestionFetcher func(ctx context.Context, category int) ([]opentdb.RawQuestion, error)

// SessionService is the single authority over quiz progress and correctness
// bookkeeping. Every operation takes the user id explicitly; there is no
// ambient current-user state.
type SessionService struct {
	sessions SessionStore
	history  *HistoryService
	fetch    QuestionFetcher
	now      func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewSessionService(sessions SessionStore, history *HistoryService, fetch QuestionFetcher) *SessionService {
	return &SessionService{
		sessions: sessions,
		history:  history,
		fetch:    fetch,
		now:      time.Now,
		inflight: make(map[string]struct{}),
	}
}

func sessionKey(userID, topicID string) string {
	return userID + "_" + topicID
}

// Initialize loads the resumable session for (user, topic) or builds a
// fresh one from the Question Source. The daily-limit gate runs first, so a
// locked user never triggers an upstream request. A fresh session is
// persisted with currentIndex=0 and score=0 before it is returned; on any
// failure nothing partial is stored.
func (s *SessionService) Initialize(ctx context.Context, userID, topicID string) (*models.QuizSession, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}

	count, err := s.history.CountToday(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: counting today's quizzes: %v", ErrLoadFailed, err)
	}
	if count >= models.DailyQuizLimit {
		return nil, ErrDailyLimitReached
	}

	session, err := s.sessions.Get(ctx, userID, topicID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading session: %v", ErrLoadFailed, err)
	}
	if session != nil && !session.Empty() {
		return session, nil
	}

	raw, err := s.fetch(ctx, opentdb.CategoryForTopic(topicID))
	if err != nil {
		return nil, fmt.Errorf("%w: fetching questions: %v", ErrLoadFailed, err)
	}
	questions, err := quiz.BuildQuestions(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	fresh := &models.QuizSession{
		UserID:      userID,
		TopicID:     topicID,
		Questions:   questions,
		LastUpdated: s.now(),
	}
	if err := s.sessions.Save(ctx, fresh); err != nil {
		return nil, fmt.Errorf("%w: saving session: %v", ErrLoadFailed, err)
	}
	return fresh, nil
}

// SubmitAnswer records the chosen option for the current question, bumps
// the score on an exact match with the correct answer, advances the cursor
// unless the session is on its last question, and persists the session in
// one synchronous write.
//
// Submitting when the current question is already answered is a no-op that
// returns the session unchanged. At most one submission per (user, topic)
// may be in flight; a concurrent call gets ErrSubmitPending.
func (s *SessionService) SubmitAnswer(ctx context.Context, userID, topicID, chosen string) (*models.QuizSession, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}

	key := sessionKey(userID, topicID)
	s.mu.Lock()
	if _, busy := s.inflight[key]; busy {
		s.mu.Unlock()
		return nil, ErrSubmitPending
	}
	s.inflight[key] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()
	}()

	session, err := s.sessions.Get(ctx, userID, topicID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading session: %v", ErrLoadFailed, err)
	}
	if session == nil || session.Empty() {
		return nil, ErrSessionNotFound
	}

	current := session.CurrentQuestion()
	if current == nil {
		return nil, ErrSessionNotFound
	}
	if current.Answered() {
		return session, nil
	}
	if !current.HasOption(chosen) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOption, chosen)
	}

	current.UserAnswer = chosen
	if current.AnsweredCorrectly() {
		session.Score++
	}
	if !session.OnLastQuestion() {
		session.CurrentIndex++
	}
	session.LastUpdated = s.now()

	if err := s.sessions.Save(ctx, session); err != nil {
		// Best-effort persistence: the caller keeps the updated in-memory
		// state even though the store write failed.
		return session, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	return session, nil
}

// Finalize appends the completed run to the user's history and resets the
// stored session to the zeroed document. The two steps are independent and
// each idempotent on retry: the entry is stamped with the session's last
// update time, so a retried finalize produces the identical entry and the
// store's set-union append keeps exactly one copy.
func (s *SessionService) Finalize(ctx context.Context, userID, topicID string) (*models.HistoryEntry, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}

	session, err := s.sessions.Get(ctx, userID, topicID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading session: %v", ErrLoadFailed, err)
	}
	if session == nil || session.Empty() {
		return nil, ErrSessionNotFound
	}

	entry := models.HistoryEntry{
		Topic: topicID,
		Score: session.Score,
		Date:  session.LastUpdated,
	}
	if err := s.history.Append(ctx, userID, entry); err != nil {
		return nil, fmt.Errorf("%w: appending history: %v", ErrPersistFailed, err)
	}
	if err := s.sessions.Reset(ctx, userID, topicID); err != nil {
		return &entry, fmt.Errorf("%w: resetting session: %v", ErrPersistFailed, err)
	}
	return &entry, nil
}

// Session returns the stored session without mutating it.
func (s *SessionService) Session(ctx context.Context, userID, topicID string) (*models.QuizSession, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	session, err := s.sessions.Get(ctx, userID, topicID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading session: %v", ErrLoadFailed, err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}
