package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"trivia-service/internal/models"
	"trivia-service/internal/opentdb"
	"trivia-service/internal/service"
)

type memSessionStore struct {
	docs map[string]*models.QuizSession
}

func (m *memSessionStore) Get(ctx context.Context, userID, topicID string) (*models.QuizSession, error) {
	s, ok := m.docs[userID+"_"+topicID]
	if !ok {
		return nil, nil
	}
	dup := *s
	return &dup, nil
}

func (m *memSessionStore) Save(ctx context.Context, session *models.QuizSession) error {
	dup := *session
	m.docs[session.UserID+"_"+session.TopicID] = &dup
	return nil
}

func (m *memSessionStore) Reset(ctx context.Context, userID, topicID string) error {
	m.docs[userID+"_"+topicID] = &models.QuizSession{
		UserID:    userID,
		TopicID:   topicID,
		Questions: []models.Question{},
	}
	return nil
}

type memHistoryStore struct {
	entries map[string][]models.HistoryEntry
}

func (m *memHistoryStore) Entries(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	return m.entries[userID], nil
}

func (m *memHistoryStore) AppendUnique(ctx context.Context, userID string, entry models.HistoryEntry) error {
	for _, existing := range m.entries[userID] {
		if existing == entry {
			return nil
		}
	}
	m.entries[userID] = append(m.entries[userID], entry)
	return nil
}

func stubFetcher(ctx context.Context, category int) ([]opentdb.RawQuestion, error) {
	raw := make([]opentdb.RawQuestion, models.QuestionsPerQuiz)
	for i := range raw {
		raw[i] = opentdb.RawQuestion{
			Question:         fmt.Sprintf("question %d", i),
			CorrectAnswer:    fmt.Sprintf("right %d", i),
			IncorrectAnswers: []string{"wrong a", "wrong b", "wrong c"},
		}
	}
	return raw, nil
}

func newTestRouter(history *memHistoryStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	sessions := &memSessionStore{docs: map[string]*models.QuizSession{}}
	historyService := service.NewHistoryService(history, nil)
	sessionService := service.NewSessionService(sessions, historyService, stubFetcher)

	sessionHandler := NewSessionHandler(sessionService)
	historyHandler := NewHistoryHandler(historyService)

	r := gin.New()
	protected := r.Group("/protected/trivia")
	session := protected.Group("/session")
	{
		session.POST("/:topicId", sessionHandler.InitializeSession)
		session.GET("/:topicId", sessionHandler.GetSession)
		session.POST("/:topicId/answer", sessionHandler.SubmitAnswer)
		session.POST("/:topicId/finalize", sessionHandler.FinalizeSession)
	}
	protected.GET("/history/today", historyHandler.GetDailyProgress)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestInitializeSessionEndpoint(t *testing.T) {
	r := newTestRouter(&memHistoryStore{entries: map[string][]models.HistoryEntry{}})

	w := doRequest(t, r, http.MethodPost, "/protected/trivia/session/science", "user-1", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("status %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var session models.QuizSession
	if err := json.Unmarshal(w.Body.Bytes(), &session); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(session.Questions) != models.QuestionsPerQuiz {
		t.Errorf("expected %d questions, got %d", models.QuestionsPerQuiz, len(session.Questions))
	}
	if session.UserID != "user-1" || session.TopicID != "science" {
		t.Errorf("unexpected session identity %s/%s", session.UserID, session.TopicID)
	}
}

func TestInitializeSessionWithoutUser(t *testing.T) {
	r := newTestRouter(&memHistoryStore{entries: map[string][]models.HistoryEntry{}})

	w := doRequest(t, r, http.MethodPost, "/protected/trivia/session/science", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestInitializeSessionAtDailyLimit(t *testing.T) {
	history := &memHistoryStore{entries: map[string][]models.HistoryEntry{}}
	now := time.Now()
	for i := 0; i < models.DailyQuizLimit; i++ {
		history.entries["user-1"] = append(history.entries["user-1"], models.HistoryEntry{
			Topic: "science",
			Score: i,
			Date:  now.Add(-time.Duration(i) * time.Minute),
		})
	}
	r := newTestRouter(history)

	w := doRequest(t, r, http.MethodPost, "/protected/trivia/session/history", "user-1", "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status %d, want %d: %s", w.Code, http.StatusTooManyRequests, w.Body.String())
	}
}

func TestSubmitAnswerEndpoint(t *testing.T) {
	r := newTestRouter(&memHistoryStore{entries: map[string][]models.HistoryEntry{}})

	w := doRequest(t, r, http.MethodPost, "/protected/trivia/session/science", "user-1", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("initialize status %d: %s", w.Code, w.Body.String())
	}
	var session models.QuizSession
	if err := json.Unmarshal(w.Body.Bytes(), &session); err != nil {
		t.Fatalf("decoding session: %v", err)
	}

	payload := fmt.Sprintf(`{"answer":%q}`, session.Questions[0].CorrectAnswer)
	w = doRequest(t, r, http.MethodPost, "/protected/trivia/session/science/answer", "user-1", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Session  *models.QuizSession `json:"session"`
		Complete bool                `json:"complete"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Session.Score != 1 || resp.Session.CurrentIndex != 1 {
		t.Errorf("expected score 1 at index 1, got %d at %d", resp.Session.Score, resp.Session.CurrentIndex)
	}
	if resp.Complete {
		t.Error("first answer must not complete the quiz")
	}
}

func TestSubmitAnswerRejectsBadBody(t *testing.T) {
	r := newTestRouter(&memHistoryStore{entries: map[string][]models.HistoryEntry{}})
	doRequest(t, r, http.MethodPost, "/protected/trivia/session/science", "user-1", "")

	w := doRequest(t, r, http.MethodPost, "/protected/trivia/session/science/answer", "user-1", `{"answer":""}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestGetSessionMissing(t *testing.T) {
	r := newTestRouter(&memHistoryStore{entries: map[string][]models.HistoryEntry{}})

	w := doRequest(t, r, http.MethodGet, "/protected/trivia/session/science", "user-1", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d, want %d: %s", w.Code, http.StatusNotFound, w.Body.String())
	}
}

func TestFinalizeEndpoint(t *testing.T) {
	r := newTestRouter(&memHistoryStore{entries: map[string][]models.HistoryEntry{}})

	w := doRequest(t, r, http.MethodPost, "/protected/trivia/session/science", "user-1", "")
	var session models.QuizSession
	if err := json.Unmarshal(w.Body.Bytes(), &session); err != nil {
		t.Fatalf("decoding session: %v", err)
	}

	for i := 0; i < models.QuestionsPerQuiz; i++ {
		payload := fmt.Sprintf(`{"answer":%q}`, session.Questions[session.CurrentIndex].CorrectAnswer)
		w = doRequest(t, r, http.MethodPost, "/protected/trivia/session/science/answer", "user-1", payload)
		if w.Code != http.StatusOK {
			t.Fatalf("answer %d status %d: %s", i, w.Code, w.Body.String())
		}
		var resp struct {
			Session *models.QuizSession `json:"session"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding answer response: %v", err)
		}
		session = *resp.Session
	}

	w = doRequest(t, r, http.MethodPost, "/protected/trivia/session/science/finalize", "user-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("finalize status %d: %s", w.Code, w.Body.String())
	}
	var finalized struct {
		Entry *models.HistoryEntry `json:"entry"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &finalized); err != nil {
		t.Fatalf("decoding finalize response: %v", err)
	}
	if finalized.Entry == nil || finalized.Entry.Score != models.QuestionsPerQuiz {
		t.Errorf("unexpected entry %+v", finalized.Entry)
	}

	w = doRequest(t, r, http.MethodGet, "/protected/trivia/history/today", "user-1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("progress status %d: %s", w.Code, w.Body.String())
	}
	var progress service.DailyProgress
	if err := json.Unmarshal(w.Body.Bytes(), &progress); err != nil {
		t.Fatalf("decoding progress: %v", err)
	}
	if progress.Count != 1 || progress.Locked {
		t.Errorf("unexpected progress %+v", progress)
	}
}
