// Package client is an HTTP client for the trivia-service API. It
// implements the same engine surface the in-process services expose, so
// interactive callers can drive a quiz run against a live server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"trivia-service/internal/models"
	"trivia-service/internal/service"
)

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8080"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{baseURL: baseURL, httpClient: httpClient}
}

type errorResponse struct {
	Error string `json:"error"`
}

type answerRequest struct {
	Answer string `json:"answer"`
}

type answerResponse struct {
	Session  *models.QuizSession `json:"session"`
	Complete bool                `json:"complete"`
}

type finalizeResponse struct {
	Entry *models.HistoryEntry `json:"entry"`
}

func (c *HTTPClient) Initialize(ctx context.Context, userID, topicID string) (*models.QuizSession, error) {
	var session models.QuizSession
	err := c.do(ctx, http.MethodPost, "/protected/trivia/session/"+topicID, userID, nil, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *HTTPClient) SubmitAnswer(ctx context.Context, userID, topicID, chosen string) (*models.QuizSession, error) {
	var resp answerResponse
	err := c.do(ctx, http.MethodPost, "/protected/trivia/session/"+topicID+"/answer", userID, answerRequest{Answer: chosen}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Session, nil
}

func (c *HTTPClient) Finalize(ctx context.Context, userID, topicID string) (*models.HistoryEntry, error) {
	var resp finalizeResponse
	err := c.do(ctx, http.MethodPost, "/protected/trivia/session/"+topicID+"/finalize", userID, nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Entry, nil
}

func (c *HTTPClient) DailyProgress(ctx context.Context, userID string) (service.DailyProgress, error) {
	var progress service.DailyProgress
	err := c.do(ctx, http.MethodGet, "/protected/trivia/history/today", userID, nil, &progress)
	return progress, err
}

func (c *HTTPClient) do(ctx context.Context, method, path, userID string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("X-User-ID", userID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
