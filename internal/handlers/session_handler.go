package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trivia-service/internal/service"
)

type SessionHandler struct {
	Sessions *service.SessionService
}

func NewSessionHandler(s *service.SessionService) *SessionHandler {
	return &SessionHandler{Sessions: s}
}

// InitializeSession resumes or creates the session for (user, topic).
func (h *SessionHandler) InitializeSession(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	topicID := c.Param("topicId")

	session, err := h.Sessions.Initialize(context.Background(), userID, topicID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetSession returns the stored session without mutating it.
func (h *SessionHandler) GetSession(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	topicID := c.Param("topicId")

	session, err := h.Sessions.Session(context.Background(), userID, topicID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

// SubmitAnswer records the chosen option for the current question.
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	topicID := c.Param("topicId")

	var req struct {
		Answer string `json:"answer" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid answer format",
			"details": err.Error(),
		})
		return
	}

	session, err := h.Sessions.SubmitAnswer(context.Background(), userID, topicID, req.Answer)
	if err != nil {
		// A failed persist still updated the in-memory session; hand the
		// caller both so it can keep rendering.
		if errors.Is(err, service.ErrPersistFailed) && session != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   err.Error(),
				"session": session,
			})
			return
		}
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":  session,
		"complete": session.Complete(),
	})
}

// FinalizeSession appends the history entry and resets the session.
func (h *SessionHandler) FinalizeSession(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	topicID := c.Param("topicId")

	entry, err := h.Sessions.Finalize(context.Background(), userID, topicID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}
