package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"trivia-service/internal/service"
)

type HistoryHandler struct {
	History *service.HistoryService
}

func NewHistoryHandler(h *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{History: h}
}

// GetHistory lists the user's completed quizzes, newest first.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")

	entries, err := h.History.Entries(context.Background(), userID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

// GetDailyProgress reports today's completed-quiz count against the limit.
// The topic selection surface locks itself when Locked is true.
func (h *HistoryHandler) GetDailyProgress(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")

	progress, err := h.History.Progress(context.Background(), userID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, progress)
}

// GetStats summarizes the user's history for the profile surface.
func (h *HistoryHandler) GetStats(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")

	stats, err := h.History.Stats(context.Background(), userID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
