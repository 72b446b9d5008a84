package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"trivia-service/internal/service"
)

type UserHandler struct {
	Users *service.UserService
}

func NewUserHandler(u *service.UserService) *UserHandler {
	return &UserHandler{Users: u}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")

	profile, err := h.Users.Profile(context.Background(), userID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// RegisterProfile creates the profile document after the identity provider
// has created the account.
func (h *UserHandler) RegisterProfile(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")

	var req struct {
		Email    string `json:"email" binding:"required"`
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid profile format",
			"details": err.Error(),
		})
		return
	}

	profile, err := h.Users.Register(context.Background(), userID, req.Email, req.Username)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")

	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid profile format",
			"details": err.Error(),
		})
		return
	}

	if err := h.Users.UpdateUsername(context.Background(), userID, req.Username); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// DeleteProfile removes the profile document after account deletion
// upstream.
func (h *UserHandler) DeleteProfile(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")

	if err := h.Users.Delete(context.Background(), userID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile deleted"})
}
