package service

import (
	"context"

	"trivia-service/internal/models"
)

// SessionStore persists in-progress quiz sessions keyed by (user, topic).
// The store serializes writes per document key; the engine adds no locking
// beyond its own single-flight submission guard.
type SessionStore interface {
	// Get returns the stored session, or (nil, nil) when none exists.
	Get(ctx context.Context, userID, topicID string) (*models.QuizSession, error)
	Save(ctx context.Context, session *models.QuizSession) error
	// Reset replaces the stored session with the zeroed document so the
	// next initialization starts fresh.
	Reset(ctx context.Context, userID, topicID string) error
}

// HistoryStore holds the per-user append-only list of completed quizzes.
type HistoryStore interface {
	// Entries returns all history entries in append order. A user with no
	// history yields an empty slice, not an error.
	Entries(ctx context.Context, userID string) ([]models.HistoryEntry, error)
	// AppendUnique appends one entry atomically at the store level with
	// set-union semantics: appending an identical entry twice stores it
	// once, and concurrent appends from two devices both land.
	AppendUnique(ctx context.Context, userID string, entry models.HistoryEntry) error
}

// UserStore holds the profile documents maintained alongside the identity
// provider's accounts.
type UserStore interface {
	// Get returns the stored profile, or (nil, nil) when none exists.
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	Upsert(ctx context.Context, profile *models.UserProfile) error
	UpdateUsername(ctx context.Context, userID, username string) error
	Delete(ctx context.Context, userID string) error
}
