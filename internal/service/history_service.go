package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"trivia-service/internal/models"
)

// HistoryService answers history, daily-limit and profile-stat queries.
// The daily count is derived from history entries on demand, never stored
// as its own value; an optional Redis client caches it until local
// midnight.
type HistoryService struct {
	store HistoryStore
	cache *redis.Client
	now   func() time.Time
}

func NewHistoryService(store HistoryStore, cache *redis.Client) *HistoryService {
	return &HistoryService{store: store, cache: cache, now: time.Now}
}

// Entries returns the user's history, newest first.
func (h *HistoryService) Entries(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	entries, err := h.store.Entries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading history: %v", ErrLoadFailed, err)
	}
	reversed := make([]models.HistoryEntry, len(entries))
	for i, entry := range entries {
		reversed[len(entries)-1-i] = entry
	}
	return reversed, nil
}

// Append records one completed quiz and invalidates the cached daily count.
func (h *HistoryService) Append(ctx context.Context, userID string, entry models.HistoryEntry) error {
	if userID == "" {
		return ErrAuthRequired
	}
	if err := h.store.AppendUnique(ctx, userID, entry); err != nil {
		return err
	}
	if h.cache != nil {
		if err := h.cache.Del(ctx, h.dailyKey(userID)).Err(); err != nil {
			log.Printf("history: dropping stale daily count for %s: %v", userID, err)
		}
	}
	return nil
}

// CountToday counts history entries dated on the current local calendar
// day. Calendar-date comparison, not a rolling 24-hour window.
func (h *HistoryService) CountToday(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, ErrAuthRequired
	}

	key := h.dailyKey(userID)
	if h.cache != nil {
		if cached, err := h.cache.Get(ctx, key).Result(); err == nil {
			if count, convErr := strconv.Atoi(cached); convErr == nil {
				return count, nil
			}
		}
	}

	entries, err := h.store.Entries(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: loading history: %v", ErrLoadFailed, err)
	}

	today := h.now()
	count := 0
	for i := range entries {
		if entries[i].OnLocalDay(today) {
			count++
		}
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, key, count, h.untilLocalMidnight()).Err(); err != nil {
			log.Printf("history: caching daily count for %s: %v", userID, err)
		}
	}
	return count, nil
}

// DailyProgress bundles the daily count with the limit for the topic
// selection gate.
type DailyProgress struct {
	Count  int  `json:"count"`
	Limit  int  `json:"limit"`
	Locked bool `json:"locked"`
}

func (h *HistoryService) Progress(ctx context.Context, userID string) (DailyProgress, error) {
	count, err := h.CountToday(ctx, userID)
	if err != nil {
		return DailyProgress{}, err
	}
	return DailyProgress{
		Count:  count,
		Limit:  models.DailyQuizLimit,
		Locked: count >= models.DailyQuizLimit,
	}, nil
}

// Stats summarizes the user's history. The success rate is the percentage
// of the total possible score across all completed quizzes, rounded; an
// empty history yields zero.
func (h *HistoryService) Stats(ctx context.Context, userID string) (models.ProfileStats, error) {
	if userID == "" {
		return models.ProfileStats{}, ErrAuthRequired
	}
	entries, err := h.store.Entries(ctx, userID)
	if err != nil {
		return models.ProfileStats{}, fmt.Errorf("%w: loading history: %v", ErrLoadFailed, err)
	}

	stats := models.ProfileStats{TotalQuizzes: len(entries)}
	for i := range entries {
		stats.TotalScore += entries[i].Score
	}
	if stats.TotalQuizzes > 0 {
		possible := float64(stats.TotalQuizzes * models.QuestionsPerQuiz)
		stats.SuccessRate = int(math.Round(float64(stats.TotalScore) / possible * 100))
	}
	return stats, nil
}

func (h *HistoryService) dailyKey(userID string) string {
	return "trivia:daily:" + userID + ":" + h.now().Local().Format("2006-01-02")
}

func (h *HistoryService) untilLocalMidnight() time.Duration {
	now := h.now().Local()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return midnight.Sub(now)
}
