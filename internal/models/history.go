package models

import "time"

// DailyQuizLimit caps completed quizzes per user per local calendar day.
const DailyQuizLimit = 10

// HistoryEntry is one completed quiz run. Entries are append-only; nothing
// updates or deletes them.
type HistoryEntry struct {
	Topic string    `bson:"topic" json:"topic"`
	Score int       `bson:"score" json:"score"`
	Date  time.Time `bson:"date" json:"date"`
}

// OnLocalDay reports whether the entry falls on the same local calendar day
// as t. Calendar comparison, not a 24-hour window.
func (e *HistoryEntry) OnLocalDay(t time.Time) bool {
	ey, em, ed := e.Date.Local().Date()
	ty, tm, td := t.Local().Date()
	return ey == ty && em == tm && ed == td
}

// QuizHistory is the per-user history document.
type QuizHistory struct {
	UserID  string         `bson:"_id" json:"user_id"`
	Entries []HistoryEntry `bson:"entries" json:"entries"`
}

// ProfileStats summarizes a user's completed quizzes. SuccessRate is the
// rounded percentage of the total possible score.
type ProfileStats struct {
	TotalQuizzes int `json:"totalQuizzes"`
	TotalScore   int `json:"totalScore"`
	SuccessRate  int `json:"successRate"`
}
