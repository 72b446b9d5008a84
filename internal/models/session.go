package models

import "time"

// QuestionsPerQuiz is the fixed length of every quiz session.
const QuestionsPerQuiz = 10

// QuizSession is the persisted in-progress state of one user's run through
// one topic's quiz. Owned by exactly one (user, topic) pair and mutated only
// by the session engine. A finalized session is reset to the zero document
// so the next initialization starts fresh.
type QuizSession struct {
	UserID       string     `bson:"user_id" json:"user_id"`
	TopicID      string     `bson:"topic_id" json:"topic_id"`
	Questions    []Question `bson:"questions" json:"questions"`
	CurrentIndex int        `bson:"currentIndex" json:"currentIndex"`
	Score        int        `bson:"score" json:"score"`
	LastUpdated  time.Time  `bson:"lastUpdated" json:"lastUpdated"`
}

// Empty reports whether the session holds no questions, i.e. there is
// nothing to resume.
func (s *QuizSession) Empty() bool {
	return len(s.Questions) == 0
}

// CurrentQuestion returns the question at the cursor, or nil when the
// session is empty or already past its last question.
func (s *QuizSession) CurrentQuestion() *Question {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.CurrentIndex]
}

// OnLastQuestion reports whether the cursor sits on the final question.
func (s *QuizSession) OnLastQuestion() bool {
	return len(s.Questions) > 0 && s.CurrentIndex == len(s.Questions)-1
}

// Complete reports whether every question has a recorded answer.
func (s *QuizSession) Complete() bool {
	if len(s.Questions) == 0 {
		return false
	}
	for i := range s.Questions {
		if !s.Questions[i].Answered() {
			return false
		}
	}
	return true
}

// CorrectCount recounts answered-correctly questions. The stored Score must
// always equal this value.
func (s *QuizSession) CorrectCount() int {
	count := 0
	for i := range s.Questions {
		if s.Questions[i].AnsweredCorrectly() {
			count++
		}
	}
	return count
}
