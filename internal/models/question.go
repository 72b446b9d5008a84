package models

// OptionsPerQuestion is the number of answer choices shown for every
// question: the correct answer plus two incorrect ones.
const OptionsPerQuestion = 3

type Question struct {
	Prompt        string   `bson:"question" json:"question"`
	CorrectAnswer string   `bson:"correctAnswer" json:"correctAnswer"`
	Options       []string `bson:"options" json:"options"`
	UserAnswer    string   `bson:"userAnswer,omitempty" json:"userAnswer,omitempty"`
}

// Answered reports whether the user has recorded a choice for this question.
func (q *Question) Answered() bool {
	return q.UserAnswer != ""
}

// AnsweredCorrectly reports whether the recorded choice matches the correct
// answer. Comparison is exact string equality on decoded text.
func (q *Question) AnsweredCorrectly() bool {
	return q.UserAnswer != "" && q.UserAnswer == q.CorrectAnswer
}

// HasOption reports whether text is one of the question's answer choices.
func (q *Question) HasOption(text string) bool {
	for _, opt := range q.Options {
		if opt == text {
			return true
		}
	}
	return false
}
