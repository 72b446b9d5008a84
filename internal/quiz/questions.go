package quiz

import (
	"fmt"
	"math/rand"
	"strings"

	"trivia-service/internal/models"
	"trivia-service/internal/opentdb"
)

const incorrectPerQuestion = models.OptionsPerQuestion - 1

// entityReplacements are applied in order. &amp; goes first so that
// double-encoded payloads collapse to plain text in a single pass:
// "&amp;quot;" becomes "&quot;" and then "\"".
var entityReplacements = [][2]string{
	{"&amp;", "&"},
	{"&quot;", `"`},
	{"&#039;", "'"},
	{"&lt;", "<"},
	{"&gt;", ">"},
}

// DecodeEntities decodes the HTML entities Open Trivia DB uses in question
// and answer text.
func DecodeEntities(s string) string {
	for _, r := range entityReplacements {
		s = strings.ReplaceAll(s, r[0], r[1])
	}
	return s
}

// BuildQuestion normalizes one raw API question: the correct answer plus
// exactly two incorrect answers, all entity-decoded, merged and shuffled
// once. The option order is fixed from here on.
//
// A raw question with fewer than two incorrect answers is rejected; every
// built question carries exactly three options.
func BuildQuestion(raw opentdb.RawQuestion) (models.Question, error) {
	if len(raw.IncorrectAnswers) < incorrectPerQuestion {
		return models.Question{}, fmt.Errorf("question %q has %d incorrect answers, need %d",
			raw.Question, len(raw.IncorrectAnswers), incorrectPerQuestion)
	}

	correct := DecodeEntities(raw.CorrectAnswer)
	options := make([]string, 0, models.OptionsPerQuestion)
	for _, incorrect := range raw.IncorrectAnswers[:incorrectPerQuestion] {
		options = append(options, DecodeEntities(incorrect))
	}
	options = append(options, correct)

	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return models.Question{
		Prompt:        DecodeEntities(raw.Question),
		CorrectAnswer: correct,
		Options:       options,
	}, nil
}

// BuildQuestions normalizes a full fetch. One malformed question fails the
// whole batch so a session is never persisted with a short option set.
func BuildQuestions(raw []opentdb.RawQuestion) ([]models.Question, error) {
	questions := make([]models.Question, 0, len(raw))
	for _, item := range raw {
		question, err := BuildQuestion(item)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, nil
}
