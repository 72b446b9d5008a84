package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"trivia-service/internal/client"
	"trivia-service/internal/models"
	"trivia-service/internal/runner"
)

const maxAttempts = 3

// Run plays one quiz run interactively against a live server.
func Run(ctx context.Context, in io.Reader, out io.Writer, api *client.HTTPClient, userID, topicID string) error {
	progress, err := api.DailyProgress(ctx, userID)
	if err != nil {
		return err
	}
	if progress.Locked {
		fmt.Fprintf(out, "Daily limit reached (%d/%d). Come back tomorrow.\n", progress.Count, progress.Limit)
		return nil
	}
	fmt.Fprintf(out, "Quizzes today: %d/%d\n", progress.Count, progress.Limit)

	run := runner.New(api, userID, topicID)
	defer run.Stop()

	if err := run.Start(ctx); err != nil {
		return err
	}

	reader := bufio.NewReader(in)
	number := 0

	for run.State() == runner.StateAwaitingAnswer {
		session := run.Session()
		question := session.CurrentQuestion()
		if question == nil {
			break
		}
		number++
		printQuestion(out, number, len(session.Questions), question)

		chosenIndex, ok := readChoice(reader, out, len(question.Options))
		if !ok {
			fmt.Fprintf(out, "\nSkipping run. Correct answer was %s\n", question.CorrectAnswer)
			return nil
		}

		reveal, err := run.Answer(ctx, question.Options[chosenIndex])
		if err != nil {
			return err
		}

		if reveal.Correct {
			fmt.Fprintln(out, "\nCorrect!")
		} else {
			fmt.Fprintf(out, "\nWrong. Correct answer was %s\n", reveal.CorrectAnswer)
		}

		waitForAdvance(run)
	}

	if err := run.Err(); err != nil {
		return err
	}
	if result := run.Result(); result != nil {
		fmt.Fprintf(out, "\nQuiz completed! Final score: %d/%d\n", result.Score, models.QuestionsPerQuiz)
	}
	return nil
}

func printQuestion(out io.Writer, number, total int, question *models.Question) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Q%d/%d: %s\n\n", number, total, question.Prompt)
	for idx, option := range question.Options {
		fmt.Fprintf(out, "%d. %s\n", idx+1, option)
	}
	fmt.Fprintln(out)
}

func readChoice(reader *bufio.Reader, out io.Writer, optionCount int) (int, bool) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		line, err := reader.ReadString('\n')
		if err != nil {
			return -1, false
		}
		choice, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr == nil && choice >= 1 && choice <= optionCount {
			return choice - 1, true
		}
		if attempt < maxAttempts {
			fmt.Fprintf(out, "Invalid input. Please enter a number 1-%d.\n", optionCount)
		}
	}
	return -1, false
}

// waitForAdvance blocks through the reveal pause until the runner settles
// on the next question or the finished state.
func waitForAdvance(run *runner.Runner) {
	for {
		switch run.State() {
		case runner.StateRevealing, runner.StateAdvancing:
			time.Sleep(20 * time.Millisecond)
		default:
			return
		}
	}
}
