package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pkordes/vocablog/internal/domain"
	"github.com/pkordes/vocablog/internal/quiz"
)

func quizCmd(opts *options) *cobra.Command {
	var (
		sel   domain.Selection
		dates []string
	)

	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Run a multiple-choice quiz in the terminal",
		Long: `Ask the words of the selected days one at a time. Type the number of the
right definition; a wrong pick is logged and the question stays open.
Type q to stop.`,
		Example: `  vocab quiz --offset 1 --offset 2
  vocab quiz --date 01.01.2020 --difficult 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range dates {
				d, err := domain.ParseDate(s, false)
				if err != nil {
					return err
				}
				sel.Dates = append(sel.Dates, d)
			}
			if sel.IsEmpty() {
				sel.Offsets = []int{1}
			}
			return withApp(cmd.Context(), opts, func(a *app) error {
				return runQuiz(cmd.Context(), a.quizService(), sel, cmd.InOrStdin(), cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().IntSliceVar(&sel.Offsets, "offset", nil, "ask the n-th most recent learning day (repeatable)")
	cmd.Flags().StringSliceVar(&dates, "date", nil, "ask the day learned on dd.mm.yyyy (repeatable)")
	cmd.Flags().IntVar(&sel.Random, "random", 0, "ask that many random learning days")
	cmd.Flags().IntVar(&sel.MostDifficult, "difficult", 0, "add that many of the most often missed words")
	return cmd
}

// quizRunner is the part of QuizService the terminal quiz drives.
type quizRunner interface {
	Start(ctx context.Context, sel domain.Selection) (uuid.UUID, quiz.Status, error)
	Next(ctx context.Context, id uuid.UUID) (quiz.Question, error)
	Answer(ctx context.Context, id uuid.UUID, choice int) (quiz.Result, error)
	Get(ctx context.Context, id uuid.UUID) (quiz.Status, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

func runQuiz(ctx context.Context, svc quizRunner, sel domain.Selection, in io.Reader, out io.Writer) error {
	id, st, err := svc.Start(ctx, sel)
	if err != nil {
		return err
	}
	defer svc.Cancel(ctx, id)

	fmt.Fprintf(out, "%s: %d words\n", st.Title, st.Total)
	started := time.Now()
	scanner := bufio.NewScanner(in)

	for {
		q, err := svc.Next(ctx, id)
		if errors.Is(err, quiz.ErrState) {
			break
		}
		if err != nil {
			return err
		}
		printQuestion(out, q)

		for {
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			input := strings.TrimSpace(scanner.Text())
			if input == "q" {
				return printSummary(ctx, svc, id, out, started)
			}
			n, err := strconv.Atoi(input)
			if err != nil || n < 1 || n > len(q.Choices) {
				fmt.Fprintf(out, "type a number from 1 to %d\n", len(q.Choices))
				continue
			}

			res, err := svc.Answer(ctx, id, n-1)
			if err != nil {
				return err
			}
			if res.Correct {
				fmt.Fprintln(out, "right")
				break
			}
			fmt.Fprintln(out, "wrong, try again")
		}
	}
	return printSummary(ctx, svc, id, out, started)
}

func printQuestion(out io.Writer, q quiz.Question) {
	head := q.Term
	if q.Transcription != "" {
		head += " |" + q.Transcription + "|"
	}
	if len(q.Properties) > 0 {
		head += " [" + strings.Join(q.Properties, ", ") + "]"
	}
	fmt.Fprintf(out, "\n%s\n", head)
	for i, c := range q.Choices {
		fmt.Fprintf(out, "  %d. %s\n", i+1, c)
	}
}

func printSummary(ctx context.Context, svc quizRunner, id uuid.UUID, out io.Writer, started time.Time) error {
	st, err := svc.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nasked %d of %d, %d right, %d wrong, %s\n",
		st.Asked, st.Total, st.Correct, st.Mistakes, time.Since(started).Round(time.Second))
	return nil
}
