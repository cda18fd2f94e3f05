package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/vocablog/internal/domain"
)

func statsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print learning statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				s, err := a.vocab.Stats(cmd.Context())
				if err != nil {
					return err
				}
				printStats(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}
}

func printStats(w io.Writer, s domain.Statistics) {
	fmt.Fprintf(w, "Period:          %s - %s (%d days)\n", domain.FormatDate(s.Begin), domain.FormatDate(s.End), s.Duration)
	fmt.Fprintf(w, "Words:           %d\n", s.Total)
	fmt.Fprintf(w, "Per day:         %d\n", s.Average)
	fmt.Fprintf(w, "Empty days:      %d\n", s.EmptyDays)
	fmt.Fprintf(w, "Would have been: %d\n", s.WouldBeTotal)
	fmt.Fprintf(w, "Fewest:          %d on %s\n", s.Min.Count, domain.FormatDate(s.Min.Date))
	fmt.Fprintf(w, "Most:            %d on %s\n", s.Max.Count, domain.FormatDate(s.Max.Date))
}

func searchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search TERM",
		Short: "Find words by term, or by definition with a leading '!'",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				matches, err := a.vocab.Search(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, m := range matches {
					fmt.Fprintf(out, "[%s]\n", domain.FormatDate(m.Date))
					for _, w := range m.Words {
						fmt.Fprintln(out, w.Render())
					}
				}
				return nil
			})
		},
	}
}

func addCmd(opts *options) *cobra.Command {
	var on string

	cmd := &cobra.Command{
		Use:   "add LINE...",
		Short: "Append words written in the text format",
		Example: `  vocab add "Get |ɡet| [Verb] – obtain;receive	получать"
  vocab add --date 01.01.2020 "Apple [Noun] – a round fruit	яблоко"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			learned := domain.Truncate(time.Now())
			if on != "" {
				d, err := domain.ParseDate(on, false)
				if err != nil {
					return err
				}
				learned = d
			}

			words := make([]domain.Word, 0, len(args))
			for _, line := range args {
				w, lints, err := domain.ParseWord(line)
				if err != nil {
					return err
				}
				for _, l := range lints {
					fmt.Fprintln(cmd.ErrOrStderr(), "warning:", l)
				}
				w.LearnedOn = learned
				words = append(words, w)
			}

			return withApp(cmd.Context(), opts, func(a *app) error {
				stored, err := a.vocab.Append(cmd.Context(), words...)
				if err != nil {
					return err
				}
				for _, w := range stored {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", domain.FormatDate(w.LearnedOn), w.Render())
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&on, "date", "", "learn date (dd.mm.yyyy); defaults to today")
	return cmd
}
