package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkordes/vocablog/internal/backup"
	"github.com/pkordes/vocablog/internal/config"
	"github.com/pkordes/vocablog/internal/corpus"
	"github.com/pkordes/vocablog/internal/domain"
	"github.com/pkordes/vocablog/internal/service"
)

func importCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Copy a vocabulary text file into the configured database",
		Long: `Parse FILE in the dated-block text format and upsert every word into the
store selected by DATABASE_URL. Words already stored for the same day are
replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			v, lints, err := domain.ParseVocabulary(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			for _, l := range lints {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", l)
			}

			return withApp(cmd.Context(), opts, func(a *app) error {
				if a.storeKind == config.StoreText {
					return fmt.Errorf("import needs DATABASE_URL; the text store is the file itself")
				}
				words := v.Words()
				if err := a.words.Save(cmd.Context(), words...); err != nil {
					return err
				}
				if err := a.vocab.Reload(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d words from %d days\n", len(words), len(v.Days()))
				return nil
			})
		},
	}
}

func backupCmd(opts *options) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Upload every data file matching the backup patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := backupFromFlags(opts)
			if err != nil {
				return err
			}
			var files []backup.File
			if list {
				files, err = svc.List(cmd.Context())
			} else {
				files, err = svc.Backup(cmd.Context())
			}
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", f.ID, f.Name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list stored backups instead of uploading")
	return cmd
}

func restoreCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "restore FILE...",
		Short: "Download the latest backup of each FILE into the data directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := backupFromFlags(opts)
			if err != nil {
				return err
			}
			for _, rel := range args {
				if err := svc.Restore(cmd.Context(), rel); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "restored", rel)
			}
			return nil
		},
	}
}

func backupFromFlags(opts *options) (*service.BackupService, error) {
	cfg, err := opts.load()
	if err != nil {
		return nil, err
	}
	return newBackupService(cfg, cliLogger(cfg))
}

func examplesCmd(opts *options) *cobra.Command {
	var (
		count    int
		synonyms bool
		article  string
	)

	cmd := &cobra.Command{
		Use:   "examples TERM",
		Short: "Show usage examples from the corpus or an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(a *app) error {
				svc := a.exampleService()
				out := cmd.OutOrStdout()
				term := args[0]

				if synonyms {
					found, err := svc.Synonyms(cmd.Context(), term)
					if err != nil {
						return err
					}
					for _, s := range found {
						fmt.Fprintln(out, s)
					}
					return nil
				}

				fetch := svc.Examples
				if article != "" {
					fetch = func(ctx context.Context, term string, count int) ([]corpus.Example, error) {
						return svc.Articles(ctx, article, term, count)
					}
				}
				found, err := fetch(cmd.Context(), term, count)
				if err != nil {
					return err
				}
				for _, e := range found {
					fmt.Fprintln(out, e.Original)
					if e.Native != "" {
						fmt.Fprintln(out, "  "+e.Native)
					}
					fmt.Fprintln(out, "  -- "+e.Source)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of examples (default 10)")
	cmd.Flags().BoolVar(&synonyms, "synonyms", false, "list synonyms instead of examples")
	cmd.Flags().StringVar(&article, "url", "", "take the examples from the article at this URL")
	return cmd
}
