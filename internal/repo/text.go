package repo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/pkordes/vocablog/internal/domain"
)

// textWordRepo stores the vocabulary in the legacy dated-block text format.
// Every Save re-renders the whole file.
type textWordRepo struct {
	mu       sync.Mutex
	path     string
	readOnly bool
	logger   *slog.Logger
}

// NewTextWordRepo constructs a WordRepo over the text file at path.
// A missing file reads as an empty vocabulary and is created by the first
// Save. With readOnly set, Save fails with domain.ErrReadOnly.
func NewTextWordRepo(path string, readOnly bool, logger *slog.Logger) WordRepo {
	return &textWordRepo{path: path, readOnly: readOnly, logger: logger}
}

// List parses the file and returns its words in date order.
// Parse lints are logged as warnings.
func (r *textWordRepo) List(ctx context.Context) ([]domain.Word, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, err := r.load()
	if err != nil {
		return nil, fmt.Errorf("repo.TextWordRepo.List: %w", err)
	}
	if v == nil {
		return []domain.Word{}, nil
	}
	return v.Words(), nil
}

// Vocabulary parses the file keeping every dated block, including the empty
// ones. A missing or blank file yields nil.
func (r *textWordRepo) Vocabulary(ctx context.Context) (*domain.Vocabulary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, err := r.load()
	if err != nil {
		return nil, fmt.Errorf("repo.TextWordRepo.Vocabulary: %w", err)
	}
	return v, nil
}

// Save merges words into the file: a word replaces the entry with the same id
// on the same day, anything else is added.
func (r *textWordRepo) Save(ctx context.Context, words ...domain.Word) error {
	if r.readOnly {
		return fmt.Errorf("repo.TextWordRepo.Save: %w", domain.ErrReadOnly)
	}
	if len(words) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.load()
	if err != nil {
		return fmt.Errorf("repo.TextWordRepo.Save: %w", err)
	}
	merged, err := current.Merge(words...)
	if err != nil {
		return fmt.Errorf("repo.TextWordRepo.Save: %w", err)
	}
	err = writeFileAtomic(r.path, func(w io.Writer) error {
		return domain.WriteVocabulary(w, merged)
	})
	if err != nil {
		return fmt.Errorf("repo.TextWordRepo.Save: %w", err)
	}
	return nil
}

// load parses the file. A missing or blank file yields a nil Vocabulary.
func (r *textWordRepo) load() (*domain.Vocabulary, error) {
	raw, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	v, lints, err := domain.ParseVocabulary(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}
	for _, l := range lints {
		r.logger.Warn("vocabulary lint", "file", r.path, "term", l.Term, "message", l.Message)
	}
	return v, nil
}
