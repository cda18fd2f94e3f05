package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/pkordes/vocablog/internal/domain"
)

// RepeatLogStore persists the quiz repeat log as one JSON document.
type RepeatLogStore interface {
	// Load returns the whole log. A missing document is an empty log.
	Load(ctx context.Context) (domain.RepeatLog, error)

	// Save replaces the whole document with log.
	Save(ctx context.Context, log domain.RepeatLog) error

	// Record loads the log, counts one mistake and writes it back.
	Record(ctx context.Context, wordID, wrongID string) error
}

// jsonRepeatLogStore keeps the document at path. The mutex serialises the
// read-modify-write cycle within one process; other writers are not
// coordinated.
type jsonRepeatLogStore struct {
	mu   sync.Mutex
	path string
}

// NewJSONRepeatLogStore constructs a RepeatLogStore over the JSON file at path.
func NewJSONRepeatLogStore(path string) RepeatLogStore {
	return &jsonRepeatLogStore{path: path}
}

// Load reads and decodes the document.
func (s *jsonRepeatLogStore) Load(ctx context.Context) (domain.RepeatLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, err := s.read()
	if err != nil {
		return nil, fmt.Errorf("repo.RepeatLogStore.Load: %w", err)
	}
	return log, nil
}

// Save rewrites the document.
func (s *jsonRepeatLogStore) Save(ctx context.Context, log domain.RepeatLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(log); err != nil {
		return fmt.Errorf("repo.RepeatLogStore.Save: %w", err)
	}
	return nil
}

// Record performs load, record and save under one lock.
func (s *jsonRepeatLogStore) Record(ctx context.Context, wordID, wrongID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, err := s.read()
	if err != nil {
		return fmt.Errorf("repo.RepeatLogStore.Record: %w", err)
	}
	if err := log.Record(wordID, wrongID); err != nil {
		return fmt.Errorf("repo.RepeatLogStore.Record: %w", err)
	}
	if err := s.write(log); err != nil {
		return fmt.Errorf("repo.RepeatLogStore.Record: %w", err)
	}
	return nil
}

func (s *jsonRepeatLogStore) read() (domain.RepeatLog, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.RepeatLog{}, nil
	}
	if err != nil {
		return nil, err
	}

	log := domain.RepeatLog{}
	if len(raw) == 0 {
		return log, nil
	}
	if err := json.Unmarshal(raw, &log); err != nil {
		return nil, fmt.Errorf("%w: %s is not a repeat log document: %v", domain.ErrValidation, s.path, err)
	}
	return log, nil
}

func (s *jsonRepeatLogStore) write(log domain.RepeatLog) error {
	if log == nil {
		log = domain.RepeatLog{}
	}
	return writeFileAtomic(s.path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(log)
	})
}
