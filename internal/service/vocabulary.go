// Package service contains the business logic of the vocabulary trainer.
// Services validate inputs, enforce business rules, and orchestrate repo and
// collaborator calls. No SQL or HTTP lives here; services depend on repo
// interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/pkordes/vocablog/internal/domain"
	"github.com/pkordes/vocablog/internal/metrics"
	"github.com/pkordes/vocablog/internal/repo"
)

// DifficultWord is a word together with its repeat-log score.
type DifficultWord struct {
	Word  domain.Word
	Score int
}

// VocabularyService serves queries from an in-memory Vocabulary built from the
// word store. The cache is rebuilt by Reload, after every Append and whenever
// the file watcher notices an outside change.
type VocabularyService struct {
	words   repo.WordRepo
	log     repo.RepeatLogStore
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time

	mu    sync.RWMutex
	vocab *domain.Vocabulary // nil while the store is empty
}

// NewVocabularyService constructs a VocabularyService. Call Reload before the
// first query.
func NewVocabularyService(words repo.WordRepo, log repo.RepeatLogStore, m *metrics.Metrics, logger *slog.Logger) *VocabularyService {
	if logger == nil {
		logger = slog.Default()
	}
	return &VocabularyService{words: words, log: log, metrics: m, logger: logger, now: time.Now}
}

// Reload rebuilds the cache from the word store. On failure the previous
// cache is kept.
func (s *VocabularyService) Reload(ctx context.Context) error {
	v, err := s.load(ctx)
	if err != nil {
		s.metrics.VocabularyReloads.WithLabelValues("error").Inc()
		return fmt.Errorf("service.VocabularyService.Reload: %w", err)
	}

	s.mu.Lock()
	s.vocab = v
	s.mu.Unlock()

	count := 0
	if v != nil {
		count = v.Count()
	}
	s.metrics.VocabularyReloads.WithLabelValues("ok").Inc()
	s.metrics.VocabularyWords.Set(float64(count))
	s.logger.Info("vocabulary loaded", "words", count)
	return nil
}

func (s *VocabularyService) load(ctx context.Context) (*domain.Vocabulary, error) {
	return repo.LoadVocabulary(ctx, s.words)
}

// Snapshot returns the cached Vocabulary.
// Returns domain.ErrNotFound while nothing has been learned yet.
func (s *VocabularyService) Snapshot(ctx context.Context) (*domain.Vocabulary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.vocab == nil {
		return nil, fmt.Errorf("%w: the vocabulary is empty", domain.ErrNotFound)
	}
	return s.vocab, nil
}

// Lookup returns the words learned on date.
func (s *VocabularyService) Lookup(ctx context.Context, date time.Time) (domain.Day, error) {
	v, err := s.Snapshot(ctx)
	if err != nil {
		return domain.Day{}, err
	}
	return v.Lookup(date)
}

// Range returns the stored days between from and to inclusive.
func (s *VocabularyService) Range(ctx context.Context, from, to time.Time) ([]domain.Day, error) {
	v, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return v.Range(from, to)
}

// Search finds words by term or definition, grouped by day.
func (s *VocabularyService) Search(ctx context.Context, term string) ([]domain.DayMatch, error) {
	v, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return v.Search(term)
}

// Stats returns the learning summary.
func (s *VocabularyService) Stats(ctx context.Context) (domain.Statistics, error) {
	v, err := s.Snapshot(ctx)
	if err != nil {
		return domain.Statistics{}, err
	}
	return v.Statistics(), nil
}

// ByTags returns every word carrying all tags.
func (s *VocabularyService) ByTags(ctx context.Context, tags ...string) ([]domain.Word, error) {
	v, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return v.SearchByProperties(tags...)
}

// ByIDs returns the words with the given ids. Unknown ids are skipped.
func (s *VocabularyService) ByIDs(ctx context.Context, ids ...string) ([]domain.Word, error) {
	v, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return v.SearchByID(ids...)
}

// Words returns one page of all words in learn order, plus the total count.
// An empty vocabulary yields an empty page rather than an error.
func (s *VocabularyService) Words(ctx context.Context, p domain.PaginationParams) ([]domain.Word, int, error) {
	v, err := s.Snapshot(ctx)
	if err != nil {
		return []domain.Word{}, 0, nil
	}
	all := v.Words()
	start, end := p.Window(len(all))
	return all[start:end], len(all), nil
}

// Difficult returns up to n words ranked by repeat-log score, hardest first.
// Ids logged for words no longer in the vocabulary are skipped.
func (s *VocabularyService) Difficult(ctx context.Context, n int) ([]DifficultWord, error) {
	if n < 1 {
		return nil, fmt.Errorf("service.VocabularyService.Difficult: %w: n must be positive", domain.ErrValidation)
	}
	v, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	log, err := s.log.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.VocabularyService.Difficult: %w", err)
	}

	byID := make(map[string]domain.Word, v.Count())
	for _, w := range v.Words() {
		byID[w.ID] = w
	}
	out := []DifficultWord{}
	for _, d := range log.Ranking() {
		if len(out) == n {
			break
		}
		if w, ok := byID[d.ID]; ok {
			out = append(out, DifficultWord{Word: w, Score: d.Score})
		}
	}
	return out, nil
}

// Append adds words to the store and reloads the cache. A word without a
// learn date is learned today. A word already stored on the same day is
// combined with the stored entry, keeping the stored definitions first.
// Returns the words as saved.
func (s *VocabularyService) Append(ctx context.Context, words ...domain.Word) ([]domain.Word, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("service.VocabularyService.Append: %w: no words given", domain.ErrValidation)
	}

	s.mu.RLock()
	current := s.vocab
	s.mu.RUnlock()

	today := domain.Truncate(s.now())
	var merged []domain.Word
	for _, w := range words {
		if w.IsZero() {
			return nil, fmt.Errorf("service.VocabularyService.Append: %w: word has no term", domain.ErrValidation)
		}
		if w.LearnedOn.IsZero() {
			w.LearnedOn = today
		}
		w.LearnedOn = domain.Truncate(w.LearnedOn)

		if i := slices.IndexFunc(merged, func(m domain.Word) bool { return sameEntry(m, w) }); i >= 0 {
			c, err := domain.Combine(w, merged[i])
			if err != nil {
				return nil, fmt.Errorf("service.VocabularyService.Append: %w", err)
			}
			merged[i] = c
			continue
		}
		if stored, ok := storedEntry(current, w); ok {
			c, err := domain.Combine(w, stored)
			if err != nil {
				return nil, fmt.Errorf("service.VocabularyService.Append: %w", err)
			}
			w = c
		}
		merged = append(merged, w)
	}

	if err := s.words.Save(ctx, merged...); err != nil {
		return nil, fmt.Errorf("service.VocabularyService.Append: %w", err)
	}
	if err := s.Reload(ctx); err != nil {
		return nil, fmt.Errorf("service.VocabularyService.Append: %w", err)
	}
	return merged, nil
}

func sameEntry(a, b domain.Word) bool {
	return a.ID == b.ID && a.LearnedOn.Equal(b.LearnedOn)
}

func storedEntry(v *domain.Vocabulary, w domain.Word) (domain.Word, bool) {
	if v == nil || !v.Contains(w.LearnedOn) {
		return domain.Word{}, false
	}
	day, err := v.Lookup(w.LearnedOn)
	if err != nil {
		return domain.Word{}, false
	}
	for _, stored := range day.Words {
		if stored.ID == w.ID {
			return stored, true
		}
	}
	return domain.Word{}, false
}

// Select gathers the word pool for a quiz. The repeat log is read only when
// the selection asks for difficult words.
func (s *VocabularyService) Select(ctx context.Context, sel domain.Selection) (domain.QuizSet, error) {
	v, err := s.Snapshot(ctx)
	if err != nil {
		return domain.QuizSet{}, err
	}
	var log domain.RepeatLog
	if sel.MostDifficult > 0 {
		if log, err = s.log.Load(ctx); err != nil {
			return domain.QuizSet{}, fmt.Errorf("service.VocabularyService.Select: %w", err)
		}
	}
	return v.Select(sel, log, nil)
}
