package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/pkordes/vocablog/internal/corpus"
	"github.com/pkordes/vocablog/internal/domain"
	"github.com/pkordes/vocablog/internal/metrics"
)

// DefaultExampleCount is used when a caller asks for zero examples.
const DefaultExampleCount = 10

// CorpusFetcher is the corpus and synonym collaborator. *corpus.Client satisfies it.
type CorpusFetcher interface {
	FetchExamples(ctx context.Context, word string, count int) ([]corpus.Example, error)
	FetchSynonyms(ctx context.Context, word string) ([]string, error)
}

// ArticleFetcher extracts example sentences from web articles.
// *corpus.ArticleSource satisfies it.
type ArticleFetcher interface {
	Examples(ctx context.Context, rawURL, word string, count int) ([]corpus.Example, error)
}

// ExampleService looks up usage examples and synonyms. The collaborators are
// best-effort: a failed call is logged, counted and answered with an empty list.
type ExampleService struct {
	corpus   CorpusFetcher
	articles ArticleFetcher
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewExampleService constructs an ExampleService.
func NewExampleService(c CorpusFetcher, a ArticleFetcher, m *metrics.Metrics, logger *slog.Logger) *ExampleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExampleService{corpus: c, articles: a, metrics: m, logger: logger}
}

// Examples returns up to count corpus examples for term.
func (s *ExampleService) Examples(ctx context.Context, term string, count int) ([]corpus.Example, error) {
	term, count, err := exampleArgs(term, count)
	if err != nil {
		return nil, fmt.Errorf("service.ExampleService.Examples: %w", err)
	}
	out, err := s.corpus.FetchExamples(ctx, term, count)
	if err != nil {
		s.degrade("corpus", term, err)
		return []corpus.Example{}, nil
	}
	return out, nil
}

// Synonyms returns the synonyms of term.
func (s *ExampleService) Synonyms(ctx context.Context, term string) ([]string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("service.ExampleService.Synonyms: %w: term is required", domain.ErrValidation)
	}
	out, err := s.corpus.FetchSynonyms(ctx, term)
	if err != nil {
		s.degrade("synonyms", term, err)
		return []string{}, nil
	}
	return out, nil
}

// Articles returns up to count sentences containing term from the article at rawURL.
func (s *ExampleService) Articles(ctx context.Context, rawURL, term string, count int) ([]corpus.Example, error) {
	term, count, err := exampleArgs(term, count)
	if err != nil {
		return nil, fmt.Errorf("service.ExampleService.Articles: %w", err)
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("service.ExampleService.Articles: %w: %q is not an http(s) URL", domain.ErrValidation, rawURL)
	}
	out, err := s.articles.Examples(ctx, rawURL, term, count)
	if err != nil {
		s.degrade("article", term, err)
		return []corpus.Example{}, nil
	}
	return out, nil
}

func (s *ExampleService) degrade(collaborator, term string, err error) {
	s.metrics.CollaboratorFailures.WithLabelValues(collaborator).Inc()
	s.logger.Warn("collaborator failed", "collaborator", collaborator, "term", term, "error", err)
}

func exampleArgs(term string, count int) (string, int, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return "", 0, fmt.Errorf("%w: term is required", domain.ErrValidation)
	}
	if count < 0 {
		return "", 0, fmt.Errorf("%w: count must not be negative", domain.ErrValidation)
	}
	if count == 0 {
		count = DefaultExampleCount
	}
	return term, count, nil
}
