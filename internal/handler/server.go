// Package handler implements the HTTP API of the vocabulary trainer.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, words.go, quiz.go, etc.) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/vocablog/internal/backup"
	"github.com/pkordes/vocablog/internal/corpus"
	"github.com/pkordes/vocablog/internal/domain"
	"github.com/pkordes/vocablog/internal/quiz"
	"github.com/pkordes/vocablog/internal/service"
)

// VocabularyServicer defines the vocabulary operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching storage or the service layer.
type VocabularyServicer interface {
	Lookup(ctx context.Context, date time.Time) (domain.Day, error)
	Range(ctx context.Context, from, to time.Time) ([]domain.Day, error)
	Search(ctx context.Context, term string) ([]domain.DayMatch, error)
	Stats(ctx context.Context) (domain.Statistics, error)
	ByTags(ctx context.Context, tags ...string) ([]domain.Word, error)
	ByIDs(ctx context.Context, ids ...string) ([]domain.Word, error)
	Words(ctx context.Context, p domain.PaginationParams) ([]domain.Word, int, error)
	Difficult(ctx context.Context, n int) ([]service.DifficultWord, error)
	Append(ctx context.Context, words ...domain.Word) ([]domain.Word, error)
}

// QuizServicer defines the quiz session operations.
type QuizServicer interface {
	Start(ctx context.Context, sel domain.Selection) (uuid.UUID, quiz.Status, error)
	Get(ctx context.Context, id uuid.UUID) (quiz.Status, error)
	Next(ctx context.Context, id uuid.UUID) (quiz.Question, error)
	Answer(ctx context.Context, id uuid.UUID, choice int) (quiz.Result, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

// ExportServicer defines the export operations.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
	Chart(ctx context.Context) (domain.ChartSeries, error)
}

// ExampleServicer defines the usage example and synonym lookups.
type ExampleServicer interface {
	Examples(ctx context.Context, term string, count int) ([]corpus.Example, error)
	Synonyms(ctx context.Context, term string) ([]string, error)
	Articles(ctx context.Context, rawURL, term string, count int) ([]corpus.Example, error)
}

// BackupServicer defines the backup operations exposed over HTTP.
type BackupServicer interface {
	Backup(ctx context.Context) ([]backup.File, error)
	List(ctx context.Context) ([]backup.File, error)
}

// Server holds the services behind every endpoint.
// A nil service leaves its routes unregistered.
type Server struct {
	vocab    VocabularyServicer
	quiz     QuizServicer
	export   ExportServicer
	examples ExampleServicer
	backups  BackupServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(vocab VocabularyServicer, q QuizServicer, export ExportServicer, examples ExampleServicer, backups BackupServicer) *Server {
	return &Server{vocab: vocab, quiz: q, export: export, examples: examples, backups: backups}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil, nil)
}

// Handler returns a chi router serving every registered route.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}

// Routes registers the endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.GetHealth)

	if s.vocab != nil {
		r.Get("/stats", s.GetStats)
		r.Get("/days", s.ListDays)
		r.Get("/days/{date}", s.GetDay)
		r.Get("/search", s.SearchWords)
		r.Get("/words", s.ListWords)
		r.Post("/words", s.AppendWords)
		r.Get("/difficult", s.ListDifficult)
	}
	if s.quiz != nil {
		r.Route("/quiz", func(r chi.Router) {
			r.Post("/", s.StartQuiz)
			r.Get("/{id}", s.GetQuiz)
			r.Post("/{id}/next", s.NextQuestion)
			r.Post("/{id}/answer", s.AnswerQuestion)
			r.Delete("/{id}", s.CancelQuiz)
		})
	}
	if s.export != nil {
		r.Get("/export", s.GetExport)
		r.Get("/export/chart", s.GetChart)
	}
	if s.examples != nil {
		r.Get("/examples/{term}", s.GetExamples)
		r.Get("/synonyms/{term}", s.GetSynonyms)
		r.Get("/articles/examples", s.GetArticleExamples)
	}
	if s.backups != nil {
		r.Get("/backups", s.ListBackups)
		r.Post("/backups", s.CreateBackup)
	}
}
