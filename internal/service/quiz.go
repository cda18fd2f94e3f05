package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/vocablog/internal/domain"
	"github.com/pkordes/vocablog/internal/metrics"
	"github.com/pkordes/vocablog/internal/quiz"
	"github.com/pkordes/vocablog/internal/repo"
)

// QuizSelector builds the word pool for a new quiz.
// *VocabularyService satisfies it.
type QuizSelector interface {
	Select(ctx context.Context, sel domain.Selection) (domain.QuizSet, error)
}

// QuizService keeps running quiz sessions in memory, keyed by id, and writes
// every wrong answer to the repeat log.
type QuizService struct {
	vocab   QuizSelector
	log     repo.RepeatLogStore
	metrics *metrics.Metrics
	logger  *slog.Logger
	choices int

	mu       sync.Mutex
	sessions map[uuid.UUID]*quiz.Session
}

// NewQuizService constructs a QuizService. choices below 2 falls back to
// quiz.DefaultChoices.
func NewQuizService(vocab QuizSelector, log repo.RepeatLogStore, m *metrics.Metrics, logger *slog.Logger, choices int) *QuizService {
	if choices < 2 {
		choices = quiz.DefaultChoices
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QuizService{
		vocab:    vocab,
		log:      log,
		metrics:  m,
		logger:   logger,
		choices:  choices,
		sessions: make(map[uuid.UUID]*quiz.Session),
	}
}

// Start selects the words and opens an idle session.
func (s *QuizService) Start(ctx context.Context, sel domain.Selection) (uuid.UUID, quiz.Status, error) {
	set, err := s.vocab.Select(ctx, sel)
	if err != nil {
		return uuid.Nil, quiz.Status{}, fmt.Errorf("service.QuizService.Start: %w", err)
	}
	sess, err := quiz.NewSession(set, s.choices, nil)
	if err != nil {
		return uuid.Nil, quiz.Status{}, fmt.Errorf("service.QuizService.Start: %w", err)
	}

	id := uuid.New()
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.metrics.QuizSessions.WithLabelValues("started").Inc()
	s.logger.Info("quiz started", "quiz_id", id, "title", set.Title, "words", len(set.Words))
	return id, sess.Status(), nil
}

// Get returns the progress of a session.
func (s *QuizService) Get(ctx context.Context, id uuid.UUID) (quiz.Status, error) {
	sess, err := s.session(id)
	if err != nil {
		return quiz.Status{}, err
	}
	return sess.Status(), nil
}

// Next draws the next question.
func (s *QuizService) Next(ctx context.Context, id uuid.UUID) (quiz.Question, error) {
	sess, err := s.session(id)
	if err != nil {
		return quiz.Question{}, err
	}
	q, err := sess.Next()
	if err != nil {
		return quiz.Question{}, fmt.Errorf("service.QuizService.Next: %w", err)
	}
	return q, nil
}

// Answer submits the option index for the current question. A wrong answer
// is recorded in the repeat log before the result is returned.
func (s *QuizService) Answer(ctx context.Context, id uuid.UUID, choice int) (quiz.Result, error) {
	sess, err := s.session(id)
	if err != nil {
		return quiz.Result{}, err
	}
	res, err := sess.Answer(choice)
	if err != nil {
		return quiz.Result{}, fmt.Errorf("service.QuizService.Answer: %w", err)
	}

	if res.Correct {
		s.metrics.QuizAnswers.WithLabelValues("correct").Inc()
	} else {
		s.metrics.QuizAnswers.WithLabelValues("wrong").Inc()
	}
	if res.Mistake != nil {
		if err := s.log.Record(ctx, res.Mistake.WordID, res.Mistake.WrongID); err != nil {
			return res, fmt.Errorf("service.QuizService.Answer: record mistake: %w", err)
		}
	}
	if res.State == quiz.Finished {
		s.metrics.QuizSessions.WithLabelValues("finished").Inc()
		s.logger.Info("quiz finished", "quiz_id", id)
	}
	return res, nil
}

// Cancel finishes a session and forgets it.
func (s *QuizService) Cancel(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("service.QuizService.Cancel: %w: quiz %s", domain.ErrNotFound, id)
	}

	if sess.State() != quiz.Finished {
		sess.Cancel()
		s.metrics.QuizSessions.WithLabelValues("cancelled").Inc()
	}
	return nil
}

func (s *QuizService) session(id uuid.UUID) (*quiz.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: quiz %s", domain.ErrNotFound, id)
	}
	return sess, nil
}

