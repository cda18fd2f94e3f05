// Package quiz implements a single multiple-choice quiz session over a
// domain.QuizSet. A Session is a small state machine:
//
//	idle -> awaiting_answer -> presenting -> awaiting_answer -> ... -> finished
//
// Next draws a word and moves to awaiting_answer. A correct Answer moves to
// presenting, or to finished once the pool is empty. A wrong Answer stays on
// the same question and reports the mistake so the caller can log it.
// Cancel finishes the session from any state.
package quiz

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/pkordes/vocablog/internal/domain"
)

// DefaultChoices is the number of options shown per question.
const DefaultChoices = 6

// ErrState is returned when an operation is not allowed in the current state,
// e.g. answering before a question was drawn or after the session finished.
var ErrState = errors.New("quiz: operation not allowed in current state")

// State is a quiz session state.
type State int

const (
	Idle State = iota
	Presenting
	AwaitingAnswer
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Presenting:
		return "presenting"
	case AwaitingAnswer:
		return "awaiting_answer"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Question is the word being asked with its answer options.
type Question struct {
	WordID        string
	Term          string
	Transcription string
	Properties    []string
	Choices       []string
	// correct is the index of the right option in Choices.
	correct int
	// choiceIDs holds the word id behind each option.
	choiceIDs []string
}

// Mistake is one wrong pick: WrongID was chosen while WordID was asked.
type Mistake struct {
	WordID  string
	WrongID string
}

// Result is the outcome of one Answer call.
type Result struct {
	Correct bool
	// CorrectChoice is the index of the right option.
	CorrectChoice int
	// Mistake is set for a wrong answer.
	Mistake *Mistake
	State   State
}

// Status is a snapshot of session progress.
type Status struct {
	Title     string
	State     State
	Total     int
	Remaining int
	Asked     int
	Correct   int
	Mistakes  int
	Question  *Question
}

// Session is one quiz run. It is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	title   string
	words   []domain.Word
	pool    []domain.Word
	choices int
	rng     *rand.Rand

	state    State
	current  Question
	asked    int
	correct  int
	mistakes int
}

// NewSession starts an idle session over set.
// choices below 2 is an ErrValidation; a nil rng draws from a randomly seeded
// source.
func NewSession(set domain.QuizSet, choices int, rng *rand.Rand) (*Session, error) {
	if len(set.Words) == 0 {
		return nil, fmt.Errorf("quiz.NewSession: %w: no words to ask", domain.ErrValidation)
	}
	if choices < 2 {
		return nil, fmt.Errorf("quiz.NewSession: %w: at least 2 choices are required, got %d", domain.ErrValidation, choices)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	words := append([]domain.Word(nil), set.Words...)
	return &Session{
		title:   set.Title,
		words:   words,
		pool:    append([]domain.Word(nil), words...),
		choices: choices,
		rng:     rng,
		state:   Idle,
	}, nil
}

// Title returns the session title taken from the quiz set.
func (s *Session) Title() string { return s.title }

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Next draws the next word without replacement and returns it as a question.
// Allowed from idle and presenting.
func (s *Session) Next() (Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Idle && s.state != Presenting {
		return Question{}, fmt.Errorf("quiz.Session.Next: %w: %s", ErrState, s.state)
	}
	i := s.rng.IntN(len(s.pool))
	w := s.pool[i]
	s.pool = append(s.pool[:i], s.pool[i+1:]...)

	s.current = s.question(w)
	s.asked++
	s.state = AwaitingAnswer
	return s.current, nil
}

// Answer checks the option picked for the current question.
// A wrong pick keeps the question open and returns the Mistake to log.
func (s *Session) Answer(choice int) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != AwaitingAnswer {
		return Result{}, fmt.Errorf("quiz.Session.Answer: %w: %s", ErrState, s.state)
	}
	if choice < 0 || choice >= len(s.current.Choices) {
		return Result{}, fmt.Errorf("quiz.Session.Answer: %w: choice %d outside 0..%d", domain.ErrValidation, choice, len(s.current.Choices)-1)
	}

	res := Result{CorrectChoice: s.current.correct}
	if choice != s.current.correct {
		s.mistakes++
		res.Mistake = &Mistake{WordID: s.current.WordID, WrongID: s.current.choiceIDs[choice]}
		res.State = s.state
		return res, nil
	}

	s.correct++
	res.Correct = true
	if len(s.pool) == 0 {
		s.state = Finished
	} else {
		s.state = Presenting
	}
	res.State = s.state
	return res, nil
}

// Cancel finishes the session. Cancelling a finished session is a no-op.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Finished
}

// Status returns a progress snapshot. Question is set while an answer is
// awaited.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Title:     s.title,
		State:     s.state,
		Total:     len(s.words),
		Remaining: len(s.pool),
		Asked:     s.asked,
		Correct:   s.correct,
		Mistakes:  s.mistakes,
	}
	if s.state == AwaitingAnswer {
		q := s.current
		st.Question = &q
	}
	return st
}

// question builds the options for w: its own answer plus decoys drawn from
// the other words of the session, with the right one at a random position.
func (s *Session) question(w domain.Word) Question {
	answer := AnswerText(w)
	seen := map[string]struct{}{answer: {}}

	var decoys []domain.Word
	for _, i := range s.rng.Perm(len(s.words)) {
		if len(decoys) == s.choices-1 {
			break
		}
		d := s.words[i]
		if d.ID == w.ID {
			continue
		}
		text := AnswerText(d)
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		decoys = append(decoys, d)
	}

	correct := s.rng.IntN(len(decoys) + 1)
	q := Question{
		WordID:        w.ID,
		Term:          w.Term,
		Transcription: w.Transcription,
		Properties:    w.Properties.Tags(),
		Choices:       make([]string, 0, len(decoys)+1),
		choiceIDs:     make([]string, 0, len(decoys)+1),
		correct:       correct,
	}
	for i := 0; i <= len(decoys); i++ {
		var opt domain.Word
		switch {
		case i == correct:
			opt = w
		case i < correct:
			opt = decoys[i]
		default:
			opt = decoys[i-1]
		}
		q.Choices = append(q.Choices, AnswerText(opt))
		q.choiceIDs = append(q.choiceIDs, opt.ID)
	}
	return q
}

// AnswerText is the option text shown for w: its native definitions, or its
// target-language ones when it has none.
func AnswerText(w domain.Word) string {
	defs := w.NativeDefs
	if len(defs) == 0 {
		defs = w.TargetDefs
	}
	return strings.Join(defs, "; ")
}
