package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/vocablog/internal/domain"
	"github.com/pkordes/vocablog/internal/handler"
	"github.com/pkordes/vocablog/internal/quiz"
)

// mockQuizServicer is a test double for handler.QuizServicer.
type mockQuizServicer struct {
	start  func(ctx context.Context, sel domain.Selection) (uuid.UUID, quiz.Status, error)
	get    func(ctx context.Context, id uuid.UUID) (quiz.Status, error)
	next   func(ctx context.Context, id uuid.UUID) (quiz.Question, error)
	answer func(ctx context.Context, id uuid.UUID, choice int) (quiz.Result, error)
	cancel func(ctx context.Context, id uuid.UUID) error
}

func (m *mockQuizServicer) Start(ctx context.Context, sel domain.Selection) (uuid.UUID, quiz.Status, error) {
	return m.start(ctx, sel)
}
func (m *mockQuizServicer) Get(ctx context.Context, id uuid.UUID) (quiz.Status, error) {
	return m.get(ctx, id)
}
func (m *mockQuizServicer) Next(ctx context.Context, id uuid.UUID) (quiz.Question, error) {
	return m.next(ctx, id)
}
func (m *mockQuizServicer) Answer(ctx context.Context, id uuid.UUID, choice int) (quiz.Result, error) {
	return m.answer(ctx, id, choice)
}
func (m *mockQuizServicer) Cancel(ctx context.Context, id uuid.UUID) error {
	return m.cancel(ctx, id)
}

var _ handler.QuizServicer = (*mockQuizServicer)(nil)

func newQuizHTTPHandler(svc handler.QuizServicer) http.Handler {
	return handler.NewServer(nil, svc, nil, nil, nil).Handler()
}

// ---- POST /quiz ------------------------------------------------------------

func TestStartQuiz_201(t *testing.T) {
	id := uuid.New()
	var got domain.Selection
	svc := &mockQuizServicer{
		start: func(_ context.Context, sel domain.Selection) (uuid.UUID, quiz.Status, error) {
			got = sel
			return id, quiz.Status{Title: "01.01.2020", State: quiz.Idle, Total: 4, Remaining: 4}, nil
		},
	}
	body := jsonBody(t, map[string]any{"offsets": []int{1, 2}, "dates": []string{"2020-01-01"}, "most_difficult": 3})

	rec := serve(newQuizHTTPHandler(svc), http.MethodPost, "/quiz", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/quiz/"+id.String(), rec.Header().Get("Location"))
	assert.Equal(t, []int{1, 2}, got.Offsets)
	require.Len(t, got.Dates, 1)
	assert.Equal(t, date(2020, 1, 1), got.Dates[0])
	assert.Equal(t, 3, got.MostDifficult)

	var resp handler.QuizResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, id, resp.ID)
	assert.Equal(t, "idle", resp.State)
	assert.Nil(t, resp.Question)
}

func TestStartQuiz_422_EmptySelection(t *testing.T) {
	svc := &mockQuizServicer{
		start: func(_ context.Context, _ domain.Selection) (uuid.UUID, quiz.Status, error) {
			return uuid.Nil, quiz.Status{}, fmt.Errorf("service.QuizService.Start: %w: nothing selected", domain.ErrValidation)
		},
	}

	rec := serve(newQuizHTTPHandler(svc), http.MethodPost, "/quiz", bytes.NewBufferString(`{}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "nothing selected", decodeError(t, rec).Message)
}

// ---- GET /quiz/{id} --------------------------------------------------------

func TestGetQuiz_WithOpenQuestion(t *testing.T) {
	svc := &mockQuizServicer{
		get: func(_ context.Context, _ uuid.UUID) (quiz.Status, error) {
			return quiz.Status{State: quiz.AwaitingAnswer, Question: &quiz.Question{
				WordID: "abc", Term: "get", Choices: []string{"получать", "бежать"},
			}}, nil
		},
	}

	rec := serve(newQuizHTTPHandler(svc), http.MethodGet, "/quiz/"+uuid.NewString(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.QuizResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "awaiting_answer", resp.State)
	require.NotNil(t, resp.Question)
	assert.Equal(t, []string{"получать", "бежать"}, resp.Question.Choices)
}

func TestGetQuiz_404(t *testing.T) {
	svc := &mockQuizServicer{
		get: func(_ context.Context, id uuid.UUID) (quiz.Status, error) {
			return quiz.Status{}, fmt.Errorf("%w: quiz %s", domain.ErrNotFound, id)
		},
	}

	rec := serve(newQuizHTTPHandler(svc), http.MethodGet, "/quiz/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetQuiz_422_BadID(t *testing.T) {
	rec := serve(newQuizHTTPHandler(&mockQuizServicer{}), http.MethodGet, "/quiz/not-a-uuid", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- POST /quiz/{id}/next and /answer --------------------------------------

func TestNextQuestion_409_WrongState(t *testing.T) {
	svc := &mockQuizServicer{
		next: func(_ context.Context, _ uuid.UUID) (quiz.Question, error) {
			return quiz.Question{}, fmt.Errorf("quiz.Session.Next: %w: finished", quiz.ErrState)
		},
	}

	rec := serve(newQuizHTTPHandler(svc), http.MethodPost, "/quiz/"+uuid.NewString()+"/next", nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "invalid_state", decodeError(t, rec).Code)
}

func TestAnswerQuestion_Wrong(t *testing.T) {
	var choice int
	svc := &mockQuizServicer{
		answer: func(_ context.Context, _ uuid.UUID, c int) (quiz.Result, error) {
			choice = c
			return quiz.Result{
				CorrectChoice: 2,
				State:         quiz.AwaitingAnswer,
				Mistake:       &quiz.Mistake{WordID: "a", WrongID: "b"},
			}, nil
		},
	}

	rec := serve(newQuizHTTPHandler(svc), http.MethodPost, "/quiz/"+uuid.NewString()+"/answer", bytes.NewBufferString(`{"choice":0}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, choice)
	var resp handler.AnswerResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Correct)
	assert.Equal(t, 2, resp.CorrectChoice)
	require.NotNil(t, resp.Mistake)
	assert.Equal(t, "b", resp.Mistake.WrongID)
}

func TestAnswerQuestion_422_MissingChoice(t *testing.T) {
	rec := serve(newQuizHTTPHandler(&mockQuizServicer{}), http.MethodPost, "/quiz/"+uuid.NewString()+"/answer", bytes.NewBufferString(`{}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- DELETE /quiz/{id} -----------------------------------------------------

func TestCancelQuiz_204(t *testing.T) {
	id := uuid.New()
	var got uuid.UUID
	svc := &mockQuizServicer{
		cancel: func(_ context.Context, i uuid.UUID) error {
			got = i
			return nil
		},
	}

	rec := serve(newQuizHTTPHandler(svc), http.MethodDelete, "/quiz/"+id.String(), nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, id, got)
}
