package handler

import (
	"net/http"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/vocablog/internal/domain"
	"github.com/pkordes/vocablog/internal/quiz"
)

// SelectionRequest is the body of POST /quiz. Any mix of fields may be set.
type SelectionRequest struct {
	Offsets       []int                `json:"offsets,omitempty"`
	Dates         []openapi_types.Date `json:"dates,omitempty"`
	Random        int                  `json:"random,omitempty"`
	MostDifficult int                  `json:"most_difficult,omitempty"`
}

// QuestionResponse is a question with its answer options.
type QuestionResponse struct {
	WordID        string   `json:"word_id"`
	Term          string   `json:"term"`
	Transcription string   `json:"transcription,omitempty"`
	Properties    []string `json:"properties"`
	Choices       []string `json:"choices"`
}

// QuizResponse is the progress of a quiz session.
type QuizResponse struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	State     string            `json:"state"`
	Total     int               `json:"total"`
	Remaining int               `json:"remaining"`
	Asked     int               `json:"asked"`
	Correct   int               `json:"correct"`
	Mistakes  int               `json:"mistakes"`
	Question  *QuestionResponse `json:"question,omitempty"`
}

// AnswerRequest is the body of POST /quiz/{id}/answer.
type AnswerRequest struct {
	Choice *int `json:"choice"`
}

// MistakeResponse identifies a logged wrong answer.
type MistakeResponse struct {
	WordID  string `json:"word_id"`
	WrongID string `json:"wrong_id"`
}

// AnswerResponse is the outcome of one answer.
type AnswerResponse struct {
	Correct       bool             `json:"correct"`
	CorrectChoice int              `json:"correct_choice"`
	State         string           `json:"state"`
	Mistake       *MistakeResponse `json:"mistake,omitempty"`
}

// StartQuiz handles POST /quiz.
func (s *Server) StartQuiz(w http.ResponseWriter, r *http.Request) {
	var body SelectionRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	sel := domain.Selection{Offsets: body.Offsets, Random: body.Random, MostDifficult: body.MostDifficult}
	for _, d := range body.Dates {
		sel.Dates = append(sel.Dates, d.Time)
	}

	id, st, err := s.quiz.Start(r.Context(), sel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/quiz/"+id.String())
	writeJSON(w, http.StatusCreated, statusToResponse(id, st))
}

// GetQuiz handles GET /quiz/{id}.
func (s *Server) GetQuiz(w http.ResponseWriter, r *http.Request) {
	var id openapi_types.UUID
	if !pathParam(w, r, "id", &id) {
		return
	}
	st, err := s.quiz.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusToResponse(id, st))
}

// NextQuestion handles POST /quiz/{id}/next.
func (s *Server) NextQuestion(w http.ResponseWriter, r *http.Request) {
	var id openapi_types.UUID
	if !pathParam(w, r, "id", &id) {
		return
	}
	q, err := s.quiz.Next(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questionToResponse(q))
}

// AnswerQuestion handles POST /quiz/{id}/answer.
func (s *Server) AnswerQuestion(w http.ResponseWriter, r *http.Request) {
	var id openapi_types.UUID
	if !pathParam(w, r, "id", &id) {
		return
	}
	var body AnswerRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Choice == nil {
		requestBody(w, "choice is required")
		return
	}

	res, err := s.quiz.Answer(r.Context(), id, *body.Choice)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := AnswerResponse{Correct: res.Correct, CorrectChoice: res.CorrectChoice, State: res.State.String()}
	if res.Mistake != nil {
		resp.Mistake = &MistakeResponse{WordID: res.Mistake.WordID, WrongID: res.Mistake.WrongID}
	}
	writeJSON(w, http.StatusOK, resp)
}

// CancelQuiz handles DELETE /quiz/{id}.
func (s *Server) CancelQuiz(w http.ResponseWriter, r *http.Request) {
	var id openapi_types.UUID
	if !pathParam(w, r, "id", &id) {
		return
	}
	if err := s.quiz.Cancel(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

func statusToResponse(id uuid.UUID, st quiz.Status) QuizResponse {
	resp := QuizResponse{
		ID:        id,
		Title:     st.Title,
		State:     st.State.String(),
		Total:     st.Total,
		Remaining: st.Remaining,
		Asked:     st.Asked,
		Correct:   st.Correct,
		Mistakes:  st.Mistakes,
	}
	if st.Question != nil {
		q := questionToResponse(*st.Question)
		resp.Question = &q
	}
	return resp
}

func questionToResponse(q quiz.Question) QuestionResponse {
	return QuestionResponse{
		WordID:        q.WordID,
		Term:          q.Term,
		Transcription: q.Transcription,
		Properties:    nonNil(q.Properties),
		Choices:       nonNil(q.Choices),
	}
}
