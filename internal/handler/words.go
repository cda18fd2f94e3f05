package handler

import (
	"net/http"
	"strconv"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/vocablog/internal/domain"
)

// WordResponse is the JSON form of a domain.Word.
type WordResponse struct {
	ID            string              `json:"id"`
	Term          string              `json:"term"`
	Transcription string              `json:"transcription,omitempty"`
	Properties    []string            `json:"properties"`
	TargetDefs    []string            `json:"target_defs"`
	NativeDefs    []string            `json:"native_defs"`
	LearnedOn     *openapi_types.Date `json:"learned_on,omitempty"`
}

// DayResponse is one learning day.
type DayResponse struct {
	Date  openapi_types.Date `json:"date"`
	Words []WordResponse     `json:"words"`
}

// DayCountResponse pairs a date with its word count.
type DayCountResponse struct {
	Date  openapi_types.Date `json:"date"`
	Count int                `json:"count"`
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	Begin        openapi_types.Date `json:"begin"`
	End          openapi_types.Date `json:"end"`
	Duration     int                `json:"duration"`
	Total        int                `json:"total"`
	Average      int                `json:"average"`
	EmptyDays    int                `json:"empty_days"`
	WouldBeTotal int                `json:"would_be_total"`
	Min          DayCountResponse   `json:"min"`
	Max          DayCountResponse   `json:"max"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// WordListResponse is the body of GET /words.
type WordListResponse struct {
	Data       []WordResponse `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// DaysResponse wraps a list of days.
type DaysResponse struct {
	Days []DayResponse `json:"days"`
}

// WordRequest is one word to append. Either Line, in the vocabulary text
// format, or Term with the other fields is given.
type WordRequest struct {
	Line          string              `json:"line,omitempty"`
	Term          string              `json:"term,omitempty"`
	Transcription string              `json:"transcription,omitempty"`
	Properties    []string            `json:"properties,omitempty"`
	TargetDefs    []string            `json:"target_defs,omitempty"`
	NativeDefs    []string            `json:"native_defs,omitempty"`
	LearnedOn     *openapi_types.Date `json:"learned_on,omitempty"`
}

// AppendRequest is the body of POST /words.
type AppendRequest struct {
	Words []WordRequest `json:"words"`
}

// AppendResponse is the body returned by POST /words.
type AppendResponse struct {
	Words []WordResponse `json:"words"`
	Lints []string       `json:"lints"`
}

// DifficultWordResponse is a word with its repeat-log score.
type DifficultWordResponse struct {
	Word  WordResponse `json:"word"`
	Score int          `json:"score"`
}

// DifficultResponse is the body of GET /difficult.
type DifficultResponse struct {
	Words []DifficultWordResponse `json:"words"`
}

// GetStats handles GET /stats.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.vocab.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{
		Begin:        openapi_types.Date{Time: st.Begin},
		End:          openapi_types.Date{Time: st.End},
		Duration:     st.Duration,
		Total:        st.Total,
		Average:      st.Average,
		EmptyDays:    st.EmptyDays,
		WouldBeTotal: st.WouldBeTotal,
		Min:          dayCountToResponse(st.Min),
		Max:          dayCountToResponse(st.Max),
	})
}

// ListDays handles GET /days?from=&to=.
// A missing bound defaults to the first or last learning day.
func (s *Server) ListDays(w http.ResponseWriter, r *http.Request) {
	var from, to *openapi_types.Date
	if !queryParam(w, r, "from", false, &from) || !queryParam(w, r, "to", false, &to) {
		return
	}
	if from == nil || to == nil {
		st, err := s.vocab.Stats(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		if from == nil {
			from = &openapi_types.Date{Time: st.Begin}
		}
		if to == nil {
			to = &openapi_types.Date{Time: st.End}
		}
	}

	days, err := s.vocab.Range(r.Context(), from.Time, to.Time)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := DaysResponse{Days: make([]DayResponse, 0, len(days))}
	for _, d := range days {
		out.Days = append(out.Days, dayToResponse(d.Date, d.Words))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetDay handles GET /days/{date}.
func (s *Server) GetDay(w http.ResponseWriter, r *http.Request) {
	var date openapi_types.Date
	if !pathParam(w, r, "date", &date) {
		return
	}
	day, err := s.vocab.Lookup(r.Context(), date.Time)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dayToResponse(day.Date, day.Words))
}

// SearchWords handles GET /search?q=.
// A query starting with "!" searches the definitions.
func (s *Server) SearchWords(w http.ResponseWriter, r *http.Request) {
	var q string
	if !queryParam(w, r, "q", true, &q) {
		return
	}
	matches, err := s.vocab.Search(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := DaysResponse{Days: make([]DayResponse, 0, len(matches))}
	for _, m := range matches {
		out.Days = append(out.Days, dayToResponse(m.Date, m.Words))
	}
	writeJSON(w, http.StatusOK, out)
}

// ListWords handles GET /words.
// ?tag= (repeatable) filters by properties, ?id= (repeatable) by word id.
// Every listing is paged with ?page= and ?limit= (defaults: page=1,
// limit=50, max=200).
func (s *Server) ListWords(w http.ResponseWriter, r *http.Request) {
	var (
		tags, ids   *[]string
		page, limit *int
	)
	if !queryParam(w, r, "tag", false, &tags) || !queryParam(w, r, "id", false, &ids) ||
		!queryParam(w, r, "page", false, &page) || !queryParam(w, r, "limit", false, &limit) {
		return
	}
	params := domain.NewPaginationParams(page, limit)

	var (
		words []domain.Word
		total int
		err   error
	)
	switch {
	case tags != nil && len(*tags) > 0:
		words, err = s.vocab.ByTags(r.Context(), *tags...)
		words, total = paginate(words, params)
	case ids != nil && len(*ids) > 0:
		words, err = s.vocab.ByIDs(r.Context(), *ids...)
		words, total = paginate(words, params)
	default:
		words, total, err = s.vocab.Words(r.Context(), params)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	writeJSON(w, http.StatusOK, WordListResponse{
		Data:       wordsToResponse(words),
		Pagination: Pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// paginate cuts one page out of an already filtered result and reports the
// unpaged total.
func paginate(words []domain.Word, p domain.PaginationParams) ([]domain.Word, int) {
	start, end := p.Window(len(words))
	return words[start:end], len(words)
}

// AppendWords handles POST /words.
func (s *Server) AppendWords(w http.ResponseWriter, r *http.Request) {
	var body AppendRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if len(body.Words) == 0 {
		requestBody(w, "words must not be empty")
		return
	}

	words := make([]domain.Word, 0, len(body.Words))
	lints := []string{}
	for i, req := range body.Words {
		word, found, err := requestToWord(req)
		if err != nil {
			requestBody(w, "words["+strconv.Itoa(i)+"]: "+unwrapMessage(err, domain.ErrValidation))
			return
		}
		for _, l := range found {
			lints = append(lints, l.String())
		}
		words = append(words, word)
	}

	saved, err := s.vocab.Append(r.Context(), words...)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, AppendResponse{Words: wordsToResponse(saved), Lints: lints})
}

// ListDifficult handles GET /difficult?n= (default 10).
func (s *Server) ListDifficult(w http.ResponseWriter, r *http.Request) {
	var n *int
	if !queryParam(w, r, "n", false, &n) {
		return
	}
	words, err := s.vocab.Difficult(r.Context(), valueOr(n, 10))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := DifficultResponse{Words: make([]DifficultWordResponse, 0, len(words))}
	for _, d := range words {
		out.Words = append(out.Words, DifficultWordResponse{Word: wordToResponse(d.Word), Score: d.Score})
	}
	writeJSON(w, http.StatusOK, out)
}

// --- mapping helpers --------------------------------------------------------

// requestToWord converts a WordRequest into a domain.Word, parsing Line when
// it is given.
func requestToWord(req WordRequest) (domain.Word, []domain.Lint, error) {
	var (
		word  domain.Word
		lints []domain.Lint
		err   error
	)
	if req.Line != "" {
		word, lints, err = domain.ParseWord(req.Line)
	} else {
		word, err = domain.NewWord(domain.WordFields{
			Term:          req.Term,
			Transcription: req.Transcription,
			Properties:    domain.NewProperties(req.Properties),
			TargetDefs:    req.TargetDefs,
			NativeDefs:    req.NativeDefs,
		})
	}
	if err != nil {
		return domain.Word{}, nil, err
	}
	if req.LearnedOn != nil {
		word.LearnedOn = domain.Truncate(req.LearnedOn.Time)
	}
	return word, lints, nil
}

func wordToResponse(w domain.Word) WordResponse {
	resp := WordResponse{
		ID:            w.ID,
		Term:          w.Term,
		Transcription: w.Transcription,
		Properties:    nonNil(w.Properties.Tags()),
		TargetDefs:    nonNil(w.TargetDefs),
		NativeDefs:    nonNil(w.NativeDefs),
	}
	if !w.LearnedOn.IsZero() {
		resp.LearnedOn = &openapi_types.Date{Time: w.LearnedOn}
	}
	return resp
}

func wordsToResponse(words []domain.Word) []WordResponse {
	out := make([]WordResponse, len(words))
	for i, w := range words {
		out[i] = wordToResponse(w)
	}
	return out
}

func dayToResponse(date time.Time, words []domain.Word) DayResponse {
	return DayResponse{Date: openapi_types.Date{Time: date}, Words: wordsToResponse(words)}
}

func dayCountToResponse(c domain.DayCount) DayCountResponse {
	return DayCountResponse{Date: openapi_types.Date{Time: c.Date}, Count: c.Count}
}

// valueOr dereferences an optional parameter.
func valueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

// nonNil keeps empty lists as [] in JSON.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
