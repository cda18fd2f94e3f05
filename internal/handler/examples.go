package handler

import (
	"net/http"

	"github.com/pkordes/vocablog/internal/corpus"
)

// ExamplesResponse wraps usage examples.
type ExamplesResponse struct {
	Examples []corpus.Example `json:"examples"`
}

// SynonymsResponse wraps synonyms.
type SynonymsResponse struct {
	Synonyms []string `json:"synonyms"`
}

// GetExamples handles GET /examples/{term}?count=.
func (s *Server) GetExamples(w http.ResponseWriter, r *http.Request) {
	var (
		term  string
		count *int
	)
	if !pathParam(w, r, "term", &term) || !queryParam(w, r, "count", false, &count) {
		return
	}
	examples, err := s.examples.Examples(r.Context(), term, valueOr(count, 0))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ExamplesResponse{Examples: examples})
}

// GetSynonyms handles GET /synonyms/{term}.
func (s *Server) GetSynonyms(w http.ResponseWriter, r *http.Request) {
	var term string
	if !pathParam(w, r, "term", &term) {
		return
	}
	synonyms, err := s.examples.Synonyms(r.Context(), term)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SynonymsResponse{Synonyms: synonyms})
}

// GetArticleExamples handles GET /articles/examples?url=&term=&count=.
func (s *Server) GetArticleExamples(w http.ResponseWriter, r *http.Request) {
	var (
		rawURL, term string
		count        *int
	)
	if !queryParam(w, r, "url", true, &rawURL) || !queryParam(w, r, "term", true, &term) ||
		!queryParam(w, r, "count", false, &count) {
		return
	}
	examples, err := s.examples.Articles(r.Context(), rawURL, term, valueOr(count, 0))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ExamplesResponse{Examples: examples})
}
