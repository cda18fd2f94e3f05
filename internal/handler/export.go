// Package handler: export.go implements GET /export and GET /export/chart.
// Returns every word as a flat table, or the per-day counts for a chart.
// Supports content negotiation via ?format=csv (CSV) or default (JSON).
package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/vocablog/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"date", "id", "term", "transcription", "properties", "target_defs", "native_defs",
}

// ExportRow is one word in the JSON export.
type ExportRow struct {
	Date          openapi_types.Date `json:"date"`
	ID            string             `json:"id"`
	Term          string             `json:"term"`
	Transcription string             `json:"transcription,omitempty"`
	Properties    []string           `json:"properties"`
	TargetDefs    []string           `json:"target_defs"`
	NativeDefs    []string           `json:"native_defs"`
}

// ChartResponse is the body of GET /export/chart.
type ChartResponse struct {
	Name   string             `json:"name"`
	Points []DayCountResponse `json:"points"`
}

// GetExport implements GET /export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	var formatParam *string
	if !queryParam(w, r, "format", false, &formatParam) {
		return
	}
	format := valueOr(formatParam, "json")
	if format != "json" && format != "csv" {
		requestBody(w, "format must be json or csv")
		return
	}

	rows, err := s.export.Export(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	if format == "csv" {
		buf := buildCSV(rows)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="vocabulary.csv"`)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		buf.WriteTo(w)
		return
	}
	writeJSON(w, http.StatusOK, buildJSON(rows))
}

// GetChart implements GET /export/chart.
func (s *Server) GetChart(w http.ResponseWriter, r *http.Request) {
	series, err := s.export.Chart(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := ChartResponse{Name: series.Name, Points: make([]DayCountResponse, 0, len(series.Points))}
	for _, p := range series.Points {
		resp.Points = append(resp.Points, dayCountToResponse(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// buildJSON converts domain rows to the JSON response rows.
func buildJSON(rows []domain.ExportRow) []ExportRow {
	out := make([]ExportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, ExportRow{
			Date:          mustParseDate(r.Date),
			ID:            r.ID,
			Term:          r.Term,
			Transcription: r.Transcription,
			Properties:    nonNil(r.Properties),
			TargetDefs:    nonNil(r.TargetDefs),
			NativeDefs:    nonNil(r.NativeDefs),
		})
	}
	return out
}

// buildCSV encodes domain rows as CSV.
// Properties are pipe-separated ("|") and definitions semicolon-separated so
// that each word stays on a single CSV line.
func buildCSV(rows []domain.ExportRow) *bytes.Buffer {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	w.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		w.Write([]string{
			r.Date,
			r.ID,
			r.Term,
			r.Transcription,
			strings.Join(r.Properties, "|"),
			domain.JoinDefs(r.TargetDefs),
			domain.JoinDefs(r.NativeDefs),
		})
	}
	w.Flush()
	return &buf
}

// mustParseDate parses an "2006-01-02" string into an openapi_types.Date.
// Panics on malformed input; callers are expected to pass service-generated dates.
func mustParseDate(s string) openapi_types.Date {
	t, err := time.Parse(openapi_types.DateFormat, s)
	if err != nil {
		panic("handler: malformed date from service: " + s)
	}
	return openapi_types.Date{Time: t}
}
