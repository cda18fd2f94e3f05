package domain

// ExportRow is a single row in the full-data export: one row per word, with
// the learn date repeated on every row of the same day.
// Definition lists and properties are kept as slices; callers that need a
// single string (e.g. CSV) join them.
type ExportRow struct {
	Date          string // "2006-01-02" formatted date
	ID            string
	Term          string
	Transcription string
	Properties    []string
	TargetDefs    []string
	NativeDefs    []string
}

// ChartSeries is the per-day word count handed to chart renderers.
type ChartSeries struct {
	Name   string
	Points []DayCount
}
