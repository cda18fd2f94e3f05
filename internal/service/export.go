package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pkordes/vocablog/internal/domain"
)

// Snapshotter hands out the current Vocabulary. *VocabularyService satisfies it.
type Snapshotter interface {
	Snapshot(ctx context.Context) (*domain.Vocabulary, error)
}

// ExportService assembles flat exports of the vocabulary for document and
// chart renderers.
type ExportService struct {
	vocab Snapshotter
}

// NewExportService constructs an ExportService.
func NewExportService(vocab Snapshotter) *ExportService {
	return &ExportService{vocab: vocab}
}

// Export returns one ExportRow per word in learn order.
// An empty vocabulary exports no rows.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	v, err := s.vocab.Snapshot(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.ExportRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := make([]domain.ExportRow, 0, v.Count())
	for _, d := range v.Days() {
		date := d.Date.Format("2006-01-02")
		for _, w := range d.Words {
			rows = append(rows, domain.ExportRow{
				Date:          date,
				ID:            w.ID,
				Term:          w.Term,
				Transcription: w.Transcription,
				Properties:    w.Properties.Tags(),
				TargetDefs:    w.TargetDefs,
				NativeDefs:    w.NativeDefs,
			})
		}
	}
	return rows, nil
}

// Chart returns the words-per-day series from the first to the last learning
// day, with zero points for the days in between that have nothing learned.
func (s *ExportService) Chart(ctx context.Context) (domain.ChartSeries, error) {
	v, err := s.vocab.Snapshot(ctx)
	if err != nil {
		return domain.ChartSeries{}, fmt.Errorf("service.ExportService.Chart: %w", err)
	}
	return domain.ChartSeries{Name: v.GraphicName(), Points: v.DayCounts()}, nil
}
