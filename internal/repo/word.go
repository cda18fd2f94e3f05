// Package repo contains every persistence adapter for the vocabulary:
// the relational word stores (Postgres and SQLite), the legacy text file and
// the JSON repeat log. No business logic lives here, only storage and mapping.
package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/vocablog/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// WordRepo defines the persistence operations for words.
// The service layer depends on this interface, not on a concrete store.
type WordRepo interface {
	// List returns every stored word ordered by learn date and term.
	// An empty store yields an empty slice, not an error.
	List(ctx context.Context) ([]domain.Word, error)

	// Save upserts words keyed by id and learn date. Every word must carry
	// a LearnedOn date. Returns domain.ErrReadOnly if the store cannot be
	// written.
	Save(ctx context.Context, words ...domain.Word) error
}

// VocabularyLoader is implemented by stores that keep days as well as
// words, so that days stored without any word survive a load.
type VocabularyLoader interface {
	// Vocabulary returns the stored days, or nil when nothing is stored.
	Vocabulary(ctx context.Context) (*domain.Vocabulary, error)
}

// LoadVocabulary reads r as a Vocabulary. Stores that implement
// VocabularyLoader are asked directly; the others are grouped by learn date.
// An empty store yields a nil Vocabulary.
func LoadVocabulary(ctx context.Context, r WordRepo) (*domain.Vocabulary, error) {
	if l, ok := r.(VocabularyLoader); ok {
		return l.Vocabulary(ctx)
	}
	words, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, nil
	}
	return domain.GroupByDate(words)
}

// wordColumns is the select list shared by the relational stores.
const wordColumns = `id, learned_on, word, properties, transcription, english, russian`

// upsertWordSQL is valid for both Postgres (pgx.NamedArgs) and SQLite
// (sql.Named), which both bind @name placeholders.
const upsertWordSQL = `
	INSERT INTO words (id, learned_on, word, properties, transcription, english, russian)
	VALUES (@id, @learned_on, @word, @properties, @transcription, @english, @russian)
	ON CONFLICT (id, learned_on) DO UPDATE
	SET word          = excluded.word,
	    properties    = excluded.properties,
	    transcription = excluded.transcription,
	    english       = excluded.english,
	    russian       = excluded.russian`

// pgWordRepo is the Postgres implementation of WordRepo.
type pgWordRepo struct {
	db db
}

// NewPgWordRepo constructs a WordRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPgWordRepo(db db) WordRepo {
	return &pgWordRepo{db: db}
}

// List returns all words ordered by learn date, then term.
func (r *pgWordRepo) List(ctx context.Context) ([]domain.Word, error) {
	const q = `SELECT ` + wordColumns + ` FROM words ORDER BY learned_on, word`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.PgWordRepo.List: %w", err)
	}
	defer rows.Close()

	words := []domain.Word{}
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PgWordRepo.List: scan: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PgWordRepo.List: rows: %w", err)
	}
	return words, nil
}

// Save upserts all words in a single batch.
func (r *pgWordRepo) Save(ctx context.Context, words ...domain.Word) error {
	batch := &pgx.Batch{}
	for _, w := range words {
		row, err := toRow(w)
		if err != nil {
			return fmt.Errorf("repo.PgWordRepo.Save: %w", err)
		}
		batch.Queue(upsertWordSQL, pgx.NamedArgs{
			"id":            row.id,
			"learned_on":    row.learnedOn,
			"word":          row.word,
			"properties":    row.properties,
			"transcription": row.transcription,
			"english":       row.english,
			"russian":       row.russian,
		})
	}
	if batch.Len() == 0 {
		return nil
	}

	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("repo.PgWordRepo.Save: %w", err)
	}
	return nil
}

// scanner is satisfied by pgx.Row, pgx.Rows and *sql.Rows, allowing
// scanWord to be reused by both relational stores.
type scanner interface {
	Scan(dest ...any) error
}

// wordRow is the flat column form of a domain.Word.
type wordRow struct {
	id            string
	learnedOn     time.Time
	word          string
	properties    string
	transcription string
	english       string
	russian       string
}

func toRow(w domain.Word) (wordRow, error) {
	if w.LearnedOn.IsZero() {
		return wordRow{}, fmt.Errorf("%w: word %q has no learn date", domain.ErrValidation, w.Term)
	}
	return wordRow{
		id:            w.ID,
		learnedOn:     domain.Truncate(w.LearnedOn),
		word:          w.Term,
		properties:    w.Properties.String(),
		transcription: w.Transcription,
		english:       domain.JoinDefs(w.TargetDefs),
		russian:       domain.JoinDefs(w.NativeDefs),
	}, nil
}

// scanWord maps a single database row into a domain.Word.
func scanWord(s scanner) (domain.Word, error) {
	var r wordRow
	err := s.Scan(&r.id, &r.learnedOn, &r.word, &r.properties, &r.transcription, &r.english, &r.russian)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return domain.Word{}, domain.ErrNotFound
		}
		return domain.Word{}, err
	}
	w, err := domain.NewWord(domain.WordFields{
		Term:          r.word,
		Transcription: r.transcription,
		Properties:    domain.ParseProperties(r.properties),
		TargetDefs:    domain.SplitDefs(r.english),
		NativeDefs:    domain.SplitDefs(r.russian),
		LearnedOn:     r.learnedOn,
	})
	if err != nil {
		return domain.Word{}, err
	}
	return w, nil
}

// readOnlyRepo rejects every Save.
type readOnlyRepo struct {
	WordRepo
}

// ReadOnly wraps r so that Save fails with domain.ErrReadOnly.
func ReadOnly(r WordRepo) WordRepo {
	return readOnlyRepo{WordRepo: r}
}

func (r readOnlyRepo) Vocabulary(ctx context.Context) (*domain.Vocabulary, error) {
	return LoadVocabulary(ctx, r.WordRepo)
}

func (readOnlyRepo) Save(ctx context.Context, words ...domain.Word) error {
	return fmt.Errorf("repo.ReadOnly.Save: %w", domain.ErrReadOnly)
}
