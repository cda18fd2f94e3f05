package repo

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" driver

	"github.com/pkordes/vocablog/internal/domain"
)

// sqliteDateLayout is how learned_on is stored; go-sqlite3 scans DATE
// columns in this layout back into time.Time.
const sqliteDateLayout = "2006-01-02"

// sqliteWordRepo is the SQLite implementation of WordRepo.
type sqliteWordRepo struct {
	db *sql.DB
}

// NewSQLiteWordRepo constructs a WordRepo backed by a go-sqlite3 database.
// For ":memory:" databases the caller must limit db to one open connection,
// otherwise each connection sees its own empty database.
func NewSQLiteWordRepo(db *sql.DB) WordRepo {
	return &sqliteWordRepo{db: db}
}

// OpenSQLite opens the SQLite database at path.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("repo.OpenSQLite: ping: %w", err)
	}
	return db, nil
}

// List returns all words ordered by learn date, then term.
func (r *sqliteWordRepo) List(ctx context.Context) ([]domain.Word, error) {
	const q = `SELECT ` + wordColumns + ` FROM words ORDER BY learned_on, word`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.SQLiteWordRepo.List: %w", err)
	}
	defer rows.Close()

	words := []domain.Word{}
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.SQLiteWordRepo.List: scan: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.SQLiteWordRepo.List: rows: %w", err)
	}
	return words, nil
}

// Save upserts all words inside one transaction.
func (r *sqliteWordRepo) Save(ctx context.Context, words ...domain.Word) error {
	rows := make([]wordRow, 0, len(words))
	for _, w := range words {
		row, err := toRow(w)
		if err != nil {
			return fmt.Errorf("repo.SQLiteWordRepo.Save: %w", err)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repo.SQLiteWordRepo.Save: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	stmt, err := tx.PrepareContext(ctx, upsertWordSQL)
	if err != nil {
		return fmt.Errorf("repo.SQLiteWordRepo.Save: prepare: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.ExecContext(ctx,
			sql.Named("id", row.id),
			sql.Named("learned_on", row.learnedOn.Format(sqliteDateLayout)),
			sql.Named("word", row.word),
			sql.Named("properties", row.properties),
			sql.Named("transcription", row.transcription),
			sql.Named("english", row.english),
			sql.Named("russian", row.russian),
		)
		if err != nil {
			return fmt.Errorf("repo.SQLiteWordRepo.Save: %s: %w", row.word, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("repo.SQLiteWordRepo.Save: commit: %w", err)
	}
	return nil
}
