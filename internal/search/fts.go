package search

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// FTSIndex is a TextIndex backed by a SQLite FTS5 virtual table. It can
// live in the same database file as the component cache or in-memory
// (path ":memory:").
type FTSIndex struct {
	db *sql.DB
}

// OpenFTSIndex opens (and if needed creates) the FTS table at the given
// database path.
func OpenFTSIndex(path string) (*FTSIndex, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening search index database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec(`CREATE VIRTUAL TABLE IF NOT EXISTS component_fts USING fts5(component_id UNINDEXED, tokens)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating search index table: %w", err)
	}
	return &FTSIndex{db: db}, nil
}

// Index replaces the whole table content inside one transaction.
func (f *FTSIndex) Index(docs []Document) error {
	tx, err := f.db.Begin()
	if err != nil {
		return fmt.Errorf("starting index transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM component_fts`); err != nil {
		return fmt.Errorf("clearing search index: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO component_fts (component_id, tokens) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing index insert: %w", err)
	}
	defer stmt.Close()
	for _, doc := range docs {
		if _, err := stmt.Exec(doc.ID, strings.Join(doc.Tokens, " ")); err != nil {
			return fmt.Errorf("indexing component %s: %w", doc.ID, err)
		}
	}
	return tx.Commit()
}

// Search issues an OR query over the stemmed tokens; bm25 ranking, ties
// broken by id.
func (f *FTSIndex) Search(tokens []string) ([]Match, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = `"` + strings.ReplaceAll(tok, `"`, ``) + `"`
	}
	query := strings.Join(quoted, " OR ")

	rows, err := f.db.Query(
		`SELECT component_id, bm25(component_fts) FROM component_fts
		 WHERE component_fts MATCH ? ORDER BY bm25(component_fts), component_id`, query)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var m Match
		var rank float64
		if err := rows.Scan(&m.ID, &rank); err != nil {
			return nil, err
		}
		// bm25 is smaller-is-better; expose larger-is-better scores.
		m.Score = -rank
		out = append(out, m)
	}
	return out, rows.Err()
}

func (f *FTSIndex) Close() error {
	return f.db.Close()
}
