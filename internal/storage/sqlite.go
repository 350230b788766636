package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/matsen/litbib/internal/bibfile"
	"github.com/matsen/litbib/internal/match"
	"github.com/matsen/litbib/internal/textnorm"
)

// DB wraps the SQLite query index. The bibliography file is the source of
// truth; the index is rebuilt from it and can be deleted at any time.
type DB struct {
	db *sql.DB
}

// Entry is one indexed bibliography entry with braces stripped.
type Entry struct {
	Key     string `json:"key"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Authors string `json:"authors,omitempty"`
	Year    int    `json:"year,omitempty"`
	DOI     string `json:"doi,omitempty"`
	Journal string `json:"journal,omitempty"`
	Optnote string `json:"optnote,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// selectEntryFields contains the standard field list for SELECT queries.
const selectEntryFields = `key, type, title, authors, year, doi, journal, optnote, line`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS entries (
			rowid INTEGER PRIMARY KEY,
			key TEXT NOT NULL,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			authors TEXT NOT NULL,
			year INTEGER,
			doi TEXT,
			journal TEXT,
			optnote TEXT,
			line INTEGER
		);

		CREATE INDEX IF NOT EXISTS idx_entries_key ON entries(key);
		CREATE INDEX IF NOT EXISTS idx_entries_doi ON entries(doi) WHERE doi IS NOT NULL AND doi != '';

		-- Full-text search, keyed by the rowid of entries
		CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
			key,
			title,
			abstract,
			authors,
			journal
		);
	`
	_, err := db.Exec(schema)
	return err
}

// RebuildFromRecords clears the index and fills it from records. String
// macros and comments are skipped. It returns the number of entries
// indexed.
func (d *DB) RebuildFromRecords(records []*bibfile.Record) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM entries"); err != nil {
		return 0, fmt.Errorf("clearing entries table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM entries_fts"); err != nil {
		return 0, fmt.Errorf("clearing entries_fts table: %w", err)
	}

	entryStmt, err := tx.Prepare(`
		INSERT INTO entries (rowid, key, type, title, authors, year, doi, journal, optnote, line)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing entries insert: %w", err)
	}
	defer entryStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO entries_fts (rowid, key, title, abstract, authors, journal)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	n := 0
	for _, r := range records {
		if r.Kind == bibfile.KindString || r.Kind == bibfile.KindComment {
			continue
		}
		n++
		e := toEntry(r)
		abstract := plain(r.Get(bibfile.FieldAbstract))

		if _, err := entryStmt.Exec(n, e.Key, e.Type, e.Title, e.Authors,
			nullableInt(e.Year), nullableString(e.DOI), nullableString(e.Journal),
			nullableString(e.Optnote), e.Line); err != nil {
			return 0, fmt.Errorf("inserting entry %s: %w", e.Key, err)
		}
		if _, err := ftsStmt.Exec(n, e.Key, e.Title, abstract, e.Authors, e.Journal); err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", e.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing index: %w", err)
	}
	return n, nil
}

func toEntry(r *bibfile.Record) Entry {
	e := Entry{
		Key:     r.Key,
		Type:    r.Type,
		Title:   plain(r.Get(bibfile.FieldTitle)),
		Authors: plain(r.Get(bibfile.FieldAuthor)),
		DOI:     match.NormalizeDOI(r.Get(bibfile.FieldDOI)),
		Journal: plain(r.Get(bibfile.FieldJournal)),
		Optnote: plain(r.Get(bibfile.FieldOptnote)),
		Line:    r.Line,
	}
	if e.Journal == "" {
		e.Journal = plain(r.Get(bibfile.FieldBooktitle))
	}
	if y, err := strconv.Atoi(plain(r.Get(bibfile.FieldYear))); err == nil {
		e.Year = y
	}
	return e
}

// plain strips LaTeX markup and transliterates a field value for searching.
func plain(v string) string {
	return strings.TrimSpace(textnorm.ToASCII(textnorm.StripBraces(textnorm.StripLatex(v))))
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

// GetByKey returns the first entry with key, or nil when there is none.
func (d *DB) GetByKey(key string) (*Entry, error) {
	row := d.db.QueryRow(`SELECT `+selectEntryFields+` FROM entries WHERE key = ? ORDER BY rowid LIMIT 1`, key)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

// Search performs a full-text search over keys, titles, abstracts,
// authors and journals.
func (d *DB) Search(query string, limit int) ([]Entry, error) {
	return d.SearchWithFilters(SearchFilters{Keyword: query}, limit)
}

// SearchFilters contains optional filters for SearchWithFilters.
type SearchFilters struct {
	Keyword  string // FTS over all text columns
	Author   string // FTS prefix match on author names
	Title    string // FTS on titles only
	YearFrom int    // 0 = no minimum
	YearTo   int    // 0 = no maximum
	Journal  string // SQL LIKE, case-insensitive
	Optnote  string // SQL LIKE, case-insensitive
	DOI      string // exact match after normalization
}

// SearchWithFilters returns entries matching all given filters, ordered by
// key.
func (d *DB) SearchWithFilters(f SearchFilters, limit int) ([]Entry, error) {
	var ftsTerms []string
	var args []any

	if f.Keyword != "" {
		ftsTerms = append(ftsTerms, prepareFTSQuery(f.Keyword))
	}
	if f.Title != "" {
		ftsTerms = append(ftsTerms, "title:"+prepareFTSQuery(f.Title))
	}
	if f.Author != "" {
		ftsTerms = append(ftsTerms, "authors:"+prepareAuthorQuery(f.Author))
	}

	query := `SELECT ` + selectEntryFields + ` FROM entries WHERE 1=1`
	if len(ftsTerms) > 0 {
		query += ` AND rowid IN (SELECT rowid FROM entries_fts WHERE entries_fts MATCH ?)`
		args = append(args, strings.Join(ftsTerms, " AND "))
	}
	if f.YearFrom > 0 {
		query += " AND year >= ?"
		args = append(args, f.YearFrom)
	}
	if f.YearTo > 0 {
		query += " AND year <= ?"
		args = append(args, f.YearTo)
	}
	if f.Journal != "" {
		query += " AND journal LIKE ?"
		args = append(args, "%"+f.Journal+"%")
	}
	if f.Optnote != "" {
		query += " AND optnote LIKE ?"
		args = append(args, "%"+f.Optnote+"%")
	}
	if f.DOI != "" {
		query += " AND doi = ?"
		args = append(args, match.NormalizeDOI(f.DOI))
	}
	query += " ORDER BY key"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// Count returns the number of indexed entries.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&count)
	return count, err
}

// CountBy returns entry counts grouped by "type" or "year".
func (d *DB) CountBy(column string) (map[string]int, error) {
	switch column {
	case "type", "year":
	default:
		return nil, fmt.Errorf("unknown grouping column: %s", column)
	}
	rows, err := d.db.Query(`SELECT COALESCE(CAST(` + column + ` AS TEXT), ''), COUNT(*) FROM entries GROUP BY 1`)
	if err != nil {
		return nil, fmt.Errorf("counting by %s: %w", column, err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var k string
		var n int
		if err := rows.Scan(&k, &n); err != nil {
			return nil, err
		}
		out[k] = n
	}
	return out, rows.Err()
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	var e Entry
	var year, line sql.NullInt64
	var doi, journal, optnote sql.NullString
	if err := s.Scan(&e.Key, &e.Type, &e.Title, &e.Authors, &year, &doi, &journal, &optnote, &line); err != nil {
		return nil, err
	}
	e.Year = int(year.Int64)
	e.DOI = doi.String
	e.Journal = journal.String
	e.Optnote = optnote.String
	e.Line = int(line.Int64)
	return &e, nil
}

// prepareFTSQuery quotes queries containing FTS5 operators so they are
// matched literally.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}
	if strings.ContainsAny(query, "\"*+-:(){}[]^~") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}
	return query
}

// prepareAuthorQuery turns each name part into a quoted prefix term, so
// "Sanch" matches "Sanchez".
func prepareAuthorQuery(author string) string {
	parts := strings.Fields(author)
	if len(parts) == 0 {
		return `""`
	}
	terms := make([]string, len(parts))
	for i, part := range parts {
		terms[i] = "\"" + strings.ReplaceAll(part, "\"", "\"\"") + "\"*"
	}
	return "(" + strings.Join(terms, " AND ") + ")"
}
