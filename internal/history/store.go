// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history archives deep thinking runs and the user facts extracted
// from queries in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/sevencode/deepthink/pkg/types"
)

const (
	dbFile          = "history.db"
	defaultDir      = ".deepthink"
	defaultListSize = 20

	// timeFormat keeps fractional seconds fixed-width so text order is
	// chronological order.
	timeFormat = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrNotFound is returned when no run matches an ID.
var ErrNotFound = errors.New("run not found")

// ErrAmbiguousID is returned when an ID prefix matches more than one run.
var ErrAmbiguousID = errors.New("ambiguous run id prefix")

// Run is one archived pipeline run. It carries only what the caller chose
// to keep from the result: the answer, the flags and the rendered
// transcript as an opaque string.
type Run struct {
	ID            string    `json:"id" yaml:"id"`
	Title         string    `json:"title" yaml:"title"`
	Query         string    `json:"query" yaml:"query"`
	Answer        string    `json:"answer" yaml:"answer"`
	Confidence    int       `json:"confidence" yaml:"confidence"`
	UsedWebSearch bool      `json:"used_web_search" yaml:"used_web_search"`
	Degraded      bool      `json:"degraded" yaml:"degraded"`
	Transcript    string    `json:"transcript" yaml:"transcript"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
}

// NewRun builds a Run from a pipeline result and its formatted transcript.
func NewRun(title, query string, result types.DeepThinkingResult, transcript string) Run {
	return Run{
		Title:         title,
		Query:         query,
		Answer:        result.Answer,
		Confidence:    result.Confidence,
		UsedWebSearch: result.UsedWebSearch,
		Degraded:      result.Degraded,
		Transcript:    transcript,
	}
}

// Fact is a remembered piece of user information.
type Fact struct {
	Kind      string    `json:"kind" yaml:"kind"`
	Value     string    `json:"value" yaml:"value"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// ListOptions filters ListRuns.
type ListOptions struct {
	// Limit caps the number of runs. Zero uses the default of 20.
	Limit int

	// Contains keeps runs whose query or answer contains the text.
	Contains string
}

// Store manages the history database.
type Store struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

// NewStore opens or creates the database at cfg.Dir/history.db.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now, newID: uuid.NewString}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			query TEXT NOT NULL,
			answer TEXT NOT NULL,
			confidence INTEGER NOT NULL,
			used_web_search INTEGER NOT NULL,
			degraded INTEGER NOT NULL,
			transcript TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
		`CREATE TABLE IF NOT EXISTS facts (
			kind TEXT NOT NULL,
			value TEXT NOT NULL,
			created_at TEXT NOT NULL,
			UNIQUE(kind, value)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun inserts run, assigning an ID and creation time when unset, and
// returns the stored value.
func (s *Store) SaveRun(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = s.newID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.now()
	}
	run.CreatedAt = run.CreatedAt.UTC()

	query, args, err := sq.Insert("runs").
		Columns("id", "title", "query", "answer", "confidence",
			"used_web_search", "degraded", "transcript", "created_at").
		Values(run.ID, run.Title, run.Query, run.Answer, run.Confidence,
			run.UsedWebSearch, run.Degraded, run.Transcript,
			run.CreatedAt.Format(timeFormat)).
		ToSql()
	if err != nil {
		return Run{}, fmt.Errorf("building insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return Run{}, fmt.Errorf("inserting run %s: %w", run.ID, err)
	}
	return run, nil
}

var runColumns = []string{
	"id", "title", "query", "answer", "confidence",
	"used_web_search", "degraded", "transcript", "created_at",
}

// ListRuns returns runs newest first.
func (s *Store) ListRuns(ctx context.Context, opts ListOptions) ([]Run, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListSize
	}

	b := sq.Select(runColumns...).From("runs")
	if opts.Contains != "" {
		pattern := "%" + opts.Contains + "%"
		b = b.Where(sq.Or{sq.Like{"query": pattern}, sq.Like{"answer": pattern}})
	}
	b = b.OrderBy("created_at DESC", "rowid DESC").Limit(uint64(limit))

	return s.queryRuns(ctx, b)
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GetRun returns the run with the given ID. A unique ID prefix is accepted.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	if id == "" {
		return Run{}, ErrNotFound
	}
	runs, err := s.queryRuns(ctx, sq.Select(runColumns...).From("runs").
		Where(sq.Expr(`id LIKE ? ESCAPE '\'`, likeEscaper.Replace(id)+"%")).
		OrderBy("id").
		Limit(2))
	if err != nil {
		return Run{}, err
	}

	for _, r := range runs {
		if r.ID == id {
			return r, nil
		}
	}
	switch len(runs) {
	case 0:
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return runs[0], nil
	default:
		return Run{}, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
	}
}

func (s *Store) queryRuns(ctx context.Context, b sq.SelectBuilder) ([]Run, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			created string
		)
		if err := rows.Scan(&r.ID, &r.Title, &r.Query, &r.Answer, &r.Confidence,
			&r.UsedWebSearch, &r.Degraded, &r.Transcript, &created); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if r.CreatedAt, err = time.Parse(timeFormat, created); err != nil {
			return nil, fmt.Errorf("parsing created_at of run %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// SaveFacts stores facts, ignoring ones already known, and returns how many
// were new.
func (s *Store) SaveFacts(ctx context.Context, facts []Fact) (int, error) {
	if len(facts) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	created := s.now().UTC().Format(timeFormat)
	added := 0
	for _, f := range facts {
		query, args, err := sq.Insert("facts").
			Columns("kind", "value", "created_at").
			Values(f.Kind, f.Value, created).
			Suffix("ON CONFLICT(kind, value) DO NOTHING").
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("building insert: %w", err)
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("inserting fact %s: %w", f.Kind, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			added += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing facts: %w", err)
	}
	return added, nil
}

// ListFacts returns every stored fact, oldest first.
func (s *Store) ListFacts(ctx context.Context) ([]Fact, error) {
	query, args, err := sq.Select("kind", "value", "created_at").
		From("facts").
		OrderBy("created_at", "rowid").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying facts: %w", err)
	}
	defer rows.Close()

	var facts []Fact
	for rows.Next() {
		var (
			f       Fact
			created string
		)
		if err := rows.Scan(&f.Kind, &f.Value, &created); err != nil {
			return nil, fmt.Errorf("scanning fact: %w", err)
		}
		if f.CreatedAt, err = time.Parse(timeFormat, created); err != nil {
			return nil, fmt.Errorf("parsing created_at of fact: %w", err)
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}
