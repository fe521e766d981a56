package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/rcliao/faveday/internal/model"
)

// SQLiteStore implements Store using SQLite. Every Put of an existing date
// adds a new revision that supersedes the previous one.
type SQLiteStore struct {
	db      *sql.DB
	path    string
	log     zerolog.Logger
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string, log zerolog.Logger) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		path:    dbPath,
		log:     log.With().Str("component", "sqlitestore").Logger(),
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id          TEXT PRIMARY KEY,
		date        TEXT NOT NULL,
		score       INTEGER NOT NULL DEFAULT 0,
		notes       TEXT NOT NULL DEFAULT '',
		version     INTEGER NOT NULL DEFAULT 1,
		supersedes  TEXT,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(date, version DESC);
	CREATE INDEX IF NOT EXISTS idx_entries_created ON entries(created_at DESC);

	CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
		notes,
		content=entries,
		content_rowid=rowid
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS entries_ai AFTER INSERT ON entries BEGIN
			INSERT INTO entries_fts(rowid, notes) VALUES (new.rowid, new.notes);
		END`,
		`CREATE TRIGGER IF NOT EXISTS entries_ad AFTER DELETE ON entries BEGIN
			INSERT INTO entries_fts(entries_fts, rowid, notes) VALUES('delete', old.rowid, old.notes);
		END`,
		`CREATE TRIGGER IF NOT EXISTS entries_au AFTER UPDATE ON entries BEGIN
			INSERT INTO entries_fts(entries_fts, rowid, notes) VALUES('delete', old.rowid, old.notes);
			INSERT INTO entries_fts(rowid, notes) VALUES (new.rowid, new.notes);
		END`,
	}
	for _, t := range triggers {
		if _, err := s.db.Exec(t); err != nil {
			return fmt.Errorf("create trigger: %w", err)
		}
	}
	return nil
}

// Put stores a new revision of the entry.
func (s *SQLiteStore) Put(ctx context.Context, e model.Entry) error {
	_, err := s.PutRevision(ctx, e)
	return err
}

// PutRevision stores a new revision of the entry and returns it.
func (s *SQLiteStore) PutRevision(ctx context.Context, e model.Entry) (*model.Revision, error) {
	e, err := validate(e)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	id := s.newID()
	date := model.FormatDate(e.Date)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var prevID string
	var prevVersion int
	err = tx.QueryRowContext(ctx,
		`SELECT id, version FROM entries WHERE date = ? ORDER BY version DESC LIMIT 1`,
		date).Scan(&prevID, &prevVersion)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find previous revision: %w", err)
	}

	version := 1
	var supersedes *string
	if err == nil {
		version = prevVersion + 1
		supersedes = &prevID
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO entries (id, date, score, notes, version, supersedes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, date, e.Score, e.Notes, version, supersedes, now.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	rev := &model.Revision{ID: id, Entry: e, Version: version, CreatedAt: now}
	if supersedes != nil {
		rev.Supersedes = *supersedes
	}
	s.log.Debug().Str("date", date).Int("version", version).Msg("entry saved")
	return rev, nil
}

const latestJoin = `
	FROM entries e
	INNER JOIN (
		SELECT date, MAX(version) AS max_ver FROM entries GROUP BY date
	) latest ON e.date = latest.date AND e.version = latest.max_ver`

const revisionColumns = `e.id, e.date, e.score, e.notes, e.version, e.supersedes, e.created_at`

// Get returns the latest revision of the entry for date.
func (s *SQLiteStore) Get(ctx context.Context, date time.Time) (*model.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+revisionColumns+` FROM entries e WHERE e.date = ? ORDER BY e.version DESC LIMIT 1`,
		model.FormatDate(date))
	rev, err := scanRevision(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, model.FormatDate(date))
	}
	if err != nil {
		return nil, err
	}
	return &rev.Entry, nil
}

// All returns the latest revision of every date, oldest first.
func (s *SQLiteStore) All(ctx context.Context) ([]model.Entry, error) {
	revs, err := s.queryRevisions(ctx, `SELECT `+revisionColumns+latestJoin+` ORDER BY e.date`)
	if err != nil {
		return nil, err
	}
	entries := make([]model.Entry, len(revs))
	for i, r := range revs {
		entries[i] = r.Entry
	}
	return entries, nil
}

// History returns every revision for date, newest first.
func (s *SQLiteStore) History(ctx context.Context, date time.Time) ([]model.Revision, error) {
	revs, err := s.queryRevisions(ctx,
		`SELECT `+revisionColumns+` FROM entries e WHERE e.date = ? ORDER BY e.version DESC`,
		model.FormatDate(date))
	if err != nil {
		return nil, err
	}
	if len(revs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, model.FormatDate(date))
	}
	return revs, nil
}

// ExportAll returns every revision ordered by date and version.
func (s *SQLiteStore) ExportAll(ctx context.Context) ([]model.Revision, error) {
	return s.queryRevisions(ctx, `SELECT `+revisionColumns+` FROM entries e ORDER BY e.date, e.version`)
}

// Search matches notes of the latest revisions with FTS5. The query is
// treated as a phrase.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]SearchResult, error) {
	q := strings.TrimSpace(p.Query)
	if q == "" {
		return nil, nil
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"entries_fts MATCH ?"}
	args := []interface{}{`"` + strings.ReplaceAll(q, `"`, `""`) + `"`}
	if p.Year != 0 {
		where = append(where, "e.date LIKE ?")
		args = append(args, fmt.Sprintf("%04d-%%", p.Year))
	}
	args = append(args, limit)

	query := `SELECT ` + revisionColumns + latestJoin + `
		INNER JOIN entries_fts ON entries_fts.rowid = e.rowid
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY e.date DESC
		LIMIT ?`

	revs, err := s.queryRevisions(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	results := make([]SearchResult, len(revs))
	for i, r := range revs {
		results[i] = SearchResult{Entry: r.Entry, Snippet: snippet(r.Entry.Notes, q)}
	}
	return results, nil
}

// Stats summarises the database.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	st := &Stats{Backend: "sqlite", Path: s.path}
	if info, err := os.Stat(s.path); err == nil {
		st.SizeBytes = info.Size()
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&st.Revisions); err != nil {
		return nil, err
	}
	summarize(st, all)
	return st, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) queryRevisions(ctx context.Context, query string, args ...interface{}) ([]model.Revision, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revs []model.Revision
	for rows.Next() {
		r, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		revs = append(revs, r)
	}
	return revs, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRevision(row scanner) (model.Revision, error) {
	var r model.Revision
	var date, createdAt string
	var supersedes sql.NullString

	err := row.Scan(&r.ID, &date, &r.Entry.Score, &r.Entry.Notes, &r.Version, &supersedes, &createdAt)
	if err != nil {
		return r, err
	}
	r.Entry.Date, err = model.ParseDate(date)
	if err != nil {
		return r, fmt.Errorf("bad date %q in row %s: %w", date, r.ID, err)
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	if supersedes.Valid {
		r.Supersedes = supersedes.String
	}
	return r, nil
}
