package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rcliao/faveday/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func day(s string) time.Time {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestPutAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rev, err := s.PutRevision(ctx, model.Entry{Date: day("2024-03-01"), Score: 4, Notes: "walked to #work"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if rev.Version != 1 {
		t.Errorf("expected version 1, got %d", rev.Version)
	}
	if rev.ID == "" {
		t.Error("expected non-empty ID")
	}

	got, err := s.Get(ctx, day("2024-03-01"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Score != 4 || got.Notes != "walked to #work" {
		t.Errorf("unexpected entry %+v", got)
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), day("2024-03-01"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPutNormalisesDate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	at := time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)
	if err := s.Put(ctx, model.Entry{Date: at, Score: 3}); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.Get(ctx, day("2024-03-01"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Date.Equal(day("2024-03-01")) {
		t.Errorf("expected midnight date, got %v", got.Date)
	}
}

func TestPutRejectsBadScore(t *testing.T) {
	s := newTestStore(t)
	if err := s.Put(context.Background(), model.Entry{Date: day("2024-03-01"), Score: 9}); err == nil {
		t.Fatal("expected error for score 9")
	}
	if err := s.Put(context.Background(), model.Entry{Score: 3}); err == nil {
		t.Fatal("expected error for missing date")
	}
}

func TestVersioning(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, model.Entry{Date: day("2024-03-01"), Score: 2, Notes: "v1"})
	r2, _ := s.PutRevision(ctx, model.Entry{Date: day("2024-03-01"), Score: 5, Notes: "v2"})

	if r2.Version != 2 {
		t.Errorf("expected version 2, got %d", r2.Version)
	}
	if r2.Supersedes == "" {
		t.Error("expected supersedes to be set")
	}

	got, _ := s.Get(ctx, day("2024-03-01"))
	if got.Notes != "v2" || got.Score != 5 {
		t.Errorf("expected latest revision, got %+v", got)
	}

	hist, err := s.History(ctx, day("2024-03-01"))
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(hist))
	}
	if hist[0].Version != 2 || hist[1].Entry.Notes != "v1" {
		t.Errorf("expected newest first, got %+v", hist)
	}
	if hist[0].Supersedes != hist[1].ID {
		t.Errorf("expected v2 to supersede v1")
	}
}

func TestHistoryMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.History(context.Background(), day("2024-03-01")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAllShowsLatestVersion(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, model.Entry{Date: day("2024-03-02"), Score: 3, Notes: "b"})
	s.Put(ctx, model.Entry{Date: day("2024-03-01"), Score: 1, Notes: "a1"})
	s.Put(ctx, model.Entry{Date: day("2024-03-01"), Score: 4, Notes: "a2"})

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 (latest only), got %d", len(all))
	}
	if all[0].Notes != "a2" || all[1].Notes != "b" {
		t.Errorf("expected ascending latest entries, got %+v", all)
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, model.Entry{Date: day("2023-12-31"), Score: 3})
	s.Put(ctx, model.Entry{Date: day("2024-01-01"), Score: 4})
	s.Put(ctx, model.Entry{Date: day("2024-01-02"), Score: 5})

	all, _ := List(ctx, s, ListParams{})
	if len(all) != 3 {
		t.Fatalf("expected 3, got %d", len(all))
	}
	if !all[0].Date.Equal(day("2024-01-02")) {
		t.Errorf("expected newest first, got %v", all[0].Date)
	}

	year, _ := List(ctx, s, ListParams{Year: 2024, Limit: 1})
	if len(year) != 1 || year[0].Score != 5 {
		t.Errorf("expected one 2024 entry, got %+v", year)
	}
}

func TestDBPathCreation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "dir", "test.db")
	s, err := NewSQLiteStore(dbPath, zerolog.Nop())
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("expected db file to be created")
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Put(ctx, model.Entry{Date: day("2023-06-01"), Score: 2, Notes: "one two"})
	s.Put(ctx, model.Entry{Date: day("2024-06-01"), Score: 4, Notes: "three"})
	s.Put(ctx, model.Entry{Date: day("2024-06-01"), Score: 5, Notes: "three four"})
	s.Put(ctx, model.Entry{Date: day("2024-06-02"), Notes: "unscored"})

	st, err := s.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Entries != 3 || st.Scored != 2 || st.Revisions != 4 {
		t.Fatalf("unexpected counts %+v", st)
	}
	if st.FirstDate != "2023-06-01" || st.LastDate != "2024-06-02" {
		t.Errorf("unexpected range %s..%s", st.FirstDate, st.LastDate)
	}
	if len(st.Years) != 2 || st.Years[1].AvgScore != 5 {
		t.Errorf("unexpected years %+v", st.Years)
	}
	if st.TotalWords != 5 {
		t.Errorf("expected 5 words, got %d", st.TotalWords)
	}
	if st.SizeBytes == 0 {
		t.Error("expected non-zero db size")
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)

	src.Put(ctx, model.Entry{Date: day("2024-01-01"), Score: 3, Notes: "alpha"})
	src.Put(ctx, model.Entry{Date: day("2024-01-02"), Score: 4, Notes: "beta"})
	src.Put(ctx, model.Entry{Date: day("2024-01-02"), Score: 5, Notes: "beta again"})

	revs, err := src.ExportAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(revs) != 3 {
		t.Fatalf("expected 3 revisions, got %d", len(revs))
	}

	latest, _ := src.All(ctx)
	dst := newTestStore(t)
	n, err := Import(ctx, dst, latest)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 imported, got %d", n)
	}

	// Importing the same entries again writes nothing.
	n, _ = Import(ctx, dst, latest)
	if n != 0 {
		t.Errorf("expected duplicates skipped, got %d", n)
	}

	got, _ := dst.Get(ctx, day("2024-01-02"))
	if got.Notes != "beta again" {
		t.Errorf("expected latest notes, got %q", got.Notes)
	}
}
