package history_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"weathertag/internal/history"
	"weathertag/internal/testsupport"
	"weathertag/internal/weatherlog"
)

func sampleRun(id string, started time.Time) history.Run {
	return history.Run{
		ID:               id,
		StartedAt:        started,
		FinishedAt:       started.Add(1500 * time.Millisecond),
		LogPath:          "/data/weather.csv",
		PhotoDir:         "/data/photos",
		ThresholdMinutes: 30,
		Write:            true,
		Readings:         12,
		Total:            3,
		Matched:          1,
		NoTimestamp:      1,
		NoReading:        1,
		Written:          1,
	}
}

func TestRecordAndReadRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	started := time.Date(2025, 11, 17, 10, 0, 0, 123, time.UTC)
	delta := 6.0
	far := 76.0
	entries := []history.Entry{
		{
			Photo:        "IMG_0001.JPG",
			CaptureTime:  time.Date(2025, 11, 17, 4, 50, 0, 0, time.UTC),
			Status:       "matched",
			DeltaMinutes: &delta,
			ReadingTime:  time.Date(2025, 11, 17, 4, 44, 0, 0, time.UTC),
			Temperature:  weatherlog.Some(24),
			Humidity:     weatherlog.Some(88),
			Pressure:     weatherlog.Some(1012.02),
			Written:      true,
		},
		{Photo: "IMG_0002.JPG", Status: "no_timestamp", Error: "no capture time"},
		{
			Photo:        "IMG_0003.JPG",
			CaptureTime:  time.Date(2025, 11, 17, 6, 0, 0, 0, time.UTC),
			Status:       "no_reading",
			DeltaMinutes: &far,
		},
	}
	if err := store.RecordRun(ctx, sampleRun("0f8c2a9e-1111-4000-8000-000000000001", started), entries); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	run, err := store.GetRun(ctx, "0f8c2a9e-1111-4000-8000-000000000001")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if !run.StartedAt.Equal(started) || run.Duration() != 1500*time.Millisecond {
		t.Fatalf("unexpected timing: %+v", run)
	}
	if !run.Write || run.Matched != 1 || run.Readings != 12 || run.Interrupted {
		t.Fatalf("unexpected run: %+v", run)
	}

	got, err := store.Entries(ctx, run.ID)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	first := got[0]
	if first.Photo != "IMG_0001.JPG" || !first.Written || first.DeltaMinutes == nil || *first.DeltaMinutes != 6 {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if v, ok := first.Pressure.Get(); !ok || v != 1012.02 {
		t.Fatalf("unexpected pressure: %v %v", v, ok)
	}
	if !first.ReadingTime.Equal(time.Date(2025, 11, 17, 4, 44, 0, 0, time.UTC)) {
		t.Fatalf("unexpected reading time: %s", first.ReadingTime)
	}
	second := got[1]
	if second.DeltaMinutes != nil || !second.CaptureTime.IsZero() || second.Temperature.Present() {
		t.Fatalf("expected absent values on second entry: %+v", second)
	}
	if second.Error != "no capture time" {
		t.Fatalf("unexpected error text %q", second.Error)
	}
	if got[2].Status != "no_reading" {
		t.Fatalf("expected processing order preserved, got %q", got[2].Status)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	ctx := context.Background()
	base := time.Date(2025, 11, 17, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"aaa-1", "bbb-2", "ccc-3"} {
		if err := store.RecordRun(ctx, sampleRun(id, base.Add(time.Duration(i)*time.Minute)), nil); err != nil {
			t.Fatalf("RecordRun %s: %v", id, err)
		}
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "ccc-3" || runs[1].ID != "bbb-2" {
		t.Fatalf("unexpected order: %+v", runs)
	}

	all, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected all runs, got %d", len(all))
	}
}

func TestGetRunByPrefix(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	ctx := context.Background()
	base := time.Date(2025, 11, 17, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"abc123", "abd456"} {
		if err := store.RecordRun(ctx, sampleRun(id, base.Add(time.Duration(i)*time.Second)), nil); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	run, err := store.GetRun(ctx, "abc")
	if err != nil || run.ID != "abc123" {
		t.Fatalf("expected prefix lookup, got %+v (%v)", run, err)
	}
	if _, err := store.GetRun(ctx, "ab"); !errors.Is(err, history.ErrAmbiguousRun) {
		t.Fatalf("expected ErrAmbiguousRun, got %v", err)
	}
	if _, err := store.GetRun(ctx, "zzz"); !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := store.GetRun(ctx, "a%"); !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("expected wildcard to be literal, got %v", err)
	}
}

func TestRecordRunRejectsDuplicateID(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	ctx := context.Background()
	run := sampleRun("dup", time.Now())
	if err := store.RecordRun(ctx, run, nil); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := store.RecordRun(ctx, run, nil); err == nil {
		t.Fatal("expected duplicate id to fail")
	}
	if err := store.RecordRun(ctx, history.Run{}, nil); err == nil {
		t.Fatal("expected missing id to fail")
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	store := testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
	ctx := context.Background()
	base := time.Date(2025, 11, 17, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"r1", "r2", "r3"} {
		entries := []history.Entry{{Photo: id + ".jpg", Status: "matched"}}
		if err := store.RecordRun(ctx, sampleRun(id, base.Add(time.Duration(i)*time.Hour)), entries); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	removed, err := store.Prune(ctx, 1)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 runs removed, got %d", removed)
	}
	runs, _ := store.ListRuns(ctx, 0)
	if len(runs) != 1 || runs[0].ID != "r3" {
		t.Fatalf("unexpected survivors: %+v", runs)
	}
	if entries, _ := store.Entries(ctx, "r1"); len(entries) != 0 {
		t.Fatalf("expected pruned entries removed, got %d", len(entries))
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := history.Open(path); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.RecordRun(context.Background(), sampleRun("keep", time.Now()), nil); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	store.Close()

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if reopened.Path() != path {
		t.Fatalf("unexpected path %q", reopened.Path())
	}
	if _, err := reopened.GetRun(context.Background(), "keep"); err != nil {
		t.Fatalf("GetRun after reopen: %v", err)
	}
}
