package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRecord(runID string, finished time.Time) Record {
	return Record{
		RunID:        runID,
		Engine:       "claude",
		Mode:         "build",
		Iterations:   4,
		InputTokens:  1000,
		OutputTokens: 250,
		Outcome:      "stop signal",
		StartedAt:    finished.Add(-10 * time.Minute),
		FinishedAt:   finished,
	}
}

func TestRecordAndGet(t *testing.T) {
	s := openStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	want := sampleRecord("run-1", now)
	if err := s.Record(want); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := s.Get("run-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for stored run")
	}
	if got.Engine != want.Engine || got.Iterations != want.Iterations || got.Outcome != want.Outcome {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
	if got.Duration() != 10*time.Minute {
		t.Errorf("Duration = %v, want 10m", got.Duration())
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	s := openStore(t)
	got, err := s.Get("nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("Get = %+v, want nil", got)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := openStore(t)

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		r := sampleRecord(id, base.Add(time.Duration(i)*time.Hour))
		if err := s.Record(r); err != nil {
			t.Fatalf("Record(%s): %v", id, err)
		}
	}

	records, err := s.List(2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("List returned %d records, want 2", len(records))
	}
	if records[0].RunID != "run-c" || records[1].RunID != "run-b" {
		t.Errorf("order = [%s %s], want [run-c run-b]", records[0].RunID, records[1].RunID)
	}
}
