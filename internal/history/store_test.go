package history

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RecordAndRecent(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := s.recordAt("team/svc-a", "job/team/job/svc-a/", base); err != nil {
		t.Fatalf("recordAt: %v", err)
	}
	if err := s.recordAt("team/svc-b", "job/team/job/svc-b/", base.Add(time.Minute)); err != nil {
		t.Fatalf("recordAt: %v", err)
	}

	entries, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Most recently viewed first.
	if entries[0].Name != "team/svc-b" {
		t.Errorf("expected svc-b first, got %q", entries[0].Name)
	}
	if entries[0].Path != "job/team/job/svc-b/" {
		t.Errorf("unexpected path %q", entries[0].Path)
	}
}

func TestStore_RepeatVisitBumpsCount(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := s.recordAt("deploy", "job/deploy/", base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("recordAt: %v", err)
		}
	}

	entries, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single upserted entry, got %d", len(entries))
	}
	if entries[0].Views != 3 {
		t.Errorf("expected 3 views, got %d", entries[0].Views)
	}
	want := base.Add(2 * time.Hour)
	if !entries[0].LastViewed.Equal(want) {
		t.Errorf("expected last viewed %v, got %v", want, entries[0].LastViewed)
	}
}

func TestStore_RecentLimit(t *testing.T) {
	s := newTestStore(t)

	base := time.Now()
	for i := 0; i < 10; i++ {
		name := filepath.Join("team", string(rune('a'+i)))
		if err := s.recordAt(name, "job/"+name+"/", base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("recordAt: %v", err)
		}
	}

	entries, err := s.Recent(3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("expected limit of 3, got %d", len(entries))
	}
}

func TestStore_NilIsSafe(t *testing.T) {
	var s *Store

	if err := s.Record("a", "job/a/"); err != nil {
		t.Errorf("nil store Record: %v", err)
	}
	entries, err := s.Recent(5)
	if err != nil {
		t.Errorf("nil store Recent: %v", err)
	}
	if entries != nil {
		t.Errorf("expected no entries from nil store, got %v", entries)
	}
	if err := s.Close(); err != nil {
		t.Errorf("nil store Close: %v", err)
	}
}
