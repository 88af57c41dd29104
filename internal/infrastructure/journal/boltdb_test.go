package journal

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "activity.db"), "activity")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndRecent(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	entries := []Entry{
		{UserID: "u1", TaskID: "t1", Action: ActionCreated, Title: "first", Timestamp: base},
		{UserID: "u1", TaskID: "t1", Action: ActionCompleted, Title: "first", Timestamp: base.Add(time.Minute)},
		{UserID: "u1", TaskID: "t2", Action: ActionCreated, Title: "second", Timestamp: base.Add(2 * time.Minute)},
		{UserID: "u2", TaskID: "t9", Action: ActionCreated, Title: "foreign", Timestamp: base.Add(time.Minute)},
	}
	for _, entry := range entries {
		if err := store.Append(entry); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	recent, err := store.Recent("u1", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("got %d entries, want 3", len(recent))
	}
	// newest first, never another user's entries
	if recent[0].TaskID != "t2" || recent[2].Action != ActionCreated {
		t.Errorf("unexpected ordering: %+v", recent)
	}
	for _, entry := range recent {
		if entry.UserID != "u1" {
			t.Errorf("entry leaked from user %q", entry.UserID)
		}
		if entry.ID == "" {
			t.Error("entry id not assigned on append")
		}
	}
}

func TestRecentHonorsLimit(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := store.Append(Entry{
			UserID:    "u1",
			TaskID:    "t1",
			Action:    ActionUpdated,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	recent, err := store.Recent("u1", 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d entries, want 2", len(recent))
	}
	if !recent[0].Timestamp.After(recent[1].Timestamp) {
		t.Error("entries not in newest-first order")
	}
}

func TestPrune(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	old := Entry{UserID: "u1", TaskID: "t1", Action: ActionCreated, Timestamp: base}
	fresh := Entry{UserID: "u1", TaskID: "t2", Action: ActionCreated, Timestamp: base.Add(48 * time.Hour)}
	if err := store.Append(old); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Append(fresh); err != nil {
		t.Fatalf("append: %v", err)
	}

	dropped, err := store.Prune(base.Add(time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}

	size, err := store.Size()
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	if size != 1 {
		t.Errorf("size = %d, want 1", size)
	}

	recent, err := store.Recent("u1", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 1 || recent[0].TaskID != "t2" {
		t.Errorf("surviving entry = %+v, want t2", recent)
	}
}
