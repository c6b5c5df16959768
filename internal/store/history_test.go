package store

import (
	"testing"
	"time"
)

func TestHistoryRepository_RecordAndList(t *testing.T) {
	repo := newTestStore(t).History()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	entries := []*HistoryEntry{
		{Label: "OPEN_PALM", Action: "volume-up", Success: true, FiredAt: base},
		{Label: "ROCK_ON", Action: "open-spotify", Success: false, Error: "no plugin", FiredAt: base.Add(time.Second)},
		{Label: "FIST", Action: "volume-down", Success: true, FiredAt: base.Add(2 * time.Second)},
	}
	for _, e := range entries {
		if err := repo.Record(e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if e.ID == 0 {
			t.Error("Record() should set the ID")
		}
	}

	got, err := repo.List(2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Label != "FIST" || got[1].Label != "ROCK_ON" {
		t.Errorf("expected newest first, got %s, %s", got[0].Label, got[1].Label)
	}
	if got[1].Success || got[1].Error != "no plugin" {
		t.Errorf("failure not persisted: %+v", got[1])
	}
	if !got[0].FiredAt.Equal(base.Add(2 * time.Second)) {
		t.Errorf("FiredAt = %s", got[0].FiredAt)
	}

	all, err := repo.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("List(0) should use the default limit, got %d entries", len(all))
	}
}

func TestHistoryRepository_Prune(t *testing.T) {
	repo := newTestStore(t).History()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		e := &HistoryEntry{Label: "FIST", Action: "volume-down", Success: true, FiredAt: base.Add(time.Duration(i) * time.Hour)}
		if err := repo.Record(e); err != nil {
			t.Fatal(err)
		}
	}

	n, err := repo.Prune(base.Add(2 * time.Hour))
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Prune() removed %d, want 2", n)
	}

	left, _ := repo.List(0)
	if len(left) != 2 {
		t.Errorf("expected 2 entries left, got %d", len(left))
	}
}
