package store

import (
	"errors"
	"testing"
	"time"
)

func TestBindingRepository_CRUD(t *testing.T) {
	repo := newTestStore(t).Bindings()

	b := &Binding{
		Label:    "ROCK_ON",
		Action:   "open-spotify",
		Class:    "rock",
		Cooldown: 10 * time.Second,
		Enabled:  true,
	}
	if err := repo.Create(b); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if b.ID == "" {
		t.Fatal("Create() should assign an ID")
	}

	got, err := repo.GetByID(b.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Label != "ROCK_ON" || got.Action != "open-spotify" || got.Class != "rock" {
		t.Errorf("unexpected binding %+v", got)
	}
	if got.Cooldown != 10*time.Second {
		t.Errorf("Cooldown = %s, want 10s", got.Cooldown)
	}
	if !got.Enabled {
		t.Error("expected Enabled=true")
	}

	got.Action = "open-url"
	got.Cooldown = 150 * time.Millisecond
	got.Enabled = false
	if err := repo.Update(got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	byLabel, err := repo.GetByLabel("ROCK_ON")
	if err != nil {
		t.Fatalf("GetByLabel() error = %v", err)
	}
	if byLabel.Action != "open-url" || byLabel.Cooldown != 150*time.Millisecond || byLabel.Enabled {
		t.Errorf("update not persisted: %+v", byLabel)
	}

	if err := repo.Delete(b.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestBindingRepository_DuplicateLabel(t *testing.T) {
	repo := newTestStore(t).Bindings()

	first := &Binding{Label: "FIST", Action: "volume-down", Class: "volume"}
	if err := repo.Create(first); err != nil {
		t.Fatal(err)
	}

	err := repo.Create(&Binding{Label: "FIST", Action: "open-url", Class: "hang"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate on create, got %v", err)
	}

	other := &Binding{Label: "OPEN_PALM", Action: "volume-up", Class: "volume"}
	if err := repo.Create(other); err != nil {
		t.Fatal(err)
	}
	other.Label = "FIST"
	if err := repo.Update(other); !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate on update, got %v", err)
	}
}

func TestBindingRepository_ListAndCount(t *testing.T) {
	repo := newTestStore(t).Bindings()

	for _, label := range []string{"ROCK_ON", "FIST", "HANG_LOOSE"} {
		if err := repo.Create(&Binding{Label: label, Action: "a", Class: "c"}); err != nil {
			t.Fatal(err)
		}
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"FIST", "HANG_LOOSE", "ROCK_ON"}
	if len(list) != len(want) {
		t.Fatalf("expected %d bindings, got %d", len(want), len(list))
	}
	for i, b := range list {
		if b.Label != want[i] {
			t.Errorf("list[%d] = %s, want %s", i, b.Label, want[i])
		}
	}

	if n, err := repo.Count(); err != nil || n != 3 {
		t.Errorf("Count() = %d, %v", n, err)
	}
}

func TestBindingRepository_NotFound(t *testing.T) {
	repo := newTestStore(t).Bindings()

	if _, err := repo.GetByLabel("PEACE"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByLabel: expected ErrNotFound, got %v", err)
	}
	if err := repo.Update(&Binding{ID: "missing", Label: "PEACE", Action: "a", Class: "c"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update: expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete: expected ErrNotFound, got %v", err)
	}
}
