package store

import (
	"errors"
	"testing"
)

func TestSettingsRepository(t *testing.T) {
	repo := newTestStore(t).Settings()

	if _, err := repo.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if v, err := repo.GetBool(SettingEnabled, true); err != nil || !v {
		t.Errorf("unset GetBool should return the default, got %v, %v", v, err)
	}

	if err := repo.SetBool(SettingEnabled, false); err != nil {
		t.Fatal(err)
	}
	if v, err := repo.GetBool(SettingEnabled, true); err != nil || v {
		t.Errorf("GetBool() = %v, %v; want false", v, err)
	}

	if err := repo.SetBool(SettingEnabled, true); err != nil {
		t.Fatal(err)
	}
	if v, _ := repo.GetBool(SettingEnabled, false); !v {
		t.Error("Set should overwrite the previous value")
	}

	if err := repo.Set("garbage", "not-a-bool"); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetBool("garbage", false); err == nil {
		t.Error("expected a parse error")
	}
}
