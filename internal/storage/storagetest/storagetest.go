// Package storagetest checks storage.Provider implementations against the
// behavior the rest of routine relies on.
package storagetest

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/julianstephens/routine/internal/constants"
	"github.com/julianstephens/routine/internal/storage"
)

// Run exercises an initialized, empty provider returned by open. open is called
// once per subtest; reopen must return a second handle on the same data.
func Run(t *testing.T, open func(t *testing.T) (p storage.Provider, reopen func() storage.Provider)) {
	t.Helper()

	t.Run("MissingKey", func(t *testing.T) {
		p, _ := open(t)
		if _, err := p.Get("absent"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Get(absent) error = %v, want %v", err, storage.ErrNotFound)
		}
	})

	t.Run("SetOverwrites", func(t *testing.T) {
		p, _ := open(t)
		if err := p.Set("k", []byte(`{"a":1}`)); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if err := p.Set("k", []byte(`[1,2,3]`)); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := p.Get("k")
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != `[1,2,3]` {
			t.Errorf("Get(k) = %s, want [1,2,3]", got)
		}
	})

	t.Run("DeleteAndKeys", func(t *testing.T) {
		p, _ := open(t)
		for _, k := range []string{"b", "a", "c"} {
			if err := p.Set(k, []byte(`true`)); err != nil {
				t.Fatal(err)
			}
		}
		if err := p.Delete("b"); err != nil {
			t.Fatal(err)
		}
		if err := p.Delete("never-set"); err != nil {
			t.Errorf("Delete(never-set) error = %v", err)
		}
		keys, err := p.Keys()
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(keys, []string{"a", "c"}) {
			t.Errorf("Keys() = %v, want [a c]", keys)
		}
	})

	t.Run("Durable", func(t *testing.T) {
		p, reopen := open(t)
		when := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
		if err := storage.SetTime(p, constants.KeyLastResetAt, when); err != nil {
			t.Fatal(err)
		}
		if err := storage.SetBool(p, constants.KeyPremium, true); err != nil {
			t.Fatal(err)
		}

		q := reopen()
		got, ok, err := storage.GetTime(q, constants.KeyLastResetAt)
		if err != nil || !ok || !got.Equal(when) {
			t.Errorf("GetTime() after reopen = %v, %v, %v", got, ok, err)
		}
		premium, err := storage.GetBool(q, constants.KeyPremium, false)
		if err != nil || !premium {
			t.Errorf("GetBool() after reopen = %v, %v", premium, err)
		}
	})

	t.Run("Settings", func(t *testing.T) {
		p, _ := open(t)
		got, err := storage.LoadSettings(p)
		if err != nil {
			t.Fatal(err)
		}
		want := storage.DefaultSettings()
		if got.ShowStreaks != want.ShowStreaks || got.Timezone != want.Timezone || !slices.Equal(got.DefaultNotificationTimes, want.DefaultNotificationTimes) {
			t.Errorf("LoadSettings() on empty store = %+v, want %+v", got, want)
		}

		got.ShowStreaks = false
		got.Timezone = "Europe/Berlin"
		got.DefaultNotificationTimes = []int{1200, 480, 480}
		if err := storage.SaveSettings(p, got); err != nil {
			t.Fatal(err)
		}
		saved, err := storage.LoadSettings(p)
		if err != nil {
			t.Fatal(err)
		}
		if saved.ShowStreaks || saved.Timezone != "Europe/Berlin" || !slices.Equal(saved.DefaultNotificationTimes, []int{480, 1200}) {
			t.Errorf("LoadSettings() after save = %+v", saved)
		}
	})
}
