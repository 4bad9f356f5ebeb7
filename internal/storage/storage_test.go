package storage

import (
	"testing"

	"github.com/halcyonix/chessmind/internal/book"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return s
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := openTestStore(t)

	// Missing key falls back to defaults.
	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences failed: %v", err)
	}
	if prefs.Difficulty != "medium" || prefs.TTSizeMB != 64 || !prefs.BookEnabled {
		t.Errorf("unexpected defaults: %+v", prefs)
	}

	prefs.Difficulty = "hard"
	prefs.TTSizeMB = 128
	prefs.BookEnabled = false
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}

	loaded, err := s.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences failed: %v", err)
	}
	if loaded.Difficulty != "hard" || loaded.TTSizeMB != 128 || loaded.BookEnabled {
		t.Errorf("loaded = %+v, want saved values back", loaded)
	}
	if loaded.LastUsed.IsZero() {
		t.Error("LastUsed should be stamped on save")
	}
}

func TestBookOverlayRoundTrip(t *testing.T) {
	s := openTestStore(t)

	// Nothing saved yet: empty map, no error.
	overlay, err := s.LoadBookOverlay()
	if err != nil {
		t.Fatalf("LoadBookOverlay failed: %v", err)
	}
	if len(overlay) != 0 {
		t.Errorf("expected empty overlay, got %v", overlay)
	}

	want := map[uint64][]book.Entry{
		0xDEADBEEF: {
			{UCI: "e2e4", Weight: 120},
			{UCI: "d2d4", Weight: 80},
		},
		42: {
			{UCI: "g8f6", Weight: 60},
		},
	}
	if err := s.SaveBookOverlay(want); err != nil {
		t.Fatalf("SaveBookOverlay failed: %v", err)
	}

	got, err := s.LoadBookOverlay()
	if err != nil {
		t.Fatalf("LoadBookOverlay failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("overlay size = %d, want %d", len(got), len(want))
	}
	for key, entries := range want {
		stored := got[key]
		if len(stored) != len(entries) {
			t.Fatalf("key %x: %d entries, want %d", key, len(stored), len(entries))
		}
		for i, e := range entries {
			if stored[i] != e {
				t.Errorf("key %x entry %d = %+v, want %+v", key, i, stored[i], e)
			}
		}
	}

	// The loaded overlay merges cleanly into a book.
	b := book.NewEmpty()
	b.Merge(got)
	if b.Size() != 2 {
		t.Errorf("merged book size = %d, want 2", b.Size())
	}
}
