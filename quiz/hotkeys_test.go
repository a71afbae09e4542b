package quiz

import (
	"errors"
	"testing"
)

func TestNormalizeCombo(t *testing.T) {
	cases := map[string]string{
		"mod+l":       "mod+l",
		"MOD+L":       "mod+l",
		"shift+mod+K": "mod+shift+k",
		" mod + Ö ":   "mod+ö",
		"alt+ctrl+x":  "ctrl+alt+x",
		"":            "",
	}

	for in, want := range cases {
		if got := NormalizeCombo(in); got != want {
			t.Errorf("NormalizeCombo(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestKeymapTriggerIndependentCues(t *testing.T) {
	k, err := NewKeymap(DefaultHotkeys("/media/loser.mp3", "/media/winner.mp3")...)
	if err != nil {
		t.Fatalf("keymap: %v", err)
	}

	first, err := k.Trigger("mod+l")
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	second, err := k.Trigger("MOD+L")
	if err != nil {
		t.Fatalf("trigger again: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("each trigger must produce its own cue")
	}
	if first.URL != "/media/loser.mp3" || first.Sound != "loser" {
		t.Fatalf("unexpected cue %+v", first)
	}

	winner, err := k.Trigger("mod+Ö")
	if err != nil {
		t.Fatalf("trigger winner: %v", err)
	}
	if winner.URL != "/media/winner.mp3" {
		t.Fatalf("unexpected cue %+v", winner)
	}

	if _, err := k.Trigger("mod+x"); !errors.Is(err, ErrUnknownHotkey) {
		t.Fatalf("expected ErrUnknownHotkey, got %v", err)
	}
}

func TestNewKeymapRejectsBadBindings(t *testing.T) {
	if _, err := NewKeymap(Hotkey{Combo: "mod+l", URL: "/a"}, Hotkey{Combo: "MOD+L", URL: "/b"}); err == nil {
		t.Fatalf("expected duplicate binding error")
	}
	if _, err := NewKeymap(Hotkey{Combo: " ", URL: "/a"}); err == nil {
		t.Fatalf("expected empty combo error")
	}
	if _, err := NewKeymap(Hotkey{Combo: "mod+l"}); err == nil {
		t.Fatalf("expected missing sound error")
	}
}

func TestKeymapBindingsSorted(t *testing.T) {
	k, err := NewKeymap(DefaultHotkeys("/l", "/w")...)
	if err != nil {
		t.Fatal(err)
	}
	b := k.Bindings()
	if len(b) != 2 || b[0].Combo != "mod+l" || b[1].Combo != "mod+ö" {
		t.Fatalf("unexpected bindings %+v", b)
	}
}
