/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package quiz

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Hotkey binds a key combination to a sound.
type Hotkey struct {
	Combo string `json:"combo"`
	Sound string `json:"sound"`
	URL   string `json:"url"`
}

// Cue is a single sound trigger. Every trigger gets its own cue, and cues
// never cancel each other.
type Cue struct {
	ID    string    `json:"id"`
	Combo string    `json:"combo"`
	Sound string    `json:"sound"`
	URL   string    `json:"url"`
	At    time.Time `json:"at"`
}

// DefaultHotkeys returns the loser and winner bindings.
func DefaultHotkeys(loserURL, winnerURL string) []Hotkey {
	return []Hotkey{
		{Combo: "mod+l", Sound: "loser", URL: loserURL},
		{Combo: "mod+ö", Sound: "winner", URL: winnerURL},
	}
}

var modifierRank = map[string]int{
	"mod":   0,
	"ctrl":  1,
	"meta":  2,
	"alt":   3,
	"shift": 4,
}

// NormalizeCombo lower-cases a combination and puts modifiers in a fixed
// order, so "Shift+MOD+L" and "mod+shift+l" compare equal.
func NormalizeCombo(combo string) string {
	var mods, keys []string

	for _, part := range strings.Split(combo, "+") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if _, ok := modifierRank[part]; ok {
			mods = append(mods, part)
			continue
		}
		keys = append(keys, part)
	}

	sort.Slice(mods, func(i, j int) bool {
		return modifierRank[mods[i]] < modifierRank[mods[j]]
	})

	return strings.Join(append(mods, keys...), "+")
}

// Keymap is immutable once built and safe for concurrent use.
type Keymap struct {
	bindings map[string]Hotkey
	now      func() time.Time
}

func NewKeymap(hotkeys ...Hotkey) (*Keymap, error) {
	k := &Keymap{
		bindings: make(map[string]Hotkey, len(hotkeys)),
		now:      time.Now,
	}

	for _, h := range hotkeys {
		combo := NormalizeCombo(h.Combo)
		if combo == "" {
			return nil, errors.New("hotkey combination must not be empty")
		}
		if h.URL == "" {
			return nil, fmt.Errorf("hotkey %q has no sound", combo)
		}
		if _, exists := k.bindings[combo]; exists {
			return nil, fmt.Errorf("hotkey %q bound twice", combo)
		}
		h.Combo = combo
		k.bindings[combo] = h
	}

	return k, nil
}

// Bindings lists the bindings ordered by combination.
func (k *Keymap) Bindings() []Hotkey {
	out := make([]Hotkey, 0, len(k.bindings))
	for _, h := range k.bindings {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Combo < out[j].Combo
	})
	return out
}

// Trigger resolves a combination to a fresh cue.
func (k *Keymap) Trigger(combo string) (Cue, error) {
	h, ok := k.bindings[NormalizeCombo(combo)]
	if !ok {
		return Cue{}, fmt.Errorf("%w: %q", ErrUnknownHotkey, combo)
	}

	return Cue{
		ID:    uuid.NewString(),
		Combo: h.Combo,
		Sound: h.Sound,
		URL:   h.URL,
		At:    k.now(),
	}, nil
}
