/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package quiz

import (
	"time"

	"github.com/google/uuid"
)

// Media describes what the question view should render for a question.
type Media struct {
	Kind MediaKind `json:"kind"`
	URL  string    `json:"url"`
}

// MediaFor returns nil when the question has no media kind or no URL.
func MediaFor(q Question) *Media {
	if q.Type == MediaNone || q.MediaURL == "" {
		return nil
	}
	return &Media{Kind: q.Type, URL: q.MediaURL}
}

// Playback is a handle to one audio playback. Views keep a single audio
// element per handle ID and drop it when the handle changes or goes away.
type Playback struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	StartedAt time.Time `json:"startedAt"`
}

func newPlayback(url string, now time.Time) *Playback {
	return &Playback{
		ID:        uuid.NewString(),
		URL:       url,
		StartedAt: now,
	}
}
