/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package snapshot persists quiz sessions between state changes, so a game
// can be picked up again by ID.
package snapshot

import (
	"context"

	"github.com/Seednode/quizshow/quiz"
)

// Store saves and loads session snapshots keyed by game ID.
type Store interface {
	Save(ctx context.Context, gameID string, snap quiz.Snapshot) error
	// Load reports false when nothing is stored for gameID.
	Load(ctx context.Context, gameID string) (quiz.Snapshot, bool, error)
	Delete(ctx context.Context, gameID string) error
}
