/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package snapshot

import (
	"context"
	"sync"

	"github.com/Seednode/quizshow/quiz"
)

// Memory is an in-process Store.
type Memory struct {
	mu        sync.RWMutex
	snapshots map[string]quiz.Snapshot
}

func NewMemory() *Memory {
	return &Memory{
		snapshots: make(map[string]quiz.Snapshot),
	}
}

func (m *Memory) Save(_ context.Context, gameID string, snap quiz.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshots[gameID] = snap

	return nil
}

func (m *Memory) Load(_ context.Context, gameID string) (quiz.Snapshot, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snapshots[gameID]

	return snap, ok, nil
}

func (m *Memory) Delete(_ context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.snapshots, gameID)

	return nil
}
