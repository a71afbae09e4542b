package quiz

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestCatalogKeepsLastGoodBoard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	var loads atomic.Int32
	c := NewCatalog(&FileSource{Path: path}, func(LoadResult) { loads.Add(1) }, nil)

	if c.Current().OK() {
		t.Fatalf("catalog should start unavailable")
	}

	if r := c.Reload(context.Background()); !r.OK() {
		t.Fatalf("reload: %v", r.Err)
	}

	if err := os.WriteFile(path, []byte(`{broken`), 0o644); err != nil {
		t.Fatal(err)
	}
	if r := c.Reload(context.Background()); r.OK() {
		t.Fatalf("expected failed reload")
	}

	current := c.Current()
	if !current.OK() || len(current.Board.Categories) != 2 {
		t.Fatalf("catalog dropped the last good board: %+v", current)
	}
	if loads.Load() != 2 {
		t.Fatalf("onLoad called %d times, want 2", loads.Load())
	}
}

func TestCatalogInitialFailureIsVisible(t *testing.T) {
	c := NewCatalog(&FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}, nil, nil)

	if r := c.Reload(context.Background()); r.OK() {
		t.Fatalf("expected failure")
	}
	if c.Current().OK() {
		t.Fatalf("current should report the failure")
	}
}

func TestCatalogWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "questions.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewCatalog(&FileSource{Path: path}, nil, nil)
	c.Reload(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Watch(ctx, 20*time.Millisecond)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	updated := sampleYAML + `  - name: Extra
    questions:
      - question: Added later?
        value: 300
`

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(100 * time.Millisecond)
		if len(c.Current().Board.Categories) == 2 {
			return
		}
	}
	t.Fatalf("catalog did not pick up the change")
}

func TestCatalogWatchIgnoresHTTPSources(t *testing.T) {
	var reported atomic.Int32
	c := NewCatalog(&HTTPSource{URL: "http://example.invalid/q.json"}, nil, func(error) { reported.Add(1) })

	c.Watch(context.Background(), time.Millisecond)

	if reported.Load() != 0 {
		t.Fatalf("http sources should not be watched")
	}
}

func TestCatalogWatchMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone", "questions.json")

	var watchErr error
	c := NewCatalog(&FileSource{Path: path}, nil, func(err error) { watchErr = err })
	c.Reload(context.Background())

	done := make(chan struct{})
	go func() {
		c.Watch(context.Background(), time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("watch on a missing directory should give up")
	}

	if watchErr == nil || !strings.Contains(watchErr.Error(), "gone") {
		t.Fatalf("watch error not reported: %v", watchErr)
	}
	if r := c.Current(); r.OK() || !strings.Contains(r.Err.Error(), "questions.json") {
		t.Fatalf("load failure should stay visible, got %+v", r)
	}
}
