package snapshot

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Seednode/quizshow/quiz"
)

func sampleSnapshot(t *testing.T) quiz.Snapshot {
	t.Helper()

	s := quiz.NewSession(quiz.Board{Categories: []quiz.Category{
		{Name: "Science", Questions: []quiz.Question{{Text: "q", Category: "Science", Value: 100, Solution: "a"}}},
	}}, quiz.Options{AutoClose: true})

	if _, err := s.Open(quiz.Coord{Category: 0, Question: 0}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Award(quiz.TeamOne); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Open(quiz.Coord{Category: 0, Question: 0}); err != nil {
		t.Fatal(err)
	}

	return s.Snapshot()
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := store.Load(ctx, "missing"); err != nil || ok {
		t.Fatalf("load missing: ok=%v err=%v", ok, err)
	}

	snap := sampleSnapshot(t)
	if err := store.Save(ctx, "game-1", snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := store.Load(ctx, "game-1")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}

	restored, err := quiz.Restore(got, quiz.Options{})
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Score(quiz.TeamOne) != 100 {
		t.Fatalf("team-one = %d, want 100", restored.Score(quiz.TeamOne))
	}
	if restored.Phase() != quiz.Open {
		t.Fatalf("phase = %s, want open", restored.Phase())
	}

	if err := store.Delete(ctx, "game-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Load(ctx, "game-1"); ok {
		t.Fatalf("snapshot still present after delete")
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	exerciseStore(t, NewRedis(client, time.Minute))
}

func TestRedisStoreExpires(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedis(client, time.Minute)
	if err := store.Save(context.Background(), "game-2", sampleSnapshot(t)); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists("quizshow:game:game-2") {
		t.Fatalf("expected redis key to be set")
	}

	mr.FastForward(2 * time.Minute)

	if _, ok, _ := store.Load(context.Background(), "game-2"); ok {
		t.Fatalf("snapshot should have expired")
	}
}
