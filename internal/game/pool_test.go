package game

import (
	"testing"
	"time"

	"pairing-service/internal/models"
)

func entry(connID, nickname string, joinedAt time.Time) models.WaitingEntry {
	return models.WaitingEntry{
		ConnectionID: connID,
		Nickname:     nickname,
		JoinedAt:     joinedAt,
		Status:       models.WaitingStatusWaiting,
	}
}

func TestPoolAddRemove(t *testing.T) {
	pool := NewMemoryPool()

	pool.Add(entry("c1", "a", time.Now()))
	if pool.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", pool.Len())
	}

	removed, ok := pool.Remove("c1")
	if !ok || removed.Nickname != "a" {
		t.Fatalf("expected to remove entry c1")
	}
	if _, ok := pool.Remove("c1"); ok {
		t.Fatalf("second remove should be a no-op")
	}
}

func TestPoolWaitingExcludesPaired(t *testing.T) {
	pool := NewMemoryPool()

	pool.Add(entry("c1", "a", time.Now()))
	pool.Add(entry("c2", "b", time.Now()))
	pool.MarkPaired("c1")

	waiting := pool.Waiting()
	if len(waiting) != 1 || waiting[0].ConnectionID != "c2" {
		t.Fatalf("expected only c2 waiting, got %v", waiting)
	}
	if len(pool.List()) != 2 {
		t.Fatalf("List should include paired entries")
	}
}

func TestPoolSweepDropsStaleEntries(t *testing.T) {
	pool := NewMemoryPool()

	pool.Add(entry("old", "a", time.Now().Add(-10*time.Minute)))
	stale := entry("old-paired", "b", time.Now().Add(-6*time.Minute))
	stale.Status = models.WaitingStatusPaired
	pool.Add(stale)
	pool.Add(entry("fresh", "c", time.Now()))

	removed := pool.Sweep(5 * time.Minute)
	if removed != 2 {
		t.Fatalf("expected 2 removals, got %d", removed)
	}
	if _, ok := pool.Get("fresh"); !ok {
		t.Fatalf("fresh entry should survive the sweep")
	}
}
