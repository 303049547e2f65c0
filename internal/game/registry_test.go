package game

import (
	"testing"
	"time"

	"pairing-service/internal/models"
)

func testSession(id string, createdAt time.Time, memberIDs ...string) *models.Session {
	members := make([]models.WaitingEntry, 0, len(memberIDs))
	for _, m := range memberIDs {
		members = append(members, models.WaitingEntry{ConnectionID: m, Status: models.WaitingStatusPaired})
	}
	return &models.Session{
		ID:              id,
		Members:         members,
		Answers:         make(map[string]map[int]string),
		ActivityAnswers: make(map[string]models.ActivityAnswer),
		CreatedAt:       createdAt,
	}
}

func TestRegistryPutGetDelete(t *testing.T) {
	reg := NewMemoryRegistry()

	reg.Put(testSession("s1", time.Now(), "c1", "c2"))
	if _, ok := reg.Get("s1"); !ok {
		t.Fatalf("expected to find s1")
	}

	reg.Delete("s1")
	if _, ok := reg.Get("s1"); ok {
		t.Fatalf("s1 should be gone")
	}
}

func TestRegistrySessionsFor(t *testing.T) {
	reg := NewMemoryRegistry()

	reg.Put(testSession("s1", time.Now(), "c1", "c2"))
	reg.Put(testSession("s2", time.Now(), "c3", "c4"))

	sessions := reg.SessionsFor("c3")
	if len(sessions) != 1 || sessions[0].ID != "s2" {
		t.Fatalf("expected only s2 for c3, got %v", sessions)
	}
	if got := reg.SessionsFor("nobody"); len(got) != 0 {
		t.Fatalf("expected no sessions, got %v", got)
	}
}

func TestRegistrySweepEvictsExpired(t *testing.T) {
	reg := NewMemoryRegistry()

	reg.Put(testSession("old", time.Now().Add(-time.Hour), "c1", "c2"))
	reg.Put(testSession("new", time.Now(), "c3", "c4"))

	evicted := reg.Sweep(30 * time.Minute)
	if evicted != 1 {
		t.Fatalf("expected 1 eviction, got %d", evicted)
	}
	if _, ok := reg.Get("old"); ok {
		t.Fatalf("old session should be evicted")
	}
	if _, ok := reg.Get("new"); !ok {
		t.Fatalf("new session should survive")
	}
}
