package memory

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/serenica/server/domain/entities"
)

func TestSessionStoreCreateGetDelete(t *testing.T) {
	store := NewSessionStore(30*time.Minute, zap.NewNop())

	session, err := store.Create("user-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if session.OwnerID != "user-1" {
		t.Errorf("OwnerID = %s, want user-1", session.OwnerID)
	}

	got, ok := store.Get(session.ID)
	if !ok || got != session {
		t.Error("Get should return the created session")
	}

	store.Delete(session.ID)
	if _, ok := store.Get(session.ID); ok {
		t.Error("Get should miss after Delete")
	}
	if store.Len() != 0 {
		t.Errorf("Len = %d, want 0", store.Len())
	}
}

func TestSessionStoreRejectsEmptyOwner(t *testing.T) {
	store := NewSessionStore(30*time.Minute, zap.NewNop())
	if _, err := store.Create(""); err == nil {
		t.Error("Expected an error for an empty owner id")
	}
}

func TestSessionStoreRapidCreatesGetUniqueIDs(t *testing.T) {
	store := NewSessionStore(30*time.Minute, zap.NewNop())

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		session, err := store.Create("user-1")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if seen[session.ID] {
			t.Fatalf("Duplicate session id %s", session.ID)
		}
		seen[session.ID] = true
	}
	if store.Len() != 50 {
		t.Errorf("Len = %d, want 50", store.Len())
	}
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	store := NewSessionStore(time.Nanosecond, zap.NewNop())

	stale, _ := store.Create("user-1")
	time.Sleep(5 * time.Millisecond)

	// Sessions within the TTL survive a sweep.
	longStore := NewSessionStore(time.Hour, zap.NewNop())
	survivor, _ := longStore.Create("user-3")
	if evicted := longStore.Sweep(); evicted != 0 {
		t.Errorf("Sweep evicted %d sessions within TTL", evicted)
	}
	if _, ok := longStore.Get(survivor.ID); !ok {
		t.Error("Session within TTL should survive the sweep")
	}

	if evicted := store.Sweep(); evicted == 0 {
		t.Error("Expected the idle session to be evicted")
	}
	if _, ok := store.Get(stale.ID); ok {
		t.Error("Idle session should be gone after the sweep")
	}
}

func TestJanitorStopIsIdempotent(t *testing.T) {
	store := NewSessionStore(time.Minute, zap.NewNop())
	store.StartJanitor()
	store.Stop()
	store.Stop()
}

func TestCreatedSessionIsActive(t *testing.T) {
	store := NewSessionStore(time.Minute, zap.NewNop())
	session, _ := store.Create("user-1")
	if session.Status() != entities.SessionStatusActive {
		t.Errorf("Status = %s, want active", session.Status())
	}
}
