package store

import (
	"context"
	"testing"
	"time"

	"github.com/phrasehunt/go-server/internal/game"
	"github.com/phrasehunt/go-server/internal/phrase"
)

func newTestSession() *game.Session {
	return game.NewSession(phrase.Build("practice makes perfect", 1), "", 10)
}

func TestSaveAndGet(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	sess := newTestSession()

	if err := m.Save(ctx, sess); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := m.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != sess {
		t.Error("expected the same session pointer back")
	}
}

func TestGetUnknownID(t *testing.T) {
	m := NewMemoryStore()
	if _, err := m.Get(context.Background(), "nope"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	sess := newTestSession()
	_ = m.Save(ctx, sess)
	m.Delete(ctx, sess.ID)
	if _, err := m.Get(ctx, sess.ID); err != ErrNotFound {
		t.Error("session should be gone after delete")
	}
	m.Delete(ctx, sess.ID) // idempotent
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	stale := newTestSession()
	stale.LastAccess = time.Now().UTC().Add(-2 * time.Hour)
	fresh := newTestSession()
	_ = m.Save(ctx, stale)
	_ = m.Save(ctx, fresh)

	if n := m.Sweep(time.Hour); n != 1 {
		t.Fatalf("swept %d sessions, want 1", n)
	}
	if _, err := m.Get(ctx, stale.ID); err != ErrNotFound {
		t.Error("stale session should be evicted")
	}
	if _, err := m.Get(ctx, fresh.ID); err != nil {
		t.Error("fresh session should survive the sweep")
	}
	if m.Len() != 1 {
		t.Errorf("len = %d", m.Len())
	}
}
