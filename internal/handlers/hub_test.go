package handlers

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/arnold/healthgoals-api/internal/services"
	"github.com/google/uuid"
)

type recordingWriter struct {
	mu      sync.Mutex
	written [][]byte
	err     error
	block   chan struct{}
	closed  bool
}

func (w *recordingWriter) WriteMessage(messageType int, data []byte) error {
	if w.block != nil {
		<-w.block
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.written = append(w.written, data)
	return nil
}

func (w *recordingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *recordingWriter) messages() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.written)
}

func TestHubRegisterAndUnregister(t *testing.T) {
	hub := NewHub()
	a, b := uuid.New(), uuid.New()
	c1 := &connection{conn: &recordingWriter{}}
	c2 := &connection{conn: &recordingWriter{}}

	hub.register(a, c1)
	hub.register(a, c2)
	hub.register(b, c1)

	if got := hub.Connections(a); got != 2 {
		t.Fatalf("expected 2 connections for a, got %d", got)
	}
	if got := hub.Connections(b); got != 1 {
		t.Fatalf("expected 1 connection for b, got %d", got)
	}

	hub.unregister(a, c1)
	hub.unregister(a, c2)
	if got := hub.Connections(a); got != 0 {
		t.Fatalf("expected room a to be empty, got %d", got)
	}
	if _, ok := hub.rooms[a]; ok {
		t.Fatal("expected empty room to be removed")
	}

	// Unknown session is a no-op.
	hub.unregister(uuid.New(), c1)
}

func TestHubBroadcastWithoutSubscribers(t *testing.T) {
	hub := NewHub()
	hub.Broadcast(uuid.New(), services.GoalEvent{Type: services.EventGoalCreated})
}

func TestHubBroadcastReachesOnlyTheSession(t *testing.T) {
	hub := NewHub()
	a, b := uuid.New(), uuid.New()
	wa1, wa2, wb := &recordingWriter{}, &recordingWriter{}, &recordingWriter{}
	hub.register(a, &connection{conn: wa1})
	hub.register(a, &connection{conn: wa2})
	hub.register(b, &connection{conn: wb})

	hub.Broadcast(a, services.GoalEvent{Type: services.EventGoalUpdated, SessionID: a.String()})

	if wa1.messages() != 1 || wa2.messages() != 1 {
		t.Fatalf("expected both connections of a to receive the event, got %d and %d", wa1.messages(), wa2.messages())
	}
	if wb.messages() != 0 {
		t.Fatalf("expected session b to receive nothing, got %d", wb.messages())
	}
}

func TestHubDropsConnectionAfterWriteError(t *testing.T) {
	hub := NewHub()
	sessionID := uuid.New()
	broken := &recordingWriter{err: errors.New("broken pipe")}
	healthy := &recordingWriter{}
	hub.register(sessionID, &connection{conn: broken})
	hub.register(sessionID, &connection{conn: healthy})

	hub.Broadcast(sessionID, services.GoalEvent{Type: services.EventGoalUpdated})

	if got := hub.Connections(sessionID); got != 1 {
		t.Fatalf("expected the failed connection to be dropped, got %d connections", got)
	}
	broken.mu.Lock()
	closed := broken.closed
	broken.mu.Unlock()
	if !closed {
		t.Fatal("expected the failed connection to be closed")
	}

	hub.Broadcast(sessionID, services.GoalEvent{Type: services.EventGoalUpdated})
	if healthy.messages() != 2 {
		t.Fatalf("expected the healthy connection to keep receiving, got %d", healthy.messages())
	}
}

func TestHubStalledClientDoesNotBlockOtherSessions(t *testing.T) {
	hub := NewHub()
	stalledSession, otherSession := uuid.New(), uuid.New()
	stalled := &recordingWriter{block: make(chan struct{})}
	other := &recordingWriter{}
	hub.register(stalledSession, &connection{conn: stalled})
	hub.register(otherSession, &connection{conn: other})

	stuck := make(chan struct{})
	go func() {
		defer close(stuck)
		hub.Broadcast(stalledSession, services.GoalEvent{Type: services.EventGoalUpdated})
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.Broadcast(otherSession, services.GoalEvent{Type: services.EventGoalUpdated})
		hub.register(otherSession, &connection{conn: &recordingWriter{}})
		hub.Connections(stalledSession)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub operations blocked behind a stalled write")
	}
	if other.messages() != 1 {
		t.Fatalf("expected the other session to receive its event, got %d", other.messages())
	}

	close(stalled.block)
	select {
	case <-stuck:
	case <-time.After(2 * time.Second):
		t.Fatal("stalled broadcast never finished")
	}
}
