package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"relo-assistant/internal/domain"
)

func newTestManager(now *time.Time) (*SessionManager, []*ManualScheduler) {
	var scheds []*ManualScheduler
	m := NewSessionManager(SessionManagerConfig{
		IdleTTL: time.Hour,
		Now:     func() time.Time { return *now },
		NewScheduler: func() Scheduler {
			s := NewManualScheduler()
			scheds = append(scheds, s)
			return s
		},
	})
	return m, scheds
}

func TestSessionManager(t *testing.T) {
	t.Run("crear y obtener", func(t *testing.T) {
		now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
		m, _ := newTestManager(&now)
		s := m.Create()
		got, err := m.Get(s.ID)
		if err != nil || got != s {
			t.Fatalf("expected same session, got %v, %v", got, err)
		}
		if s.Store.ActiveThreadID() != domain.GeneralThreadID {
			t.Fatalf("new sessions start on the general thread")
		}
	})

	t.Run("sesion inexistente", func(t *testing.T) {
		now := time.Now()
		m, _ := newTestManager(&now)
		if _, err := m.Get("nope"); !errors.Is(err, ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
		if err := m.Close("nope"); !errors.Is(err, ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("sesiones aisladas", func(t *testing.T) {
		now := time.Now()
		m, _ := newTestManager(&now)
		a := m.Create()
		b := m.Create()
		a.Dispatcher.Dispatch(context.Background(), "pets", "")
		if _, ok := b.Store.ThreadByService(domain.ServicePets); ok {
			t.Fatalf("sessions must not share threads")
		}
	})

	t.Run("cerrar cancela follow-ups", func(t *testing.T) {
		now := time.Now()
		m, scheds := newTestManager(&now)
		s := m.Create()
		s.Dispatcher.Dispatch(context.Background(), "pets", "")
		if len(scheds[0].Pending()) == 0 {
			t.Fatalf("expected a pending greeting card")
		}
		if err := m.Close(s.ID); err != nil {
			t.Fatalf("close: %v", err)
		}
		if n := scheds[0].RunAll(); n != 0 {
			t.Fatalf("expected no tasks after close, got %d", n)
		}
		select {
		case <-s.Done():
		default:
			t.Fatalf("expected done channel closed")
		}
		if _, err := m.Get(s.ID); !errors.Is(err, ErrSessionNotFound) {
			t.Fatalf("closed sessions are gone, got %v", err)
		}
	})

	t.Run("barrido por inactividad", func(t *testing.T) {
		now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
		m, _ := newTestManager(&now)
		idle := m.Create()
		active := m.Create()

		now = now.Add(50 * time.Minute)
		if _, err := m.Get(active.ID); err != nil {
			t.Fatalf("get: %v", err)
		}
		now = now.Add(20 * time.Minute)

		if n := m.Sweep(); n != 1 {
			t.Fatalf("expected one expired session, got %d", n)
		}
		if _, err := m.Get(idle.ID); !errors.Is(err, ErrSessionNotFound) {
			t.Fatalf("idle session should be closed")
		}
		if m.Len() != 1 {
			t.Fatalf("expected active session to survive, got %d", m.Len())
		}
	})
}
