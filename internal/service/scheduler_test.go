package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestTimerScheduler(t *testing.T) {
	t.Run("ejecuta despues del delay", func(t *testing.T) {
		s := NewTimerScheduler(nil)
		defer s.Stop()
		done := make(chan struct{})
		s.After("t1", 10*time.Millisecond, func(ctx context.Context) { close(done) })
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("task did not run")
		}
	})

	t.Run("cancelar hilo", func(t *testing.T) {
		s := NewTimerScheduler(nil)
		defer s.Stop()
		var ran int32
		s.After("t1", 50*time.Millisecond, func(ctx context.Context) { atomic.AddInt32(&ran, 1) })
		s.After("t2", 50*time.Millisecond, func(ctx context.Context) { atomic.AddInt32(&ran, 10) })
		s.CancelThread("t1")
		time.Sleep(150 * time.Millisecond)
		if got := atomic.LoadInt32(&ran); got != 10 {
			t.Fatalf("expected only t2 to run, got %d", got)
		}
	})

	t.Run("stop descarta pendientes", func(t *testing.T) {
		s := NewTimerScheduler(nil)
		var ran int32
		s.After("t1", 50*time.Millisecond, func(ctx context.Context) { atomic.AddInt32(&ran, 1) })
		s.Stop()
		s.After("t1", time.Millisecond, func(ctx context.Context) { atomic.AddInt32(&ran, 1) })
		time.Sleep(100 * time.Millisecond)
		if atomic.LoadInt32(&ran) != 0 {
			t.Fatalf("no task should run after stop")
		}
	})

	t.Run("panic recuperado", func(t *testing.T) {
		s := NewTimerScheduler(nil)
		defer s.Stop()
		done := make(chan struct{})
		s.After("t1", time.Millisecond, func(ctx context.Context) { panic("boom") })
		s.After("t1", 20*time.Millisecond, func(ctx context.Context) { close(done) })
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("scheduler stopped after a panicking task")
		}
	})
}

func TestManualScheduler(t *testing.T) {
	t.Run("tareas encadenadas", func(t *testing.T) {
		s := NewManualScheduler()
		var order []string
		s.After("a", time.Second, func(ctx context.Context) {
			order = append(order, "first")
			s.After("a", time.Second, func(ctx context.Context) { order = append(order, "second") })
		})

		if n := s.RunPending(); n != 1 {
			t.Fatalf("expected one task, got %d", n)
		}
		if len(s.Pending()) != 1 {
			t.Fatalf("chained task must wait for the next run")
		}
		s.RunAll()
		if len(order) != 2 || order[1] != "second" {
			t.Fatalf("unexpected order: %v", order)
		}
	})

	t.Run("cancelar hilo", func(t *testing.T) {
		s := NewManualScheduler()
		ran := 0
		s.After("a", 0, func(ctx context.Context) { ran++ })
		s.After("b", 0, func(ctx context.Context) { ran += 10 })
		s.CancelThread("a")
		s.RunAll()
		if ran != 10 {
			t.Fatalf("expected only b, got %d", ran)
		}
	})

	t.Run("stop", func(t *testing.T) {
		s := NewManualScheduler()
		s.After("a", 0, func(ctx context.Context) {})
		s.Stop()
		s.After("a", 0, func(ctx context.Context) {})
		if n := s.RunAll(); n != 0 {
			t.Fatalf("expected nothing after stop, got %d", n)
		}
	})
}

func TestSerialScheduler(t *testing.T) {
	t.Run("espera el turno en curso", func(t *testing.T) {
		var turn sync.Mutex
		inner := NewManualScheduler()
		s := serialScheduler{inner: inner, turn: &turn}
		ran := make(chan struct{})
		s.After("a", 0, func(ctx context.Context) { close(ran) })

		turn.Lock()
		go inner.RunAll()
		select {
		case <-ran:
			t.Fatalf("task ran while the turn was held")
		case <-time.After(50 * time.Millisecond):
		}
		turn.Unlock()

		select {
		case <-ran:
		case <-time.After(2 * time.Second):
			t.Fatalf("task did not run after the turn was released")
		}
	})

	t.Run("delega cancelar", func(t *testing.T) {
		var turn sync.Mutex
		inner := NewManualScheduler()
		s := serialScheduler{inner: inner, turn: &turn}
		s.After("a", 0, func(ctx context.Context) {})
		s.CancelThread("a")
		if len(inner.Pending()) != 0 {
			t.Fatalf("cancel must reach the inner scheduler")
		}
	})
}
