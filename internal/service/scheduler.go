package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task es un follow-up diferido. ctx se cancela si el hilo o la sesion se cierran.
type Task func(ctx context.Context)

// Scheduler difiere follow-ups ligados al hilo que los origino.
type Scheduler interface {
	After(threadID string, delay time.Duration, task Task)
	CancelThread(threadID string)
	Stop()
}

// TimerScheduler ejecuta cada tarea en su propio timer.
type TimerScheduler struct {
	mu      sync.Mutex
	base    context.Context
	stop    context.CancelFunc
	threads map[string]*threadTasks
	logger  *zap.Logger
	wg      sync.WaitGroup
}

type threadTasks struct {
	ctx    context.Context
	cancel context.CancelFunc
	timers map[*time.Timer]struct{}
}

func NewTimerScheduler(logger *zap.Logger) *TimerScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &TimerScheduler{
		base:    ctx,
		stop:    cancel,
		threads: make(map[string]*threadTasks),
		logger:  logger,
	}
}

func (s *TimerScheduler) After(threadID string, delay time.Duration, task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.base.Err() != nil {
		return
	}
	tt, ok := s.threads[threadID]
	if !ok {
		ctx, cancel := context.WithCancel(s.base)
		tt = &threadTasks{ctx: ctx, cancel: cancel, timers: make(map[*time.Timer]struct{})}
		s.threads[threadID] = tt
	}

	var timer *time.Timer
	s.wg.Add(1)
	timer = time.AfterFunc(delay, func() {
		defer s.wg.Done()
		s.mu.Lock()
		delete(tt.timers, timer)
		s.mu.Unlock()
		if tt.ctx.Err() != nil {
			return
		}
		s.run(tt.ctx, threadID, task)
	})
	tt.timers[timer] = struct{}{}
}

func (s *TimerScheduler) run(ctx context.Context, threadID string, task Task) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled task panicked", zap.String("thread_id", threadID), zap.Any("panic", r))
		}
	}()
	task(ctx)
}

// CancelThread cancela los follow-ups pendientes del hilo.
func (s *TimerScheduler) CancelThread(threadID string) {
	s.mu.Lock()
	tt, ok := s.threads[threadID]
	if ok {
		delete(s.threads, threadID)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	tt.cancel()
	s.mu.Lock()
	for t := range tt.timers {
		if t.Stop() {
			s.wg.Done()
		}
	}
	s.mu.Unlock()
}

// Stop cancela todo y espera a que terminen las tareas en curso.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.threads))
	for id := range s.threads {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	for _, id := range ids {
		s.CancelThread(id)
	}
	s.stop()
	s.wg.Wait()
}

// ManualTask es una tarea pendiente en ManualScheduler.
type ManualTask struct {
	ThreadID string
	Delay    time.Duration
	task     Task
}

// ManualScheduler acumula las tareas hasta que el test las dispara.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []ManualTask
	stopped bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) After(threadID string, delay time.Duration, task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.pending = append(s.pending, ManualTask{ThreadID: threadID, Delay: delay, task: task})
}

func (s *ManualScheduler) CancelThread(threadID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.pending[:0]
	for _, t := range s.pending {
		if t.ThreadID != threadID {
			kept = append(kept, t)
		}
	}
	s.pending = kept
}

func (s *ManualScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	s.stopped = true
}

// Pending devuelve una copia de las tareas en cola.
func (s *ManualScheduler) Pending() []ManualTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ManualTask(nil), s.pending...)
}

// RunPending ejecuta las tareas encoladas hasta ahora; las que estas agreguen
// quedan para la proxima llamada. Devuelve cuantas ejecuto.
func (s *ManualScheduler) RunPending() int {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, t := range batch {
		t.task(context.Background())
	}
	return len(batch)
}

// RunAll ejecuta hasta vaciar la cola, incluidas las tareas encadenadas.
func (s *ManualScheduler) RunAll() int {
	total := 0
	for i := 0; i < 100; i++ {
		n := s.RunPending()
		if n == 0 {
			break
		}
		total += n
	}
	return total
}

// serialScheduler hace que cada tarea corra dentro del turno de la sesion:
// un follow-up nunca se intercala con un dispatch en curso.
type serialScheduler struct {
	inner Scheduler
	turn  sync.Locker
}

func (s serialScheduler) After(threadID string, delay time.Duration, task Task) {
	s.inner.After(threadID, delay, func(ctx context.Context) {
		s.turn.Lock()
		defer s.turn.Unlock()
		task(ctx)
	})
}

func (s serialScheduler) CancelThread(threadID string) { s.inner.CancelThread(threadID) }

func (s serialScheduler) Stop() { s.inner.Stop() }
