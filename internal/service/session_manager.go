package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"relo-assistant/internal/cache"
	"relo-assistant/internal/catalog"
	"relo-assistant/internal/email"
	"relo-assistant/internal/llm"
	"relo-assistant/internal/store"
)

var ErrSessionNotFound = errors.New("session not found")

// Session es una conversacion independiente: su store, su dispatcher y su
// scheduler. No comparte estado con otras sesiones salvo el cache de busquedas.
type Session struct {
	ID         string
	CreatedAt  time.Time
	Store      *store.Store
	Dispatcher *Dispatcher

	mu       sync.Mutex
	lastSeen time.Time
	done     chan struct{}
	closed   bool
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Done se cierra cuando la sesion termina; los streams de eventos lo usan
// para cortar.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()
	s.Dispatcher.Scheduler().Stop()
}

// SessionManagerConfig son las dependencias compartidas por todas las sesiones.
type SessionManagerConfig struct {
	Catalog      *catalog.Catalog
	Gateway      llm.Gateway
	Cache        cache.ResultCache
	Sender       email.Sender
	Referral     email.ReferralConfig
	Delays       Delays
	IdleTTL      time.Duration
	NewScheduler func() Scheduler
	Logger       *zap.Logger
	Now          func() time.Time
}

// SessionManager es el registro en memoria de sesiones activas.
type SessionManager struct {
	cfg      SessionManagerConfig
	logger   *zap.Logger
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionManager(cfg SessionManagerConfig) *SessionManager {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewMemory(0)
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 2 * time.Hour
	}
	if cfg.NewScheduler == nil {
		logger := cfg.Logger
		cfg.NewScheduler = func() Scheduler { return NewTimerScheduler(logger) }
	}
	return &SessionManager{
		cfg:      cfg,
		logger:   cfg.Logger,
		sessions: make(map[string]*Session),
	}
}

// Create abre una sesion nueva con el hilo general activo.
func (m *SessionManager) Create() *Session {
	id := uuid.NewString()
	now := m.cfg.Now()
	logger := m.logger.With(zap.String("session_id", id))
	st := store.New(m.cfg.Catalog)
	d := NewDispatcher(DispatcherDeps{
		Store:     st,
		Catalog:   m.cfg.Catalog,
		Gateway:   m.cfg.Gateway,
		Cache:     m.cfg.Cache,
		Scheduler: m.cfg.NewScheduler(),
		Sender:    m.cfg.Sender,
		Referral:  m.cfg.Referral,
		Delays:    m.cfg.Delays,
		Logger:    logger,
	})
	s := &Session{
		ID:         id,
		CreatedAt:  now,
		Store:      st,
		Dispatcher: d,
		lastSeen:   now,
		done:       make(chan struct{}),
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	logger.Info("session created")
	return s
}

// Get devuelve la sesion y renueva su actividad.
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(m.cfg.Now())
	return s, nil
}

// Close termina la sesion y cancela todos sus follow-ups pendientes.
func (m *SessionManager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.close()
	m.logger.Info("session closed", zap.String("session_id", id))
	return nil
}

// Sweep cierra las sesiones inactivas por mas de IdleTTL. Devuelve cuantas cerro.
func (m *SessionManager) Sweep() int {
	cutoff := m.cfg.Now().Add(-m.cfg.IdleTTL)
	var idle []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.close()
		m.logger.Info("session expired", zap.String("session_id", s.ID))
	}
	return len(idle)
}

// Run barre sesiones inactivas cada interval hasta que ctx se cancela.
func (m *SessionManager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// CloseAll se usa en el shutdown del servidor.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		all = append(all, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	for _, s := range all {
		s.close()
	}
}

func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
