package store

import (
	"relo-assistant/internal/domain"
)

// CreateThread crea el hilo de un servicio. Falla si ya existe uno para ese servicio.
func (s *Store) CreateThread(service domain.ServiceCategory, title string) (domain.Thread, error) {
	s.mu.Lock()
	if s.serviceIndex(service) >= 0 {
		s.mu.Unlock()
		return domain.Thread{}, ErrDuplicateService
	}
	t := s.insertThreadLocked(service, title)
	s.mu.Unlock()

	s.publish(Event{Type: EventThreadCreated, Thread: &t})
	return t, nil
}

func (s *Store) insertThreadLocked(service domain.ServiceCategory, title string) domain.Thread {
	cfg := s.catalog.Service(service)
	if title == "" {
		title = cfg.Title
	}
	t := domain.Thread{
		ID:        s.newID("thread"),
		Title:     title,
		Service:   service,
		Avatar:    cfg.Avatar,
		Color:     cfg.Color,
		CreatedAt: s.now(),
	}
	s.threads = append(s.threads, t)
	return t
}

// SwitchToThread activa el hilo y resetea sus no-leidos. Un id desconocido se
// rechaza para que activeThreadID siempre apunte a un hilo existente.
func (s *Store) SwitchToThread(id string) error {
	s.mu.Lock()
	idx := s.threadIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrThreadNotFound
	}
	s.activeID = id
	s.threads[idx].UnreadCount = 0
	t := s.threads[idx]
	s.mu.Unlock()

	s.publish(Event{Type: EventThreadActivated, Thread: &t, ActiveThreadID: id})
	return nil
}

// GetOrCreateServiceThread devuelve el hilo del servicio, creandolo si hace
// falta. El saludo inicial se dispara solo en la creacion.
func (s *Store) GetOrCreateServiceThread(service domain.ServiceCategory) (domain.Thread, bool) {
	s.mu.Lock()
	if idx := s.serviceIndex(service); idx >= 0 {
		t := s.threads[idx]
		s.mu.Unlock()
		return t, false
	}
	t := s.insertThreadLocked(service, "")
	greeter := s.greeter
	s.mu.Unlock()
	s.publish(Event{Type: EventThreadCreated, Thread: &t})

	if greeter != nil {
		greeter(service, t.ID)
	} else {
		s.AppendMessage(domain.RoleAssistant, "How can I help you with "+t.Title+"?", t.ID)
	}
	return t, true
}

// ThreadByService busca el hilo de un servicio.
func (s *Store) ThreadByService(service domain.ServiceCategory) (domain.Thread, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.serviceIndex(service); idx >= 0 {
		return s.threads[idx], true
	}
	return domain.Thread{}, false
}

// Thread busca un hilo por id.
func (s *Store) Thread(id string) (domain.Thread, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.threadIndex(id); idx >= 0 {
		return s.threads[idx], true
	}
	return domain.Thread{}, false
}

func (s *Store) Threads() []domain.Thread {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Thread(nil), s.threads...)
}

func (s *Store) ActiveThreadID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// ServiceOf devuelve el servicio del hilo; general si el hilo no existe.
func (s *Store) ServiceOf(threadID string) domain.ServiceCategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.threadIndex(threadID); idx >= 0 {
		return s.threads[idx].Service
	}
	return domain.ServiceGeneral
}

// SetWorkflowStep registra el paso actual del workflow del hilo.
func (s *Store) SetWorkflowStep(threadID, step string) error {
	s.mu.Lock()
	idx := s.threadIndex(threadID)
	if idx < 0 {
		s.mu.Unlock()
		return ErrThreadNotFound
	}
	s.threads[idx].WorkflowStep = step
	t := s.threads[idx]
	s.mu.Unlock()

	s.publish(Event{Type: EventThreadUpdated, Thread: &t})
	return nil
}

func (s *Store) serviceIndex(service domain.ServiceCategory) int {
	for i := range s.threads {
		if s.threads[i].Service == service {
			return i
		}
	}
	return -1
}
