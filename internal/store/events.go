package store

import "relo-assistant/internal/domain"

type EventType string

const (
	EventMessageAppended EventType = "message_appended"
	EventStepUpserted    EventType = "step_upserted"
	EventPlanUpdated     EventType = "plan_updated"
	EventThreadCreated   EventType = "thread_created"
	EventThreadUpdated   EventType = "thread_updated"
	EventThreadActivated EventType = "thread_activated"
)

// Event notifica a la capa de render un cambio en el store. Reemplaza el
// scroll-to-bottom que antes vivia dentro de los mutadores.
type Event struct {
	Type           EventType              `json:"type"`
	Message        *domain.Message        `json:"message,omitempty"`
	Step           *domain.TimelineStep   `json:"step,omitempty"`
	Thread         *domain.Thread         `json:"thread,omitempty"`
	Plan           *domain.RelocationPlan `json:"plan,omitempty"`
	ActiveThreadID string                 `json:"active_thread_id,omitempty"`
}

const subscriberBuffer = 64

// Subscribe devuelve un canal de eventos y la funcion para cancelar la
// suscripcion. Un suscriptor lento pierde eventos en vez de bloquear al store.
func (s *Store) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

func (s *Store) publish(ev Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
