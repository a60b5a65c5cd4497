// Package store es el contenedor de estado de una sesion: mensajes, pasos de
// timeline, hilos por servicio y el plan de relocalizacion. Es el unico dueño
// de ese estado; el resto de los componentes lo muta a traves de sus operaciones.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"relo-assistant/internal/catalog"
	"relo-assistant/internal/domain"
	"relo-assistant/internal/fragment"
)

var (
	ErrThreadNotFound   = errors.New("thread not found")
	ErrDuplicateService = errors.New("service thread already exists")
	ErrStepIDRequired   = errors.New("timeline step id required")
)

// Greeter arranca la conversacion de un hilo recien creado. Se invoca fuera
// del lock, una unica vez por servicio.
type Greeter func(service domain.ServiceCategory, threadID string)

// Store es seguro para uso concurrente: cada operacion es atomica.
type Store struct {
	mu       sync.Mutex
	catalog  *catalog.Catalog
	messages []domain.Message
	steps    []domain.TimelineStep
	plan     *domain.RelocationPlan
	threads  []domain.Thread
	activeID string
	greeter  Greeter
	now      func() time.Time
	newID    func(prefix string) string

	subMu  sync.Mutex
	subs   map[int]chan Event
	nextID int
}

type Option func(*Store)

// WithClock reemplaza el reloj; util en tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator reemplaza la generacion de ids.
func WithIDGenerator(gen func(prefix string) string) Option {
	return func(s *Store) { s.newID = gen }
}

// New crea un store con el hilo general activo.
func New(cat *catalog.Catalog, opts ...Option) *Store {
	if cat == nil {
		cat = catalog.Default()
	}
	s := &Store{
		catalog: cat,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func(prefix string) string { return prefix + "_" + uuid.NewString() },
		subs:    make(map[int]chan Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	general := cat.Service(domain.ServiceGeneral)
	s.threads = []domain.Thread{{
		ID:        domain.GeneralThreadID,
		Title:     general.Title,
		Service:   domain.ServiceGeneral,
		Avatar:    general.Avatar,
		Color:     general.Color,
		CreatedAt: s.now(),
	}}
	s.activeID = domain.GeneralThreadID
	return s
}

// SetGreeter conecta la libreria de workflows despues de construir el store.
func (s *Store) SetGreeter(g Greeter) {
	s.mu.Lock()
	s.greeter = g
	s.mu.Unlock()
}

// AppendMessage agrega un mensaje al hilo indicado (o al activo si threadID es
// vacio) y actualiza preview y no-leidos. El texto se guarda tal cual.
func (s *Store) AppendMessage(role domain.Role, text, threadID string) domain.Message {
	s.mu.Lock()
	if threadID == "" {
		threadID = s.activeID
	}
	msg := domain.Message{
		ID:        s.newID("m"),
		Role:      role,
		Text:      text,
		ThreadID:  threadID,
		CreatedAt: s.now(),
	}
	s.messages = append(s.messages, msg)
	var updated *domain.Thread
	if idx := s.threadIndex(threadID); idx >= 0 {
		t := &s.threads[idx]
		t.LastMessagePreview = fragment.Preview(text)
		ts := msg.CreatedAt
		t.LastMessageAt = &ts
		if threadID != s.activeID {
			t.UnreadCount++
		}
		cp := *t
		updated = &cp
	}
	s.mu.Unlock()

	s.publish(Event{Type: EventMessageAppended, Message: &msg})
	if updated != nil {
		s.publish(Event{Type: EventThreadUpdated, Thread: updated})
	}
	return msg
}

// Messages devuelve los mensajes del hilo en orden de insercion. threadID vacio
// devuelve todos.
func (s *Store) Messages(threadID string) []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, 0, len(s.messages))
	for _, m := range s.messages {
		if threadID == "" || m.ThreadID == threadID {
			out = append(out, m)
		}
	}
	return out
}

// LastMessage devuelve el ultimo mensaje del hilo.
func (s *Store) LastMessage(threadID string) (domain.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].ThreadID == threadID {
			return s.messages[i], true
		}
	}
	return domain.Message{}, false
}

// NewStepID genera un id para un paso del kind dado.
func (s *Store) NewStepID(kind domain.StepKind) string {
	return s.newID(string(kind))
}

// UpsertStep fusiona por id: los campos no vacios del paso entrante pisan los
// existentes. Un paso nuevo recibe timestamp si no trae uno. El id es
// obligatorio; usar NewStepID antes del primer upsert.
func (s *Store) UpsertStep(step domain.TimelineStep) (domain.TimelineStep, error) {
	if step.ID == "" {
		return domain.TimelineStep{}, ErrStepIDRequired
	}
	s.mu.Lock()
	var result domain.TimelineStep
	if idx := s.stepIndex(step.ID); idx >= 0 {
		cur := s.steps[idx]
		if step.Kind != "" {
			cur.Kind = step.Kind
		}
		if step.Title != "" {
			cur.Title = step.Title
		}
		if step.Status != "" {
			cur.Status = step.Status
		}
		if !step.CreatedAt.IsZero() {
			cur.CreatedAt = step.CreatedAt
		}
		if step.AfterMessageID != "" {
			cur.AfterMessageID = step.AfterMessageID
		}
		if step.ThreadID != "" {
			cur.ThreadID = step.ThreadID
		}
		if step.Data != nil {
			cur.Data = step.Data
		}
		s.steps[idx] = cur
		result = cur
	} else {
		if step.Kind == "" && step.Data != nil {
			step.Kind = step.Data.Kind()
		}
		if step.CreatedAt.IsZero() {
			step.CreatedAt = s.now()
		}
		if step.Status == "" {
			step.Status = domain.StatusInProgress
		}
		if step.ThreadID == "" {
			step.ThreadID = s.activeID
		}
		s.steps = append(s.steps, step)
		result = step
	}
	s.mu.Unlock()

	s.publish(Event{Type: EventStepUpserted, Step: &result})
	return result, nil
}

// CompleteStep marca el paso como completado. No-op si no existe.
func (s *Store) CompleteStep(id string) {
	s.mu.Lock()
	idx := s.stepIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.steps[idx].Status = domain.StatusCompleted
	step := s.steps[idx]
	s.mu.Unlock()
	s.publish(Event{Type: EventStepUpserted, Step: &step})
}

// Step busca un paso por id.
func (s *Store) Step(id string) (domain.TimelineStep, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.stepIndex(id); idx >= 0 {
		return s.steps[idx], true
	}
	return domain.TimelineStep{}, false
}

// Steps devuelve una copia de la timeline.
func (s *Store) Steps() []domain.TimelineStep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.TimelineStep(nil), s.steps...)
}

// LatestStep devuelve el paso mas reciente del kind dado.
func (s *Store) LatestStep(kind domain.StepKind) (domain.TimelineStep, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.steps) - 1; i >= 0; i-- {
		if s.steps[i].Kind == kind {
			return s.steps[i], true
		}
	}
	return domain.TimelineStep{}, false
}

// UpdateRelocationPlan aplica un merge superficial; el plan nunca se reemplaza.
func (s *Store) UpdateRelocationPlan(partial domain.RelocationPlan) domain.RelocationPlan {
	s.mu.Lock()
	var base domain.RelocationPlan
	if s.plan != nil {
		base = *s.plan
	}
	merged := base.Merge(partial)
	s.plan = &merged
	s.mu.Unlock()

	s.publish(Event{Type: EventPlanUpdated, Plan: &merged})
	return merged
}

// AppendSpecialRequirement agrega un requisito al final de la lista sin
// perder los que otro handler haya agregado en paralelo.
func (s *Store) AppendSpecialRequirement(req string) domain.RelocationPlan {
	s.mu.Lock()
	var base domain.RelocationPlan
	if s.plan != nil {
		base = *s.plan
	}
	reqs := append(append([]string(nil), base.SpecialRequirements...), req)
	merged := base.Merge(domain.RelocationPlan{SpecialRequirements: reqs})
	s.plan = &merged
	s.mu.Unlock()

	s.publish(Event{Type: EventPlanUpdated, Plan: &merged})
	return merged
}

// Plan devuelve el plan actual; false si todavia no hubo ningun update.
func (s *Store) Plan() (domain.RelocationPlan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.plan == nil {
		return domain.RelocationPlan{}, false
	}
	return s.plan.Merge(domain.RelocationPlan{}), true
}

func (s *Store) threadIndex(id string) int {
	for i := range s.threads {
		if s.threads[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) stepIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.steps {
		if s.steps[i].ID == id {
			return i
		}
	}
	return -1
}
