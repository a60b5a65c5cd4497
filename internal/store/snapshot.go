package store

import "relo-assistant/internal/domain"

// Snapshot es una copia consistente del estado completo de la sesion.
type Snapshot struct {
	Messages       []domain.Message       `json:"messages"`
	Steps          []domain.TimelineStep  `json:"steps"`
	Plan           *domain.RelocationPlan `json:"relocation_plan,omitempty"`
	Threads        []domain.Thread        `json:"threads"`
	ActiveThreadID string                 `json:"active_thread_id"`
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Messages:       append([]domain.Message(nil), s.messages...),
		Steps:          append([]domain.TimelineStep(nil), s.steps...),
		Threads:        append([]domain.Thread(nil), s.threads...),
		ActiveThreadID: s.activeID,
	}
	if s.plan != nil {
		p := s.plan.Merge(domain.RelocationPlan{})
		snap.Plan = &p
	}
	return snap
}
