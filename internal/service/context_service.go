package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"relo-assistant/internal/domain"
	"relo-assistant/internal/fragment"
)

const contextWindow = 10

// ContextService define contrato para recuperar contexto conversacional de un hilo.
type ContextService interface {
	GetContext(ctx context.Context, threadID string) (string, error)
}

// MessageSource es la parte del store que lee el contexto.
type MessageSource interface {
	Messages(threadID string) []domain.Message
	Plan() (domain.RelocationPlan, bool)
}

// BasicContextService toma los últimos mensajes del hilo, sin markup, y un
// resumen del plan de relocalizacion.
type BasicContextService struct {
	source MessageSource
}

func NewBasicContextService(source MessageSource) *BasicContextService {
	return &BasicContextService{source: source}
}

func (s *BasicContextService) GetContext(ctx context.Context, threadID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(threadID) == "" {
		return "", nil
	}

	messages := s.source.Messages(threadID)
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	if len(messages) > contextWindow {
		messages = messages[len(messages)-contextWindow:]
	}

	lines := make([]string, 0, len(messages)+1)
	for _, m := range messages {
		text := strings.Join(strings.Fields(fragment.StripTags(m.Text)), " ")
		if text == "" {
			continue
		}
		role := "User"
		if m.Role == domain.RoleAssistant {
			role = "Assistant"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", role, text))
	}

	if plan, ok := s.source.Plan(); ok {
		if summary := PlanSummary(plan); summary != "" {
			lines = append(lines, "", "Relocation plan:", summary)
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// PlanSummary lista los campos conocidos del plan, uno por linea.
func PlanSummary(p domain.RelocationPlan) string {
	var lines []string
	add := func(label string, v *string) {
		if v != nil && *v != "" {
			lines = append(lines, "- "+label+": "+*v)
		}
	}
	add("From", p.FromCity)
	add("To", p.ToCity)
	add("Move date", p.SelectedDate)
	add("Move type", p.MoveType)
	if p.HouseholdSize != nil {
		lines = append(lines, "- Household size: "+strconv.Itoa(*p.HouseholdSize))
	}
	add("Pets", p.PetDetails)
	add("Visa status", p.VisaStatus)
	add("Immigration", p.ImmigrationStatus)
	add("Accommodation", p.AccommodationType)
	add("Accommodation budget", p.AccommodationBudget)
	add("Accommodation duration", p.AccommodationDuration)
	add("Hotel", p.HotelName)
	if p.Budget != nil {
		lines = append(lines, "- Budget: $"+strconv.FormatFloat(*p.Budget, 'f', -1, 64))
	}
	for _, r := range p.SpecialRequirements {
		lines = append(lines, "- Note: "+r)
	}
	return strings.Join(lines, "\n")
}
