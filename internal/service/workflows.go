package service

import (
	"context"
	"fmt"
	"time"

	"relo-assistant/internal/catalog"
	"relo-assistant/internal/domain"
	"relo-assistant/internal/fragment"
)

// Conversation es lo minimo que la libreria de workflows necesita del store.
type Conversation interface {
	AppendMessage(role domain.Role, text, threadID string) domain.Message
	SetWorkflowStep(threadID, step string) error
	Plan() (domain.RelocationPlan, bool)
}

// Delays controla el ritmo de los follow-ups.
type Delays struct {
	FollowUp time.Duration
	Long     time.Duration
}

func DefaultDelays() Delays {
	return Delays{FollowUp: time.Second, Long: 1500 * time.Millisecond}
}

// Workflows produce los mensajes guionados de cada servicio. No guarda estado:
// todo lo escribe en la conversacion, en el hilo que recibe.
type Workflows struct {
	conv    Conversation
	sched   Scheduler
	catalog *catalog.Catalog
	machine *WorkflowMachine
	delays  Delays
}

func NewWorkflows(conv Conversation, sched Scheduler, cat *catalog.Catalog, machine *WorkflowMachine, delays Delays) *Workflows {
	if cat == nil {
		cat = catalog.Default()
	}
	if machine == nil {
		machine = NewWorkflowMachine()
	}
	return &Workflows{conv: conv, sched: sched, catalog: cat, machine: machine, delays: delays}
}

// Greet saluda en un hilo recien creado, fija el paso inicial y agenda la
// primera pregunta del servicio.
func (w *Workflows) Greet(svc domain.ServiceCategory, threadID string) {
	w.say(threadID, w.catalog.Service(svc).Greeting)
	if step := w.machine.Entry(svc); step != "" {
		_ = w.conv.SetWorkflowStep(threadID, step)
	}

	var first func() card
	switch svc {
	case domain.ServicePets:
		first = petAssessmentCard
	case domain.ServiceShipping:
		first = householdSizeCard
	case domain.ServiceImmigration:
		first = visaAssessmentCard
	case domain.ServiceHousing:
		first = housingAssessmentCard
	default:
		return
	}
	w.later(threadID, w.delays.FollowUp, func() {
		w.say(threadID, first().HTML())
	})
}

func (w *Workflows) say(threadID, text string) domain.Message {
	return w.conv.AppendMessage(domain.RoleAssistant, text, threadID)
}

func (w *Workflows) later(threadID string, delay time.Duration, fn func()) {
	w.sched.After(threadID, delay, func(ctx context.Context) {
		if ctx.Err() != nil {
			return
		}
		fn()
	})
}

func (w *Workflows) plan() domain.RelocationPlan {
	p, _ := w.conv.Plan()
	return p
}

func (w *Workflows) HouseholdSize(threadID string) domain.Message {
	return w.say(threadID, householdSizeCard().HTML())
}

func (w *Workflows) ShippingType(threadID, household string) domain.Message {
	return w.say(threadID, shippingTypeCard(household).HTML())
}

func (w *Workflows) ShippingNextSteps(threadID string) domain.Message {
	return w.say(threadID, fragment.Markdown(`**Next steps for your shipping:**

- **Get 3-5 quotes** from verified international movers
- **Schedule virtual or in-home surveys** for accurate estimates
- **Compare insurance options** and transit times
- **Plan a packing timeline** (2-4 weeks before the move)

Would you like me to start connecting you with trusted international moving companies for quotes?`))
}

func (w *Workflows) PetNextSteps(threadID string) domain.Message {
	p := w.plan()
	return w.say(threadID, fragment.Markdown(fmt.Sprintf(`**Next steps for your pet's journey to %s:**

- **Book a vet visit** for the health certificate and vaccination records
- **Check quarantine rules** for your destination
- **Reserve an airline-approved travel crate** and confirm the flight policy
- **Apply for import permits** if your destination requires them

Would you like me to build a week-by-week checklist for your pet?`, domain.StringOr(p.ToCity, "your destination"))))
}

func (w *Workflows) ShippingPlan(threadID string, householdSize int) domain.Message {
	return w.say(threadID, shippingPlanCard(householdSize, w.plan()).HTML())
}

func (w *Workflows) MovingQuotes(threadID string) domain.Message {
	return w.say(threadID, movingQuotesCard().HTML())
}

func (w *Workflows) Inventory(threadID string) domain.Message {
	return w.say(threadID, inventoryCard().HTML())
}

func (w *Workflows) ImmigrationChecklist(threadID string) domain.Message {
	return w.say(threadID, immigrationChecklistCard().HTML())
}

func (w *Workflows) AllServices(threadID string) domain.Message {
	return w.say(threadID, allServicesCard().HTML())
}

func (w *Workflows) DatePicker(threadID, defaultDate string) domain.Message {
	return w.say(threadID, datePickerCard(defaultDate).HTML())
}

func (w *Workflows) HouseholdSelection(threadID string) domain.Message {
	return w.say(threadID, householdSelectionCard().HTML())
}

func (w *Workflows) AccommodationBudget(threadID string) domain.Message {
	return w.say(threadID, accommodationBudgetCard().HTML())
}

// PetDetails publica la tarjeta de detalle del tipo de mascota. false si el
// tipo no tiene tarjeta.
func (w *Workflows) PetDetails(threadID, petType string) (domain.Message, bool) {
	f, ok := petCards[petType]
	if !ok {
		return domain.Message{}, false
	}
	return w.say(threadID, f.card(w.plan()).HTML()), true
}

// VisaDetails publica la tarjeta de seguimiento del estado de visa.
func (w *Workflows) VisaDetails(threadID, status string) (domain.Message, bool) {
	f, ok := visaCards[status]
	if !ok {
		return domain.Message{}, false
	}
	return w.say(threadID, f.card(w.plan()).HTML()), true
}
