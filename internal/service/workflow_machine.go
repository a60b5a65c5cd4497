package service

import (
	"relo-assistant/internal/domain"
	"relo-assistant/internal/intent"
)

// Pasos con nombre de los workflows por servicio. Un hilo sin workflow queda
// con el paso vacio.
const (
	StepAwaitingHouseholdSize  = "awaiting_household_size"
	StepAwaitingShippingType   = "awaiting_shipping_type"
	StepAwaitingPetType        = "awaiting_pet_type"
	StepAwaitingPetDetails     = "awaiting_pet_details"
	StepAwaitingVisaStatus     = "awaiting_visa_status"
	StepAwaitingStatusDetails  = "awaiting_status_details"
	StepReferral               = "referral"
	StepAwaitingHousingType    = "awaiting_housing_type"
	StepAwaitingPreferences    = "awaiting_preferences"
	StepAwaitingBudgetDuration = "awaiting_budget_duration"
	StepDone                   = "done"
)

// Guard decide si una transicion aplica con el plan ya actualizado por el handler.
type Guard func(p intent.Payload, plan domain.RelocationPlan) bool

type transitionKey struct {
	service domain.ServiceCategory
	from    string
	intent  string
}

type transition struct {
	to     string
	guard  Guard
	marker string
}

type markerKey struct {
	service domain.ServiceCategory
	intent  string
	marker  string
}

// WorkflowMachine es la tabla explicita de transiciones (servicio, paso, intent).
type WorkflowMachine struct {
	entry   map[domain.ServiceCategory]string
	table   map[transitionKey]transition
	markers map[markerKey]string
}

// NewWorkflowMachine construye la tabla con los workflows conocidos.
func NewWorkflowMachine() *WorkflowMachine {
	m := &WorkflowMachine{
		entry:   make(map[domain.ServiceCategory]string),
		table:   make(map[transitionKey]transition),
		markers: make(map[markerKey]string),
	}

	m.setEntry(domain.ServiceShipping, StepAwaitingHouseholdSize)
	m.add(domain.ServiceShipping, StepAwaitingHouseholdSize, StepAwaitingShippingType, "size_selected", nil, "set_household_goods")
	m.add(domain.ServiceShipping, StepAwaitingShippingType, StepDone, "type_selected", nil, "shipping_type")

	m.setEntry(domain.ServicePets, StepAwaitingPetType)
	m.add(domain.ServicePets, StepAwaitingPetType, StepAwaitingPetDetails, "", hasPetCard, "set_pet_type")
	m.add(domain.ServicePets, StepAwaitingPetDetails, StepDone, "", nil,
		"set_pet_count", "set_pet_size", "set_pet_lifestyle", "set_bird_type", "set_exotic_type")

	m.setEntry(domain.ServiceImmigration, StepAwaitingVisaStatus)
	m.add(domain.ServiceImmigration, StepAwaitingVisaStatus, StepAwaitingStatusDetails, "", nil, "visa_status")
	m.add(domain.ServiceImmigration, StepAwaitingStatusDetails, StepReferral, "", nil,
		"set_job_status", "set_family_relationship", "set_school_status", "prepare_arrival_docs",
		"connect_immigration_partner", "connect_with_specialist", "immigration_specialist")

	m.setEntry(domain.ServiceHousing, StepAwaitingHousingType)
	m.add(domain.ServiceHousing, StepAwaitingHousingType, StepDone, "", nil, "housing_type")

	m.setEntry(domain.ServiceAccommodation, StepAwaitingPreferences)
	m.add(domain.ServiceAccommodation, StepAwaitingPreferences, StepAwaitingBudgetDuration, "", nil,
		"select_accommodation_type", "select_nyc_area")
	m.add(domain.ServiceAccommodation, StepAwaitingBudgetDuration, StepDone, "", hasBudgetAndDuration,
		"set_accommodation_budget", "set_accommodation_duration")

	return m
}

func (m *WorkflowMachine) setEntry(svc domain.ServiceCategory, step string) {
	m.entry[svc] = step
}

func (m *WorkflowMachine) add(svc domain.ServiceCategory, from, to, marker string, guard Guard, intents ...string) {
	for _, in := range intents {
		m.table[transitionKey{service: svc, from: from, intent: in}] = transition{to: to, guard: guard, marker: marker}
		if marker != "" {
			m.markers[markerKey{service: svc, intent: in, marker: marker}] = to
		}
	}
}

// Entry devuelve el paso inicial del servicio; vacio si no tiene workflow.
func (m *WorkflowMachine) Entry(svc domain.ServiceCategory) string {
	return m.entry[svc]
}

// Next calcula el paso siguiente. La transicion aplica si (servicio, paso,
// intent) esta en la tabla y el guard acepta, o si el payload trae el marcador
// de paso que emiten los botones del workflow.
func (m *WorkflowMachine) Next(svc domain.ServiceCategory, current, intentName string, p intent.Payload, plan domain.RelocationPlan) (string, bool) {
	if t, ok := m.table[transitionKey{service: svc, from: current, intent: intentName}]; ok {
		if t.guard == nil || t.guard(p, plan) {
			return t.to, true
		}
		return current, false
	}
	if marker := p.Str("step"); marker != "" {
		if to, ok := m.markers[markerKey{service: svc, intent: intentName, marker: marker}]; ok {
			return to, true
		}
	}
	return current, false
}

func hasPetCard(p intent.Payload, _ domain.RelocationPlan) bool {
	_, ok := petCards[p.Str("type")]
	return ok
}

func hasBudgetAndDuration(_ intent.Payload, plan domain.RelocationPlan) bool {
	return plan.AccommodationBudget != nil && plan.AccommodationDuration != nil
}
