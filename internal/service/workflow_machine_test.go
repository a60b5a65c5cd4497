package service

import (
	"testing"

	"relo-assistant/internal/domain"
	"relo-assistant/internal/intent"
)

func TestWorkflowMachineNext(t *testing.T) {
	m := NewWorkflowMachine()
	budget := "$150-250/night"
	duration := "1 month"

	cases := []struct {
		name    string
		svc     domain.ServiceCategory
		current string
		intent  string
		payload intent.Payload
		plan    domain.RelocationPlan
		want    string
		ok      bool
	}{
		{
			name:    "tamaño del hogar",
			svc:     domain.ServiceShipping,
			current: StepAwaitingHouseholdSize,
			intent:  "set_household_goods",
			want:    StepAwaitingShippingType,
			ok:      true,
		},
		{
			name:    "tipo de envio fuera de orden",
			svc:     domain.ServiceShipping,
			current: StepAwaitingHouseholdSize,
			intent:  "shipping_type",
			want:    StepAwaitingHouseholdSize,
		},
		{
			name:    "marcador de paso desde cualquier paso",
			svc:     domain.ServiceShipping,
			current: StepDone,
			intent:  "shipping_type",
			payload: intent.Payload{"step": "type_selected"},
			want:    StepDone,
			ok:      true,
		},
		{
			name:    "marcador de otro intent",
			svc:     domain.ServiceShipping,
			current: StepAwaitingHouseholdSize,
			intent:  "shipping_type",
			payload: intent.Payload{"step": "size_selected"},
			want:    StepAwaitingHouseholdSize,
		},
		{
			name:    "mascota sin tarjeta",
			svc:     domain.ServicePets,
			current: StepAwaitingPetType,
			intent:  "set_pet_type",
			payload: intent.Payload{"type": "dragon"},
			want:    StepAwaitingPetType,
		},
		{
			name:    "mascota con tarjeta",
			svc:     domain.ServicePets,
			current: StepAwaitingPetType,
			intent:  "set_pet_type",
			payload: intent.Payload{"type": "cat"},
			want:    StepAwaitingPetDetails,
			ok:      true,
		},
		{
			name:    "detalle de mascota",
			svc:     domain.ServicePets,
			current: StepAwaitingPetDetails,
			intent:  "set_pet_lifestyle",
			want:    StepDone,
			ok:      true,
		},
		{
			name:    "derivacion de inmigracion",
			svc:     domain.ServiceImmigration,
			current: StepAwaitingStatusDetails,
			intent:  "set_job_status",
			want:    StepReferral,
			ok:      true,
		},
		{
			name:    "alojamiento solo presupuesto",
			svc:     domain.ServiceAccommodation,
			current: StepAwaitingBudgetDuration,
			intent:  "set_accommodation_budget",
			plan:    domain.RelocationPlan{AccommodationBudget: &budget},
			want:    StepAwaitingBudgetDuration,
		},
		{
			name:    "alojamiento completo",
			svc:     domain.ServiceAccommodation,
			current: StepAwaitingBudgetDuration,
			intent:  "set_accommodation_duration",
			plan:    domain.RelocationPlan{AccommodationBudget: &budget, AccommodationDuration: &duration},
			want:    StepDone,
			ok:      true,
		},
		{
			name:    "servicio sin workflow",
			svc:     domain.ServiceFinance,
			current: "",
			intent:  "finance",
			want:    "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := m.Next(tc.svc, tc.current, tc.intent, tc.payload, tc.plan)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("expected (%q, %v), got (%q, %v)", tc.want, tc.ok, got, ok)
			}
		})
	}
}

func TestWorkflowMachineEntry(t *testing.T) {
	m := NewWorkflowMachine()
	entries := map[domain.ServiceCategory]string{
		domain.ServiceShipping:      StepAwaitingHouseholdSize,
		domain.ServicePets:          StepAwaitingPetType,
		domain.ServiceImmigration:   StepAwaitingVisaStatus,
		domain.ServiceHousing:       StepAwaitingHousingType,
		domain.ServiceAccommodation: StepAwaitingPreferences,
		domain.ServiceFinance:       "",
	}
	for svc, want := range entries {
		if got := m.Entry(svc); got != want {
			t.Fatalf("entry for %s: expected %q, got %q", svc, want, got)
		}
	}
}
