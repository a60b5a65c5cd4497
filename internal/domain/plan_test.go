package domain

import (
	"reflect"
	"testing"
)

func TestRelocationPlanMerge(t *testing.T) {
	t.Run("updates disjuntos equivalen a uno combinado", func(t *testing.T) {
		a := RelocationPlan{ToCity: Ptr("New York"), HouseholdSize: Ptr(2)}
		b := RelocationPlan{VisaStatus: Ptr("need_work_visa"), SpecialRequirements: []string{"Household: studio"}}
		combined := RelocationPlan{
			ToCity:              Ptr("New York"),
			HouseholdSize:       Ptr(2),
			VisaStatus:          Ptr("need_work_visa"),
			SpecialRequirements: []string{"Household: studio"},
		}

		stepwise := RelocationPlan{}.Merge(a).Merge(b)
		once := RelocationPlan{}.Merge(combined)
		if !reflect.DeepEqual(stepwise, once) {
			t.Fatalf("expected stepwise merge to match combined merge:\n%+v\n%+v", stepwise, once)
		}
	})

	t.Run("campos no informados persisten", func(t *testing.T) {
		p := RelocationPlan{FromCity: Ptr("Singapore"), HasPets: Ptr(true)}
		p = p.Merge(RelocationPlan{ToCity: Ptr("New York")})
		if StringOr(p.FromCity, "") != "Singapore" {
			t.Fatalf("expected from city to persist, got %v", p.FromCity)
		}
		if p.HasPets == nil || !*p.HasPets {
			t.Fatalf("expected has pets to persist")
		}
	})

	t.Run("false explicito pisa true", func(t *testing.T) {
		p := RelocationPlan{HasVisa: Ptr(true)}.Merge(RelocationPlan{HasVisa: Ptr(false)})
		if p.HasVisa == nil || *p.HasVisa {
			t.Fatalf("expected explicit false to overwrite")
		}
	})

	t.Run("merge no comparte memoria con el update", func(t *testing.T) {
		name := "Hudson West Hotel"
		reqs := []string{"a"}
		p := RelocationPlan{}.Merge(RelocationPlan{HotelName: &name, SpecialRequirements: reqs})
		name = "otro"
		reqs[0] = "b"
		if *p.HotelName != "Hudson West Hotel" || p.SpecialRequirements[0] != "a" {
			t.Fatalf("expected merge to copy values, got %+v", p)
		}
	})
}
