package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"relo-assistant/internal/domain"
)

// Step es un turno del guion: un intent con payload o texto libre.
type Step struct {
	Intent  string `yaml:"intent"`
	Payload string `yaml:"payload"`
	Text    string `yaml:"text"`
}

func (s Step) Input() string {
	if s.Text != "" {
		return s.Text
	}
	if s.Payload != "" {
		return s.Intent + " " + s.Payload
	}
	return s.Intent
}

// Scenario recorre varios servicios; Home es el hilo que se audita.
type Scenario struct {
	Name  string                 `yaml:"name"`
	Home  domain.ServiceCategory `yaml:"home"`
	Steps []Step                 `yaml:"steps"`
}

var defaultScenarios = []Scenario{
	{
		Name: "mascotas intercaladas con mudanza",
		Home: domain.ServicePets,
		Steps: []Step{
			{Intent: "pets"},
			{Intent: "shipping"},
			{Intent: "pets"},
			{Intent: "set_pet_type", Payload: `{"type":"dog","details":"dog relocation"}`},
			{Intent: "shipping"},
			{Intent: "pets"},
		},
	},
	{
		Name: "mudanza con seguimiento",
		Home: domain.ServiceShipping,
		Steps: []Step{
			{Intent: "shipping"},
			{Intent: "housing"},
			{Intent: "shipping"},
			{Intent: "shipping_type", Payload: `{"type":"international","description":"Overseas move","step":"type_selected"}`},
		},
	},
	{
		Name: "hilo general con texto libre",
		Home: domain.ServiceGeneral,
		Steps: []Step{
			{Text: "We are moving to New York next spring with two kids"},
			{Intent: "pets"},
			{Intent: "show_all_services"},
			{Text: "What should we sort out first?"},
		},
	},
}

func loadScenarios(path string) ([]Scenario, error) {
	if path == "" {
		return defaultScenarios, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []Scenario
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse scenarios: %w", err)
	}
	for i, sc := range out {
		if !sc.Home.Valid() {
			return nil, fmt.Errorf("scenario %d (%s): unknown home service %q", i, sc.Name, sc.Home)
		}
	}
	return out, nil
}
