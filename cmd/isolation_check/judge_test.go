package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"relo-assistant/internal/catalog"
	"relo-assistant/internal/domain"
	"relo-assistant/internal/llm"
)

func TestDetectLeaks(t *testing.T) {
	cat := catalog.Default()
	cases := []struct {
		name string
		home domain.ServiceCategory
		text string
		want int
	}{
		{name: "sin fuga", home: domain.ServicePets, text: "<p>How many dogs are travelling?</p>", want: 0},
		{name: "mudanza en mascotas", home: domain.ServicePets, text: "<p>Let's plan your furniture shipping.</p>", want: 1},
		{name: "hilo general libre", home: domain.ServiceGeneral, text: "Visas, pets and shipping.", want: 0},
		{name: "tags ignorados", home: domain.ServiceShipping, text: `<div class="pets">Packing list</div>`, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := detectLeaks(cat, tc.home, tc.text); len(got) != tc.want {
				t.Fatalf("detectLeaks(%q)=%v want %d leaks", tc.text, got, tc.want)
			}
		})
	}
}

func TestEvaluateReply(t *testing.T) {
	cat := catalog.Default()

	t.Run("clamp de puntajes", func(t *testing.T) {
		judge := &llm.MockClient{Response: "Sure! ```json\n{\"reasoning\":\"ok\",\"scope_score\":9,\"context_score\":0}\n```"}
		jr, err := evaluateReply(context.Background(), judge, cat, domain.ServicePets, "pets", "<p>How many dogs?</p>")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if jr.ScopeScore != 5 || jr.ContextScore != 1 {
			t.Fatalf("expected clamped scores, got %+v", jr)
		}
	})

	t.Run("fuga limita scope", func(t *testing.T) {
		judge := newOfflineJudge()
		jr, err := evaluateReply(context.Background(), judge, cat, domain.ServicePets, "pets", "<p>Book your movers today.</p>")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if jr.ScopeScore != 2 {
			t.Fatalf("expected scope capped at 2, got %d", jr.ScopeScore)
		}
	})

	t.Run("juez no-json", func(t *testing.T) {
		judge := &llm.MockClient{Response: "I cannot score this"}
		if _, err := evaluateReply(context.Background(), judge, cat, domain.ServicePets, "pets", "ok"); err == nil {
			t.Fatalf("expected error for non-json judge output")
		}
	})

	t.Run("juez caido", func(t *testing.T) {
		judge := &llm.MockClient{Err: errors.New("boom")}
		if _, err := evaluateReply(context.Background(), judge, cat, domain.ServicePets, "pets", "ok"); err == nil {
			t.Fatalf("expected gateway error")
		}
	})
}

func TestExtractFirstJSONObject(t *testing.T) {
	cases := map[string]string{
		`prefix {"a":{"b":1}} suffix {"c":2}`: `{"a":{"b":1}}`,
		`no json here`:                        "",
		`{"unbalanced":`:                      "",
	}
	for in, want := range cases {
		if got := extractFirstJSONObject(in); got != want {
			t.Fatalf("extractFirstJSONObject(%q)=%q want %q", in, got, want)
		}
	}
}

func TestLoadScenarios(t *testing.T) {
	t.Run("por defecto", func(t *testing.T) {
		got, err := loadScenarios("")
		if err != nil || len(got) != len(defaultScenarios) {
			t.Fatalf("expected default scenarios, got %d, %v", len(got), err)
		}
	})

	t.Run("desde yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scenarios.yaml")
		body := "- name: solo mascotas\n  home: pets\n  steps:\n    - intent: pets\n    - text: We have a cat\n"
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		got, err := loadScenarios(path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(got) != 1 || got[0].Home != domain.ServicePets || len(got[0].Steps) != 2 {
			t.Fatalf("unexpected scenarios: %+v", got)
		}
		if got[0].Steps[1].Input() != "We have a cat" {
			t.Fatalf("unexpected input: %q", got[0].Steps[1].Input())
		}
	})

	t.Run("servicio desconocido", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("- name: x\n  home: spaceflight\n"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := loadScenarios(path); err == nil {
			t.Fatalf("expected error for unknown service")
		}
	})
}

func TestRunOffline(t *testing.T) {
	var out discard
	if err := run(context.Background(), &out, checkOptions{offline: true, minScope: 1}); err != nil {
		t.Fatalf("offline run should complete: %v", err)
	}
	if out.n == 0 {
		t.Fatalf("expected a report")
	}
}

type discard struct{ n int }

func (d *discard) Write(p []byte) (int, error) {
	d.n += len(p)
	return len(p), nil
}
