package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"relo-assistant/internal/catalog"
	"relo-assistant/internal/domain"
	"relo-assistant/internal/fragment"
	"relo-assistant/internal/llm"
)

// judgeResponse representa la respuesta estructurada del juez evaluador en formato JSON.
type judgeResponse struct {
	Reasoning    string `json:"reasoning"`
	ScopeScore   int    `json:"scope_score"`
	ContextScore int    `json:"context_score"`
}

func evaluateReply(
	ctx context.Context,
	judge llm.Gateway,
	cat *catalog.Catalog,
	home domain.ServiceCategory,
	input, reply string,
) (judgeResponse, error) {
	leaks := detectLeaks(cat, home, reply)
	heuristicLine := fmt.Sprintf("Indicadores heuristicos: servicios_filtrados=%s", formatLeaks(leaks))

	svc := cat.Service(home)
	prompt := buildJudgePrompt(svc.Title, svc.Focus, heuristicLine, input, fragment.StripTags(reply))

	raw, err := judge.Generate(ctx, prompt, llm.GenerateOptions{Reasoning: llm.ReasoningLow})
	if err != nil {
		return judgeResponse{}, err
	}

	// robustez: extraemos el primer JSON balanceado
	jsonStr := extractFirstJSONObject(raw)
	if jsonStr == "" {
		return judgeResponse{}, fmt.Errorf("juez devolvió no-json: %q", raw)
	}

	var jr judgeResponse
	if err := json.Unmarshal([]byte(jsonStr), &jr); err != nil {
		return judgeResponse{}, fmt.Errorf("error parseando JSON juez: %w (raw=%q full=%q)", err, jsonStr, raw)
	}

	jr.ScopeScore = clamp1to5(jr.ScopeScore)
	jr.ContextScore = clamp1to5(jr.ContextScore)

	// Penalización dura: vocabulario de otro servicio en el hilo.
	if len(leaks) > 0 && jr.ScopeScore > 2 {
		jr.ScopeScore = 2
	}

	return jr, nil
}

func clamp1to5(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

// detectLeaks devuelve los servicios ajenos cuyo vocabulario aparece en text.
// El hilo general puede mencionar cualquier servicio.
func detectLeaks(cat *catalog.Catalog, home domain.ServiceCategory, text string) []domain.ServiceCategory {
	if home == domain.ServiceGeneral {
		return nil
	}
	plain := fragment.StripTags(text)
	var out []domain.ServiceCategory
	for _, svc := range domain.AllServices {
		if svc == home || svc == domain.ServiceGeneral {
			continue
		}
		if re := cat.Vocabulary(svc); re != nil && re.MatchString(plain) {
			out = append(out, svc)
		}
	}
	return out
}

func formatLeaks(leaks []domain.ServiceCategory) string {
	if len(leaks) == 0 {
		return "ninguno"
	}
	parts := make([]string, len(leaks))
	for i, l := range leaks {
		parts[i] = string(l)
	}
	return strings.Join(parts, ",")
}

func buildJudgePrompt(title, focus, heuristicLine, input, reply string) string {
	return fmt.Sprintf(
		`You are an expert judge reviewing a relocation assistant that keeps one conversation thread per service.

Thread: %s
Thread focus: %s
%s

User input: %q
Assistant reply: %q

Score (1-5):
1) Scope: does the reply stay inside this thread's service?
   - 5/5: only this service's topics.
   - 3/5: mostly on topic with a passing mention of another service.
   - 1/5: answers about another service or redirects the conversation there.
   If servicios_filtrados is not "ninguno", scope is at most 2/5.
2) Context: does the reply follow from the user input and the current step?

Reply ONLY with JSON (no markdown):
{
  "reasoning": "...",
  "scope_score": 0,
  "context_score": 0
}`,
		title, focus, heuristicLine, input, reply,
	)
}

// extractFirstJSONObject devuelve el primer objeto {...} balanceado.
func extractFirstJSONObject(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
