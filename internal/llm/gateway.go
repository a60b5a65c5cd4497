package llm

import (
	"context"
	"strings"
)

// ReasoningEffort es la pista de razonamiento que acepta el backend.
type ReasoningEffort string

const (
	ReasoningMinimal ReasoningEffort = "minimal"
	ReasoningLow     ReasoningEffort = "low"
	ReasoningMedium  ReasoningEffort = "medium"
	ReasoningHigh    ReasoningEffort = "high"
)

// Tool es un descriptor de herramienta que el backend puede ejecutar.
type Tool struct {
	Type string `json:"type"`
}

// WebSearchTool habilita la busqueda web del backend.
var WebSearchTool = Tool{Type: "web_search_preview"}

// GenerateOptions son opcionales; el valor cero significa "sin opciones".
type GenerateOptions struct {
	Instructions string
	Reasoning    ReasoningEffort
	Tools        []Tool
}

// Gateway genera texto a partir de un prompt. No guarda estado entre llamadas:
// cualquier memoria la reconstruye quien llama reenviando contexto.
type Gateway interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// NoTextPlaceholder se devuelve cuando la respuesta no trae fragmentos de texto.
const NoTextPlaceholder = "[no text]"

// IsUsable indica si una respuesta sirve como resultado. Vacio, solo espacios
// o el placeholder cuentan como "sin respuesta".
func IsUsable(s string) bool {
	t := strings.TrimSpace(s)
	return t != "" && t != NoTextPlaceholder
}
