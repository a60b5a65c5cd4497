package main

import (
	"strings"

	"relo-assistant/internal/llm"
)

// --- GATEWAYS OFFLINE ---

// newOfflineAssistant responde texto neutro para que el chequeo corra sin red.
// Las busquedas con herramientas devuelven una lista minima de hoteles.
func newOfflineAssistant() *llm.MockClient {
	return &llm.MockClient{
		Fn: func(prompt string, opts llm.GenerateOptions) (string, error) {
			if len(opts.Tools) > 0 {
				return "1. Hudson West Hotel, $189/night, 0.4 miles from the venue", nil
			}
			if strings.Contains(prompt, "Return ONLY") || strings.Contains(opts.Instructions, "HTML") {
				return "<section><p>Thanks, noted. Let's continue with the next detail.</p></section>", nil
			}
			return "<p>Thanks, noted. Let's continue with the next detail.</p>", nil
		},
	}
}

// newOfflineJudge aprueba todo; la penalizacion por vocabulario sigue aplicando.
func newOfflineJudge() *llm.MockClient {
	return &llm.MockClient{
		Response: `{"reasoning":"offline judge","scope_score":5,"context_score":5}`,
	}
}
