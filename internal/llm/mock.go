package llm

import (
	"context"
	"sync"
)

// MockCall registra una invocacion al mock.
type MockCall struct {
	Prompt string
	Opts   GenerateOptions
}

// MockClient permite tests sin llamar a un LLM real. Responses se consume en
// orden y la ultima se repite; si esta vacio se usa Response. Fn, si existe,
// tiene prioridad.
type MockClient struct {
	Response  string
	Responses []string
	Err       error
	Fn        func(prompt string, opts GenerateOptions) (string, error)

	mu    sync.Mutex
	calls []MockCall
}

func (m *MockClient) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Prompt: prompt, Opts: opts})
	n := len(m.calls)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", &TransportError{Timeout: true, Err: err}
	}
	if m.Fn != nil {
		return m.Fn(prompt, opts)
	}
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) > 0 {
		idx := n - 1
		if idx >= len(m.Responses) {
			idx = len(m.Responses) - 1
		}
		return m.Responses[idx], nil
	}
	return m.Response, nil
}

// Calls devuelve la cantidad de invocaciones.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// History devuelve una copia de las invocaciones.
func (m *MockClient) History() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}
