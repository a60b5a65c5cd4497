package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured indica que no hay credencial cargada.
	ErrNotConfigured = errors.New("missing LLM API key: set LLM_API_KEY or configure it in settings")
	// ErrTimeout matchea cualquier TransportError producido por un timeout.
	ErrTimeout = errors.New("llm request timed out")
)

// TransportError envuelve una llamada remota que no tuvo exito.
type TransportError struct {
	StatusCode int
	Body       string
	Timeout    bool
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Timeout:
		return "llm timeout: " + errString(e.Err)
	case e.StatusCode > 0:
		return fmt.Sprintf("llm error: %d %s", e.StatusCode, e.Body)
	default:
		return "llm transport error: " + errString(e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool {
	return target == ErrTimeout && e.Timeout
}

func errString(err error) string {
	if err == nil {
		return "unknown"
	}
	return err.Error()
}
