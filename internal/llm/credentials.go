package llm

import (
	"strings"
	"sync"
)

// DefaultModel se usa cuando no se configura ninguno.
const DefaultModel = "gpt-5-mini-2025-08-07"

// ModelInfo describe un modelo seleccionable desde la UI.
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AvailableModels es la lista que se ofrece en settings.
var AvailableModels = []ModelInfo{
	{ID: "gpt-5-mini-2025-08-07", Name: "GPT-5 Mini", Description: "Fast and efficient"},
	{ID: "gpt-4o", Name: "GPT-4o", Description: "Latest GPT-4 optimized"},
	{ID: "gpt-4o-mini", Name: "GPT-4o Mini", Description: "Faster GPT-4o"},
	{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", Description: "Enhanced GPT-4"},
	{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", Description: "Fast and reliable"},
}

// Credentials guarda la api key y el modelo; se pueden cambiar en caliente.
type Credentials struct {
	mu     sync.RWMutex
	apiKey string
	model  string
}

func NewCredentials(apiKey, model string) *Credentials {
	c := &Credentials{}
	c.Set(apiKey, model)
	return c
}

// Set reemplaza la credencial. Un modelo vacio vuelve al default.
func (c *Credentials) Set(apiKey, model string) {
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}
	c.mu.Lock()
	c.apiKey = strings.TrimSpace(apiKey)
	c.model = model
	c.mu.Unlock()
}

// SetModel cambia solo el modelo.
func (c *Credentials) SetModel(model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m := strings.TrimSpace(model); m != "" {
		c.model = m
	} else {
		c.model = DefaultModel
	}
}

func (c *Credentials) Get() (apiKey, model string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey, c.model
}

func (c *Credentials) Configured() bool {
	key, _ := c.Get()
	return key != ""
}

// KnownModel indica si id esta en AvailableModels.
func KnownModel(id string) bool {
	for _, m := range AvailableModels {
		if m.ID == id {
			return true
		}
	}
	return false
}
