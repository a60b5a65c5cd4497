// Package cache guarda resultados de busqueda de hoteles por consulta
// normalizada. Solo se cachean respuestas exitosas.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// ResultCache es el contrato comun de las implementaciones.
type ResultCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// NormalizeKey pasa a minusculas y colapsa espacios, asi dos consultas que
// solo difieren en formato comparten entrada.
func NormalizeKey(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

type memoryEntry struct {
	value   string
	expires time.Time
}

type memoryCache struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]memoryEntry
	now   func() time.Time
}

// NewMemory crea un cache en proceso. ttl <= 0 significa sin expiracion.
func NewMemory(ttl time.Duration) ResultCache {
	return &memoryCache{
		ttl:   ttl,
		items: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	key = NormalizeKey(key)
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		return "", false, nil
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		delete(c.items, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (c *memoryCache) Set(_ context.Context, key, value string) error {
	key = NormalizeKey(key)
	if key == "" {
		return nil
	}
	e := memoryEntry{value: value}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.items[key] = e
	c.mu.Unlock()
	return nil
}
