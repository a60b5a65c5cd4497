// Package catalog carga la definicion estatica de los servicios de relocalizacion.
package catalog

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"relo-assistant/internal/domain"
)

//go:embed services.yaml
var defaultYAML []byte

// Service describe un hilo de servicio y sus reglas de temas.
type Service struct {
	ID         domain.ServiceCategory `yaml:"id"`
	Title      string                 `yaml:"title"`
	Avatar     string                 `yaml:"avatar"`
	Color      string                 `yaml:"color"`
	Greeting   string                 `yaml:"greeting"`
	Role       string                 `yaml:"role"`
	Focus      string                 `yaml:"focus"`
	Allowed    []string               `yaml:"allowed"`
	Forbidden  string                 `yaml:"forbidden"`
	Vocabulary []string               `yaml:"vocabulary"`
}

type file struct {
	SystemInstructions string    `yaml:"system_instructions"`
	GeneralContext     string    `yaml:"general_context"`
	Services           []Service `yaml:"services"`
}

// Catalog es de solo lectura despues de Load.
type Catalog struct {
	system   string
	general  string
	services map[domain.ServiceCategory]Service
	vocab    map[domain.ServiceCategory]*regexp.Regexp
}

// Default devuelve el catalogo embebido. Entra en panic si el YAML embebido es invalido.
func Default() *Catalog {
	c, err := Load(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded services.yaml: %v", err))
	}
	return c
}

// Load parsea un catalogo YAML y valida que el hilo general exista.
func Load(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c := &Catalog{
		system:   strings.TrimSpace(f.SystemInstructions),
		general:  strings.TrimSpace(f.GeneralContext),
		services: make(map[domain.ServiceCategory]Service, len(f.Services)),
		vocab:    make(map[domain.ServiceCategory]*regexp.Regexp),
	}
	for _, s := range f.Services {
		if !s.ID.Valid() {
			return nil, fmt.Errorf("unknown service %q", s.ID)
		}
		if _, dup := c.services[s.ID]; dup {
			return nil, fmt.Errorf("duplicate service %q", s.ID)
		}
		c.services[s.ID] = s
		if len(s.Vocabulary) > 0 {
			re, err := regexp.Compile(`(?i)\b(` + strings.Join(s.Vocabulary, "|") + `)\b`)
			if err != nil {
				return nil, fmt.Errorf("service %q vocabulary: %w", s.ID, err)
			}
			c.vocab[s.ID] = re
		}
	}
	if _, ok := c.services[domain.ServiceGeneral]; !ok {
		return nil, fmt.Errorf("catalog must define the %q service", domain.ServiceGeneral)
	}
	return c, nil
}

// Service devuelve la definicion del servicio o la del hilo general si no existe.
func (c *Catalog) Service(id domain.ServiceCategory) Service {
	if s, ok := c.services[id]; ok {
		return s
	}
	return c.services[domain.ServiceGeneral]
}

func (c *Catalog) SystemInstructions() string { return c.system }

func (c *Catalog) GeneralContext() string { return c.general }

// Vocabulary devuelve la regex de terminos propios del servicio, o nil.
func (c *Catalog) Vocabulary(id domain.ServiceCategory) *regexp.Regexp {
	return c.vocab[id]
}
