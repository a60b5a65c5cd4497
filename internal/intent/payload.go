// Package intent decodifica los eventos que emite la capa de render: un nombre
// de intent y un payload JSON que muchas veces llega mal escapado.
package intent

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Payload es el objeto decodificado. nil significa "sin payload".
type Payload map[string]any

// entityReplacer respeta el orden: &amp; se resuelve al final para no
// reinterpretar secuencias como "&amp;quot;".
var entityReplacer = []struct{ from, to string }{
	{"&quot;", `"`},
	{"&#34;", `"`},
	{"&apos;", "'"},
	{"&#39;", "'"},
	{"&amp;", "&"},
}

// Normalize deja el nombre del intent en minusculas y sin espacios.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Decode nunca falla: cualquier payload invalido o que no sea un objeto
// se trata como ausente y cada handler decide el mensaje a mostrar.
func Decode(raw string) Payload {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return nil
	}
	for _, r := range entityReplacer {
		cleaned = strings.ReplaceAll(cleaned, r.from, r.to)
	}
	// Shim de compatibilidad para pseudo-JSON con comillas simples.
	if strings.HasPrefix(cleaned, "{") && strings.HasSuffix(cleaned, "}") &&
		!strings.Contains(cleaned, `"`) && strings.Contains(cleaned, "'") {
		cleaned = strings.ReplaceAll(cleaned, "'", `"`)
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil
	}
	if out == nil {
		return nil
	}
	return Payload(out)
}

// Str devuelve el campo como texto. Numeros y booleanos se formatean; null,
// objetos y strings vacios devuelven "".
func (p Payload) Str(key string) string {
	if p == nil {
		return ""
	}
	switch v := p[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// First devuelve el primer campo no vacio entre keys.
func (p Payload) First(keys ...string) string {
	for _, k := range keys {
		if s := p.Str(k); s != "" {
			return s
		}
	}
	return ""
}

// Number interpreta el campo como numero; acepta strings numericos.
func (p Payload) Number(key string) (float64, bool) {
	if p == nil {
		return 0, false
	}
	switch v := p[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Has indica si el campo existe con un valor util.
func (p Payload) Has(key string) bool {
	if p == nil {
		return false
	}
	v, ok := p[key]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		return s != ""
	}
	return true
}

func (p Payload) Empty() bool {
	return len(p) == 0
}

// JSON serializa el payload para incluirlo en prompts.
func (p Payload) JSON() string {
	if p == nil {
		return "{}"
	}
	b, err := json.Marshal(map[string]any(p))
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Keys devuelve las claves ordenadas.
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
