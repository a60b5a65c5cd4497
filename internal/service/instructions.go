package service

import (
	"strings"

	"relo-assistant/internal/catalog"
	"relo-assistant/internal/domain"
)

// ServiceInstructions arma las instrucciones de sistema para un hilo. Los
// servicios con reglas de temas quedan restringidos a esos temas; el resto
// recibe el contexto general, que habilita la busqueda de hoteles.
func ServiceInstructions(cat *catalog.Catalog, svc domain.ServiceCategory) string {
	base := cat.SystemInstructions()
	s := cat.Service(svc)
	if svc == domain.ServiceGeneral || s.ID != svc || s.Role == "" {
		return base + "\n\n" + cat.GeneralContext()
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\nCURRENT SERVICE CONTEXT: You are operating in the ")
	b.WriteString(strings.ToUpper(s.Title))
	b.WriteString(" service thread ONLY.\n\n")
	b.WriteString("Your role: " + s.Role + "\n")
	b.WriteString("Your focus: ONLY " + s.Focus + "\n")
	if s.Forbidden != "" {
		b.WriteString("FORBIDDEN topics: " + s.Forbidden + "\n")
	}
	if len(s.Allowed) > 0 {
		b.WriteString("\nAllowed topics:\n")
		for _, a := range s.Allowed {
			b.WriteString("- " + a + "\n")
		}
	}
	if s.Forbidden != "" {
		b.WriteString("\nNEVER discuss: " + s.Forbidden + "\n")
	}
	return b.String()
}
