package service

import (
	"context"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	"relo-assistant/internal/cache"
	"relo-assistant/internal/domain"
	"relo-assistant/internal/fragment"
	"relo-assistant/internal/intent"
	"relo-assistant/internal/llm"
)

const (
	searchingHTML = `<section><p>🔍 Searching hotels...</p></section>`
	searchDoneHTML = `<section><p>✅ Hotel search finished</p></section>`

	hotelFactsInstructions = "Return concise bullet context of hotel candidates with names, addresses, prices if available, and distances if present. Include absolute https source links."

	hotelFormatPrompt = `Using only these web results, render a hotel results card with up to 4 options.
Include for each: name, short subtitle (area or address), optional price, optional distance/walk time.
Each option must include a Select button with data-intent="choose_hotel" and a data-payload JSON that includes {id,name,price,address,near}.
Include a small "Sources" footer with links. Results:
`
)

// HotelQuery arma la consulta normalizable a partir del payload. Un campo
// query explicito pisa a los parametros estructurados.
func HotelQuery(p intent.Payload) string {
	if q := p.Str("query"); q != "" {
		return q
	}
	near := " near Javits Center"
	if v := p.Str("near"); v != "" {
		near = " near " + v
	}
	walk := " within 10 minute walk"
	if v := p.Str("walk"); v != "" {
		walk = " within " + v
	}
	date := ""
	if v := p.Str("date"); v != "" {
		date = " available " + v
	}
	budget := ""
	if v := p.Str("budget"); v != "" {
		budget = " under $" + v
	}
	return "hotels" + near + walk + date + budget
}

func handleHotelSearch(c *call) {
	c.d.runHotelSearch(c.ctx, c.threadID, HotelQuery(c.payload), c.reply)
}

// searchHotels corre la busqueda desde un follow-up diferido.
func (d *Dispatcher) searchHotels(ctx context.Context, threadID, query string) {
	d.runHotelSearch(ctx, threadID, query, func(text string) domain.Message {
		return d.store.AppendMessage(domain.RoleAssistant, text, threadID)
	})
}

// runHotelSearch es read-through: un hit republica el fragmento sin tocar el
// gateway; un miss muestra el placeholder, hace las dos llamadas y solo
// cachea si ambas salieron bien. Misses concurrentes de la misma consulta
// comparten una sola llamada. El resultado vive solo en el mensaje; el
// placeholder se cierra con una linea de estado.
func (d *Dispatcher) runHotelSearch(ctx context.Context, threadID, query string, say func(string) domain.Message) {
	key := cache.NormalizeKey(query)
	cached, hit, err := d.cache.Get(ctx, key)
	if err != nil {
		d.logger.Warn("hotel cache read failed", zap.String("query", key), zap.Error(err))
	}
	if hit {
		say(cached)
		return
	}

	placeholderID := d.store.NewStepID(domain.StepHTMLCard)
	d.store.UpsertStep(domain.TimelineStep{
		ID:       placeholderID,
		Kind:     domain.StepHTMLCard,
		Title:    "Hotel search",
		Status:   domain.StatusInProgress,
		ThreadID: threadID,
		Data:     domain.HTMLCardData{HTML: searchingHTML},
	})

	v, err, _ := d.searches.Do(key, func() (any, error) {
		html, err := d.renderHotelResults(ctx, threadID, query)
		if err != nil {
			return "", err
		}
		if err := d.cache.Set(ctx, key, html); err != nil {
			d.logger.Warn("hotel cache write failed", zap.String("query", key), zap.Error(err))
		}
		return html, nil
	})

	var html string
	if err != nil {
		d.logger.Warn("hotel search failed", zap.String("thread_id", threadID), zap.String("query", key), zap.Error(err))
		html = fmt.Sprintf("<section><p>❌ Search failed: %s</p></section>", template.HTMLEscapeString(err.Error()))
	} else {
		html = v.(string)
	}
	msg := say(html)
	d.store.UpsertStep(domain.TimelineStep{
		ID:             placeholderID,
		AfterMessageID: msg.ID,
		Data:           domain.HTMLCardData{HTML: searchDoneHTML},
	})
	d.store.CompleteStep(placeholderID)
}

// renderHotelResults hace la busqueda con herramientas y despues el formateo
// restringido a un solo fragmento.
func (d *Dispatcher) renderHotelResults(ctx context.Context, threadID, query string) (string, error) {
	if d.gateway == nil {
		return "", llm.ErrNotConfigured
	}
	facts, err := d.gateway.Generate(ctx, query, llm.GenerateOptions{
		Instructions: hotelFactsInstructions,
		Tools:        []llm.Tool{llm.WebSearchTool},
	})
	if err != nil {
		return "", fmt.Errorf("search stage: %w", err)
	}
	if !llm.IsUsable(facts) {
		return "", fmt.Errorf("search stage: %w", errNoUsableAnswer)
	}

	raw, err := d.gateway.Generate(ctx, hotelFormatPrompt+facts, llm.GenerateOptions{
		Instructions: ServiceInstructions(d.catalog, d.store.ServiceOf(threadID)),
	})
	if err != nil {
		return "", fmt.Errorf("format stage: %w", err)
	}
	if !llm.IsUsable(raw) {
		return "", fmt.Errorf("format stage: %w", errNoUsableAnswer)
	}
	html := fragment.Enforce(fragment.CleanFences(raw))
	if html == "" {
		return "", fmt.Errorf("format stage: %w", errNoUsableAnswer)
	}
	return html, nil
}
