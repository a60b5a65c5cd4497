package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"relo-assistant/internal/domain"
	"relo-assistant/internal/intent"
	"relo-assistant/internal/llm"
)

var (
	hotelWords    = regexp.MustCompile(`(?i)\b(hotels?|motels?|accommodation|somewhere to stay|place to stay)\b`)
	dollarAmount  = regexp.MustCompile(`\$\s*(\d+(?:,\d{3})*(?:\.\d+)?)`)
	budgetAmount  = regexp.MustCompile(`(?i)budget\s*(?:is|=|:)?\s*(\d+(?:,\d{3})*(?:\.\d+)?)`)
	isoDate       = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
	usDate        = regexp.MustCompile(`(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?`)
	monthDay      = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\s*(\d{1,2})`)
	venuePhrase   = regexp.MustCompile(`(?i)\b(?:near|at|by|around)\s+([^,]+?)(?:\s+on\s+|\.|,|$)`)
	monthPrefixes = []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}
)

// BookingQuery es lo que se pudo extraer de un pedido de hotel en texto libre.
type BookingQuery struct {
	Near   string
	Date   string
	Budget float64
}

// Payload lo convierte al mismo payload que emiten los botones de busqueda.
func (q BookingQuery) Payload() intent.Payload {
	p := intent.Payload{}
	if q.Near != "" {
		p["near"] = q.Near
	}
	if q.Date != "" {
		p["date"] = q.Date
	}
	if q.Budget > 0 {
		p["budget"] = q.Budget
	}
	return p
}

// ParseBookingQuery es best-effort: cada campo que no se reconoce queda vacio.
func ParseBookingQuery(text string, now time.Time) BookingQuery {
	q := BookingQuery{Budget: parseBudget(text), Date: parseDate(text, now)}
	if m := venuePhrase.FindStringSubmatch(text); m != nil {
		q.Near = strings.TrimSpace(m[1])
	}
	return q
}

func parseBudget(text string) float64 {
	for _, re := range []*regexp.Regexp{dollarAmount, budgetAmount} {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
				return v
			}
		}
	}
	return 0
}

func parseDate(text string, now time.Time) string {
	if m := isoDate.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := usDate.FindStringSubmatch(text); m != nil {
		year := now.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
			if len(m[3]) == 2 {
				year += 2000
			}
		}
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%d-%02d-%02d", year, month, day)
	}
	if m := monthDay.FindStringSubmatch(text); m != nil {
		prefix := strings.ToLower(m[1][:3])
		day, _ := strconv.Atoi(m[2])
		for i, p := range monthPrefixes {
			if p == prefix {
				return fmt.Sprintf("%d-%02d-%02d", now.Year(), i+1, day)
			}
		}
	}
	return ""
}

// Ask procesa texto libre en el hilo activo. Los pedidos de hotel en el hilo
// general o de alojamiento van a la busqueda; el resto se responde con el
// gateway usando el contexto del hilo.
func (d *Dispatcher) Ask(ctx context.Context, text string) DispatchResult {
	d.turn.Lock()
	defer d.turn.Unlock()

	text = strings.TrimSpace(text)
	threadID := d.store.ActiveThreadID()
	svc := d.store.ServiceOf(threadID)
	c := &call{d: d, ctx: ctx, intent: "ask", threadID: threadID, service: svc}
	c.result = DispatchResult{Intent: "ask", Service: svc, ThreadID: threadID, Class: ClassDelegated}
	if text == "" {
		return c.result
	}

	history, err := NewBasicContextService(d.store).GetContext(ctx, threadID)
	if err != nil {
		d.logger.Warn("build context", zap.String("thread_id", threadID), zap.Error(err))
	}
	user := d.store.AppendMessage(domain.RoleUser, text, threadID)
	c.result.Messages = append(c.result.Messages, user)

	d.run(c, func(c *call) {
		if (svc == domain.ServiceGeneral || svc == domain.ServiceAccommodation) && hotelWords.MatchString(text) {
			q := ParseBookingQuery(text, d.now())
			d.runHotelSearch(ctx, threadID, HotelQuery(q.Payload()), c.reply)
			return
		}

		prompt := text
		if history != "" {
			prompt = "Conversation so far:\n" + history + "\n\nLatest user message: " + text
		}
		out, err := d.generate(ctx, threadID, prompt, llm.ReasoningLow)
		if err != nil {
			d.logger.Warn("ask failed", zap.String("thread_id", threadID), zap.Error(err))
			c.reply(failureText(err))
			return
		}
		c.reply(out)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.done = true
	return c.result
}
