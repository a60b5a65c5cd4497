package service

import (
	"fmt"

	"relo-assistant/internal/domain"
	"relo-assistant/internal/geo"
)

// handleBrowseNearby filtra el inventario local por distancia a pie y deja el
// contexto de seleccion que usan select_hotel y choose_hotel.
func handleBrowseNearby(c *call) {
	venue := geo.Geocode(strOr(c.payload.Str("near"), "Javits Center"))
	budget, hasBudget := c.payload.Number("budget")
	if !hasBudget || budget <= 0 {
		budget, hasBudget = 0, false
	}
	hotels, radius := geo.Nearby(venue, budget)

	update := domain.RelocationPlan{}
	if date := c.payload.Str("date"); date != "" {
		update.SelectedDate = domain.Ptr(date)
	}
	if hasBudget {
		update.Budget = domain.Ptr(budget)
	}
	if update.SelectedDate != nil || update.Budget != nil {
		c.update(update)
	}

	if len(hotels) == 0 {
		c.reply(fmt.Sprintf("I couldn't find hotels within a %d minute walk of %s that match your budget. Try a higher budget or a different venue.",
			geo.WalkMinutes(float64(radius)), venue.Name))
		return
	}

	msg := c.reply(fmt.Sprintf("Here are %d hotels within a %d minute walk of %s:", len(hotels), geo.WalkMinutes(float64(radius)), venue.Name))
	c.d.store.UpsertStep(domain.TimelineStep{
		ID:             c.d.store.NewStepID(domain.StepMapCard),
		Kind:           domain.StepMapCard,
		Status:         domain.StatusCompleted,
		AfterMessageID: msg.ID,
		ThreadID:       c.threadID,
		Data:           domain.MapCardData{Venue: venue, Hotels: hotels, RadiusMeters: radius},
	})
	sel := domain.HotelSelectionData{Hotels: hotels}
	if hasBudget {
		sel.Budget = domain.Ptr(budget)
	}
	c.d.store.UpsertStep(domain.TimelineStep{
		ID:             c.d.store.NewStepID(domain.StepHotelSelection),
		Kind:           domain.StepHotelSelection,
		Status:         domain.StatusInProgress,
		AfterMessageID: msg.ID,
		ThreadID:       c.threadID,
		Data:           sel,
	})
}
