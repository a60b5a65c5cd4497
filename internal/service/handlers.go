package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"relo-assistant/internal/domain"
)

func (d *Dispatcher) buildHandlers() map[string]handlerEntry {
	h := make(map[string]handlerEntry)
	add := func(class HandlerClass, fn handlerFunc, names ...string) {
		for _, n := range names {
			h[n] = handlerEntry{class: class, fn: fn}
		}
	}

	add(ClassLocal, handleChooseHotel, "choose_hotel")
	add(ClassLocal, handleSelectHotel, "select_hotel", "select")
	add(ClassLocal, handleOpenURL, "open_url")
	add(ClassLocal, handlePayNow, "pay_now")
	add(ClassLocal, handleOpenCalendar, "open_calendar")
	add(ClassLocal, handleChooseDate, "choose_date", "select_date")
	add(ClassLocal, handleHouseholdSize, "set_household", "select_household_size", "choose_household", "household_size")
	add(ClassLocal, handleConfirmHouseholdSize, "confirm_household_size")
	add(ClassLocal, handleSelectVisa, "select_visa", "choose_visa")
	add(ClassLocal, handleMovingQuotes, "get_moving_quotes")
	add(ClassLocal, handleStartInventory, "start_inventory")
	add(ClassLocal, handleShowAllServices, "show_all_services")
	add(ClassLocal, handleServiceWorkflow, "service_workflow")
	add(ClassLocal, handleHousingType, "housing_type")
	add(ClassScripted, handleProvideContact, "provide_contact")
	add(ClassLocal, handleBrowseNearby, "browse_nearby")

	canned := map[string]string{
		"schedule_move":            "Opening move scheduling workflow...",
		"immigration_consultation": "I'll help you schedule a consultation with an immigration expert. They'll review your specific case and provide personalized guidance. What's the best way to reach you?",
		"pet_details_form":         "Perfect! I'll help you fill out detailed pet information. This will ensure we have everything needed for international pet travel. What type of pet are you relocating?",
		"household_survey":         "Great idea! I'll send you a virtual survey link to get a precise estimate of your belongings. This will help movers provide more accurate quotes. The survey takes about 10-15 minutes and includes a room-by-room assessment.",
		"select_pets":              "Great! I can help you with pet relocation. Let me gather some details about your pets to ensure they travel safely and meet all requirements.",
		"choose_pets":              "Great! I can help you with pet relocation. Let me gather some details about your pets to ensure they travel safely and meet all requirements.",
		"pets":                     "Great! I can help you with pet relocation. Let me gather some details about your pets to ensure they travel safely and meet all requirements.",
		"moving_shipping":          "Great! I'll help you with shipping and moving your belongings. Let me start by understanding what you need to move.",
		"moving_and_shipping":      "Great! I'll help you with shipping and moving your belongings. Let me start by understanding what you need to move.",
		"moving":                   "Great! I'll help you with shipping and moving your belongings. Let me start by understanding what you need to move.",
		"shipping":                 "Great! I'll help you with shipping and moving your belongings. Let me start by understanding what you need to move.",
		"visa_immigration":         "Perfect! I'm here to help with your visa and immigration needs. Let me understand your specific situation.",
		"visa_and_immigration":     "Perfect! I'm here to help with your visa and immigration needs. Let me understand your specific situation.",
		"immigration":              "Perfect! I'm here to help with your visa and immigration needs. Let me understand your specific situation.",
		"pet_relocation":           "Wonderful! I'll help you relocate your pets safely. Pet relocation requires careful planning and documentation.",
		"finance_taxes":            "Excellent! I'll help you set up your finances in your new location. This includes banking, taxes and money transfers.",
		"finance_and_taxes":        "Excellent! I'll help you set up your finances in your new location. This includes banking, taxes and money transfers.",
		"finance":                  "Excellent! I'll help you set up your finances in your new location. This includes banking, taxes and money transfers.",
		"healthcare":               "Important! I'll help you set up healthcare in your new location. This includes insurance, finding doctors and transferring records.",
		"transportation":           "Smart planning! I'll help you with transportation options in your new city. This includes licensing, vehicles and public transport.",
		"education":                "Great! I'll help you with education and schooling needs for your family. Let me understand your requirements.",
		"housing":                  "Perfect! I'll help you find the right housing in your new location. Let me understand your preferences.",
	}
	for name, text := range canned {
		add(ClassLocal, cannedReply(text), name)
	}

	add(ClassScripted, handleHouseholdGoods, "set_household_goods")
	add(ClassScripted, handleShippingType, "shipping_type")
	add(ClassScripted, handleSetPetType, "set_pet_type")
	add(ClassScripted, handleProfileNote, "set_children", "set_work_status")
	add(ClassScripted, handlePetDetail, "set_pet_count", "set_pet_size", "set_pet_lifestyle", "set_bird_type", "set_exotic_type")
	add(ClassScripted, handleVisaStatus, "visa_status")
	add(ClassScripted, handleStatusDetails, "set_job_status", "set_family_relationship", "set_school_status", "prepare_arrival_docs")
	add(ClassScripted, handleConnectPartner, "connect_immigration_partner", "connect_with_specialist", "immigration_specialist")
	add(ClassScripted, handleAccommodationType, "select_accommodation_type", "select_nyc_area")
	add(ClassScripted, handleAccommodationBudget, "set_accommodation_budget", "set_accommodation_duration")
	add(ClassScripted, handleMoveType, "select_move_type", "set_move_type", "choose_move_type")
	add(ClassScripted, handleMoveTimeline, "set_move_timeline", "confirm_move_date")

	add(ClassDelegated, handleHotelSearch, "search_hotels", "start_search", "start_hotel_search")
	add(ClassDelegated, handleTemporaryHousing, "temporary_housing")
	return h
}

func cannedReply(text string) handlerFunc {
	return func(c *call) { c.reply(text) }
}

func handleChooseHotel(c *call) {
	id := c.payload.Str("id")
	if _, isString := c.payload["id"].(string); !isString || id == "" {
		c.reply("I could not determine which hotel to choose.")
		return
	}
	if c.d.chooseFromSelection(c, id) {
		return
	}

	name := c.payload.Str("name")
	price := 0.0
	if c.payload.Has("price") {
		n, ok := c.payload.Number("price")
		if !ok {
			name = ""
		}
		price = n
	}
	if name == "" {
		c.reply("That hotel is not part of the current selection.")
		return
	}

	address := c.payload.Str("address")
	msg := c.reply("Great choice. Here is your booking summary:")
	c.d.store.UpsertStep(domain.TimelineStep{
		ID:             c.d.store.NewStepID(domain.StepBookingSummary),
		Kind:           domain.StepBookingSummary,
		Status:         domain.StatusInProgress,
		AfterMessageID: msg.ID,
		ThreadID:       c.threadID,
		Data: domain.BookingSummaryData{
			Venue: domain.Venue{Name: strOr(c.payload.Str("near"), "Selected area"), Address: address},
			Hotel: domain.HotelOption{ID: id, Name: name, Price: price, Address: address},
			Date:  domain.StringOr(c.plan().SelectedDate, ""),
		},
	})
}

func handleSelectHotel(c *call) {
	id := c.payload.Str("id")
	if _, isString := c.payload["id"].(string); !isString || id == "" {
		c.reply("I could not determine which hotel to choose.")
		return
	}
	if !c.d.chooseFromSelection(c, id) {
		c.reply("That hotel is not part of the current selection.")
	}
}

// chooseFromSelection resuelve la eleccion contra el ultimo MapCard y la
// ultima HotelSelection de la timeline.
func (d *Dispatcher) chooseFromSelection(c *call, id string) bool {
	mapStep, ok := d.store.LatestStep(domain.StepMapCard)
	if !ok {
		return false
	}
	selStep, ok := d.store.LatestStep(domain.StepHotelSelection)
	if !ok {
		return false
	}
	mapData, ok := mapStep.Data.(domain.MapCardData)
	if !ok {
		return false
	}
	selData, ok := selStep.Data.(domain.HotelSelectionData)
	if !ok {
		return false
	}
	for _, h := range selData.Hotels {
		if h.ID != id {
			continue
		}
		msg := c.reply("Great choice. Here is your booking summary:")
		d.store.UpsertStep(domain.TimelineStep{
			ID:             d.store.NewStepID(domain.StepBookingSummary),
			Kind:           domain.StepBookingSummary,
			Status:         domain.StatusInProgress,
			AfterMessageID: msg.ID,
			ThreadID:       c.threadID,
			Data:           domain.BookingSummaryData{Venue: mapData.Venue, Hotel: h, Date: domain.StringOr(c.plan().SelectedDate, "")},
		})
		d.store.UpdateRelocationPlan(domain.RelocationPlan{
			HotelName:    domain.Ptr(h.Name),
			HotelAddress: domain.Ptr(h.Address),
			Budget:       domain.Ptr(h.Price),
		})
		return true
	}
	return false
}

var linkTemplate = template.Must(template.New("link").Parse(
	`<section><p><a href="{{.}}" target="_blank" rel="noopener noreferrer">Open link</a></p></section>`))

func handleOpenURL(c *call) {
	url := strings.TrimSpace(c.payload.Str("url"))
	if !strings.HasPrefix(strings.ToLower(url), "https://") {
		c.reply("(demo) Could not open URL")
		return
	}
	var buf bytes.Buffer
	if err := linkTemplate.Execute(&buf, url); err != nil {
		c.reply("(demo) Could not open URL")
		return
	}
	c.reply(buf.String())
}

func handlePayNow(c *call) {
	amount, ok := c.payload.Number("amount")
	if !ok || amount <= 0 {
		c.reply("Payment amount missing.")
		return
	}

	hotel := domain.HotelOption{ID: "selected", Name: "Selected Hotel", Price: amount}
	summary, hasSummary := c.d.store.LatestStep(domain.StepBookingSummary)
	if hasSummary {
		if data, ok := summary.Data.(domain.BookingSummaryData); ok {
			hotel = data.Hotel
		}
	}

	ref := c.d.newRef()
	msg := c.reply("Payment successful. Confirmation: " + ref)
	c.d.store.UpsertStep(domain.TimelineStep{
		ID:             c.d.store.NewStepID(domain.StepConfirmation),
		Kind:           domain.StepConfirmation,
		Status:         domain.StatusCompleted,
		AfterMessageID: msg.ID,
		ThreadID:       c.threadID,
		Data:           domain.ConfirmationData{Reference: ref, Hotel: hotel},
	})
	if hasSummary {
		c.d.store.CompleteStep(summary.ID)
	}
	c.update(domain.RelocationPlan{HotelConfirmation: domain.Ptr(ref)})
}

const defaultMoveDate = "2025-09-01"

func handleOpenCalendar(c *call) {
	c.d.workflows.DatePicker(c.threadID, strOr(c.payload.Str("date"), defaultMoveDate))
}

func handleChooseDate(c *call) {
	date := c.payload.First("date", "value")
	if date == "from-input" {
		date = strOr(c.payload.Str("input"), defaultMoveDate)
	}
	if date == "" {
		c.reply("Please provide a date.")
		return
	}
	c.update(domain.RelocationPlan{SelectedDate: domain.Ptr(date)})
	if date == "flexible" {
		c.reply("Great! I've noted that you're flexible with dates. This will help me find better options for accommodations and travel.")
		return
	}
	c.reply(fmt.Sprintf("Perfect! Your moving date is set for %s. I'll use this to coordinate all your relocation services.", formatDate(date)))
}

// formatDate muestra fechas ISO en formato largo; cualquier otra cosa se deja tal cual.
func formatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2, 2006")
}

func householdNoted(size int) string {
	return fmt.Sprintf("Perfect! I've noted your household size: %d people. This helps me plan your shipping, housing, and other services accordingly.", size)
}

func handleHouseholdSize(c *call) {
	n, ok := c.payload.Number("size")
	if !ok || n <= 0 {
		n, ok = c.payload.Number("value")
	}
	if !ok || n <= 0 {
		c.d.workflows.HouseholdSelection(c.threadID)
		return
	}
	c.update(domain.RelocationPlan{HouseholdSize: domain.Ptr(int(n))})
	c.reply(householdNoted(int(n)))
}

func handleConfirmHouseholdSize(c *call) {
	n, ok := c.payload.Number("size")
	if !ok || n <= 0 {
		c.reply("Please select a valid household size")
		return
	}
	c.update(domain.RelocationPlan{HouseholdSize: domain.Ptr(int(n))})
	c.reply(householdNoted(int(n)))
}

func handleSelectVisa(c *call) {
	hasVisa := c.payload.Str("hasVisa") == "yes" || c.payload.Str("value") == "yes"
	status := c.payload.Str("status")
	if status == "" {
		status = "need_help"
		if hasVisa {
			status = "have_visa"
		}
	}
	c.update(domain.RelocationPlan{HasVisa: domain.Ptr(hasVisa), VisaStatus: domain.Ptr(status)})
	if hasVisa {
		c.reply("Visa already obtained")
	} else {
		c.reply("Visa assistance needed")
	}
}

func handleMovingQuotes(c *call) {
	c.d.workflows.MovingQuotes(c.threadID)
}

func handleStartInventory(c *call) {
	c.d.workflows.Inventory(c.threadID)
}

// handleShowAllServices publica el resumen en el hilo general y lo activa.
func handleShowAllServices(c *call) {
	c.threadID = domain.GeneralThreadID
	_ = c.d.store.SwitchToThread(domain.GeneralThreadID)
	c.d.workflows.AllServices(c.threadID)
}

func handleServiceWorkflow(c *call) {
	svc := domain.ServiceCategory(c.payload.Str("service"))
	switch {
	case svc == domain.ServiceImmigration:
		c.d.workflows.ImmigrationChecklist(c.threadID)
	case svc == domain.ServiceShipping:
		c.d.workflows.ShippingPlan(c.threadID, 2)
	case svc.Valid() && svc != domain.ServiceGeneral:
		th, created := c.d.store.GetOrCreateServiceThread(svc)
		_ = c.d.store.SwitchToThread(th.ID)
		c.threadID = th.ID
		if !created {
			c.reply("Welcome back! Let's pick up where we left off.")
		}
	default:
		c.reply(fmt.Sprintf("%s workflow coming soon...", strOr(string(svc), "This")))
	}
}

func handleHousingType(c *call) {
	pref := c.payload.Str("preference")
	if pref != "" {
		c.update(domain.RelocationPlan{AccommodationType: domain.Ptr(pref)})
	}
	c.reply(fmt.Sprintf("Excellent! I've noted your preference for: %s. I'll connect you with local real estate agents and provide resources specific to your housing needs. What's your target budget range?", strOr(pref, "your housing")))
}

func handleHouseholdGoods(c *call) {
	desc := c.payload.Str("description")
	if desc == "" {
		c.stay()
		c.reply("I need your household size to estimate the shipping volume. Please pick one of these options.")
		c.later(c.d.delays.FollowUp, func(context.Context) {
			c.d.workflows.HouseholdSize(c.threadID)
		})
		return
	}
	c.d.store.AppendSpecialRequirement("Household: " + desc)
	c.reply(fmt.Sprintf("Perfect! I've noted your household size as: %s. This helps me estimate shipping volume.", desc))
	if c.advance() {
		c.later(c.d.delays.Long, func(context.Context) {
			c.d.workflows.ShippingType(c.threadID, desc)
		})
	}
}

func handleShippingType(c *call) {
	desc := c.payload.Str("description")
	if desc == "" {
		c.stay()
		c.reply("I need to know what you're shipping before I can continue. Please choose a shipping type.")
		return
	}
	c.d.store.AppendSpecialRequirement("Shipping: " + desc)
	c.reply(fmt.Sprintf("Perfect! You're shipping: %s. I now have all the information needed to help you.", desc))
	if c.advance() {
		c.later(c.d.delays.Long, func(context.Context) {
			c.d.workflows.ShippingNextSteps(c.threadID)
		})
	}
}

func handleSetPetType(c *call) {
	petType := strOr(c.payload.Str("type"), "pet")
	details := strOr(c.payload.Str("details"), petType+" relocation")
	hasPets := petType != "none" && c.payload.Str("count") != "0"
	c.update(domain.RelocationPlan{HasPets: domain.Ptr(hasPets), PetDetails: domain.Ptr(details)})

	f, ok := petCards[petType]
	if !ok {
		c.reply("Thanks! Tell me a bit more about your pet so I can check the travel requirements for your route.")
		return
	}
	c.reply(f.ack)
	if c.advance() {
		c.later(c.d.delays.FollowUp, func(context.Context) {
			c.d.workflows.PetDetails(c.threadID, petType)
		})
	}
}

// handlePetDetail completa el perfil de la mascota y cierra el workflow del hilo.
func handlePetDetail(c *call) {
	details := c.payload.First("details", "count", "size", "lifestyle", "bird_type", "exotic_type")
	if details == "" {
		c.reply("I couldn't read that answer. Could you pick one of the options again?")
		return
	}
	c.d.store.AppendSpecialRequirement("Pet: " + details)
	c.reply(fmt.Sprintf("Got it! I've added %q to your pet's travel profile.", details))
	if c.advance() {
		c.later(c.d.delays.FollowUp, func(context.Context) {
			c.d.workflows.PetNextSteps(c.threadID)
		})
	}
}

// handleProfileNote registra datos del hogar que no pertenecen a ningun workflow.
func handleProfileNote(c *call) {
	if c.payload.Str("details") == "" {
		c.reply("I couldn't read that answer. Could you pick one of the options again?")
		return
	}
	c.reply("Thanks! I've added that to your relocation profile.")
}

func handleVisaStatus(c *call) {
	status := strOr(c.payload.Str("status"), "unknown")
	c.update(domain.RelocationPlan{VisaStatus: domain.Ptr(status)})

	f, ok := visaCards[status]
	if !ok {
		c.reply("Thanks! Tell me a bit more about your immigration situation so I can point you to the right visa path.")
		return
	}
	c.reply(f.ack(c.plan()))
	if c.advance() {
		c.later(c.d.delays.FollowUp, func(context.Context) {
			c.d.workflows.VisaDetails(c.threadID, status)
		})
	}
}

func handleStatusDetails(c *call) {
	details := strOr(c.payload.Str("details"), "immigration information")
	c.update(domain.RelocationPlan{ImmigrationStatus: domain.Ptr(details)})
	c.reply("Perfect! I've captured that information. Let me now guide you through the next steps in your immigration process and connect you with the right specialists.")
	if c.advance() {
		c.later(c.d.delays.Long, func(ctx context.Context) {
			c.d.connectPartner(ctx, c.threadID, c.post)
		})
	}
}

func handleConnectPartner(c *call) {
	c.d.connectPartner(c.ctx, c.threadID, c.reply)
}

func handleAccommodationType(c *call) {
	details := strOr(c.payload.Str("details"), "accommodation preference")
	c.update(domain.RelocationPlan{AccommodationType: domain.Ptr(details)})
	c.reply(fmt.Sprintf("Excellent choice! I've noted your preference for %s. Now let me gather your budget and timeline to find the best options for you.", details))
	if c.advance() {
		c.later(c.d.delays.FollowUp, func(context.Context) {
			c.d.workflows.AccommodationBudget(c.threadID)
		})
	}
}

func handleAccommodationBudget(c *call) {
	details := strOr(c.payload.Str("details"), "preference")
	isBudget := c.payload.Str("budget") != ""
	if isBudget {
		c.update(domain.RelocationPlan{AccommodationBudget: domain.Ptr(details)})
	}
	if c.payload.Str("duration") != "" {
		c.update(domain.RelocationPlan{AccommodationDuration: domain.Ptr(details)})
	}

	what, missing := "timeline", "budget"
	if isBudget {
		what, missing = "budget", "timeline"
	}
	plan := c.plan()
	if plan.AccommodationBudget == nil || plan.AccommodationDuration == nil {
		c.reply(fmt.Sprintf("Perfect! I've captured your %s: %s. Please also select your %s so I can find the best options for you.", what, details, missing))
		return
	}
	c.reply(fmt.Sprintf("Perfect! I've captured your %s: %s. Now I have both your budget and timeline. Let me search for live availability that matches your preferences.", what, details))
	if c.advance() {
		query := accommodationQuery(plan)
		c.later(c.d.delays.Long, func(ctx context.Context) {
			c.d.searchHotels(ctx, c.threadID, query)
		})
	}
}

func accommodationQuery(plan domain.RelocationPlan) string {
	parts := []string{domain.StringOr(plan.AccommodationType, "temporary accommodation")}
	parts = append(parts, "in "+domain.StringOr(plan.ToCity, "New York"))
	parts = append(parts, "budget "+domain.StringOr(plan.AccommodationBudget, "flexible"))
	parts = append(parts, "for "+domain.StringOr(plan.AccommodationDuration, "a flexible stay"))
	return strings.Join(parts, " ")
}

var moveTypeFollowUps = map[string]string{
	"interstate":    "For interstate moves, I'll need to coordinate between states and ensure all regulations are met. Let's set your timeline and get quotes from licensed interstate carriers.",
	"international": "International moves require customs documentation and specialized carriers. I'll help coordinate customs clearance and delivery to your destination country.",
	"local":         "Local moves are simpler but still need proper planning. Let's schedule your move date and arrange local moving services.",
}

func handleMoveType(c *call) {
	moveType := c.payload.First("type", "value")
	if moveType == "" {
		parts := strings.Split(c.intent, "_")
		moveType = parts[len(parts)-1]
	}
	if moveType == "type" {
		c.reply("Which kind of move is it: local, interstate or international?")
		return
	}
	c.update(domain.RelocationPlan{MoveType: domain.Ptr(moveType)})
	c.reply(fmt.Sprintf("Perfect! %s move noted. Now let me help you with the next steps to get accurate quotes and coordinate your %s relocation.", moveType, moveType))
	if text, ok := moveTypeFollowUps[moveType]; ok {
		c.later(c.d.delays.FollowUp, func(context.Context) { c.post(text) })
	}
}

func handleMoveTimeline(c *call) {
	date := c.payload.First("date", "value")
	if date == "" {
		c.reply("Please provide a date.")
		return
	}
	c.update(domain.RelocationPlan{SelectedDate: domain.Ptr(date)})
	c.reply(fmt.Sprintf("Move date confirmed for %s. Now I'll coordinate all your relocation services around this timeline. Let's continue with getting quotes and booking your services.", date))
	c.later(c.d.delays.Long, func(context.Context) {
		c.post("Next, I recommend we get quotes and start your service bookings. Would you like me to line up verified providers and preliminary estimates?")
	})
}

func handleTemporaryHousing(c *call) {
	plan := c.plan()
	toCity := domain.StringOr(plan.ToCity, "your destination")
	from := ""
	if plan.FromCity != nil && *plan.FromCity != "" {
		from = " from " + *plan.FromCity
	}
	c.reply(fmt.Sprintf("Perfect! I'll help you find temporary accommodation for your first month in %s. Let me gather your preferences and show you the best options.", toCity))

	prompt := fmt.Sprintf(`Create a temporary accommodation search interface for someone moving to %s%s.

Generate HTML with:
1. Accommodation type options (extended stay hotels, serviced apartments, corporate housing, monthly rentals)
2. Area/neighborhood options specific to %s (use real neighborhoods of that city, not generic locations)
3. Services overview

Use data-intent attributes on buttons:
- "select_accommodation_type" with type and details payload
- "select_nyc_area" with area and details payload`, toCity, from, toCity)
	fallback := fmt.Sprintf("I'll help you find temporary accommodation in %s. What type of accommodation do you prefer: extended stay hotels, serviced apartments, corporate housing or monthly rentals?", toCity)
	c.delayedGeneration(c.d.delays.FollowUp, prompt, fallback)
}

var naturalIntents = map[string]string{
	"choose_location":       "choosing a location",
	"select_location":       "selecting a location",
	"pick_location":         "picking a location",
	"pick_date":             "picking a date",
	"set_household_size":    "setting household size",
	"choose_household_size": "choosing household size",
}

// handleDefault cubre los intents sin handler propio: captura tipo de
// mudanza, fecha o tamaño si vienen en el payload y continua con el gateway.
func handleDefault(c *call) {
	p := c.payload
	handled := false
	for _, mt := range []string{"interstate", "international", "local"} {
		if strings.Contains(c.intent, mt) || p.Str("type") == mt || p.Str("value") == mt {
			c.update(domain.RelocationPlan{MoveType: domain.Ptr(mt)})
			c.reply(moveTypeNoted[mt])
			handled = true
			break
		}
	}
	if !handled && p.Str("date") != "" {
		date := p.Str("date")
		c.update(domain.RelocationPlan{SelectedDate: domain.Ptr(date)})
		c.reply(fmt.Sprintf("Move date confirmed for %s. Now I'll coordinate all your relocation services around this timeline. Let's continue with getting quotes and booking your services.", date))
		handled = true
	}
	if n, ok := p.Number("size"); !handled && ok && n > 0 {
		c.update(domain.RelocationPlan{HouseholdSize: domain.Ptr(int(n))})
		c.reply(fmt.Sprintf("Household size noted: %d people. This helps me plan your shipping, housing, and other services accordingly.", int(n)))
		handled = true
	}

	svc := c.d.store.ServiceOf(c.threadID)
	switch {
	case handled:
		c.delayedGeneration(c.d.delays.Long, fmt.Sprintf(
			"User just provided: %s with %s. Continue guiding them through their %s workflow with the next logical step. Be specific and actionable. Stay focused ONLY on %s-related topics.",
			c.intent, p.JSON(), svc, svc), "")
	case !p.Empty():
		c.reply("Got it! I've noted your selection. Let me continue helping you with the next steps in your relocation process.")
		c.delayedGeneration(c.d.delays.FollowUp, fmt.Sprintf(
			"User selected: %s with data: %s. Continue the conversation by providing the next logical step in their %s workflow. Be specific and actionable. Stay focused ONLY on %s-related topics.",
			c.intent, p.JSON(), svc, svc), "")
	default:
		natural, ok := naturalIntents[c.intent]
		if !ok {
			natural = strings.ReplaceAll(c.intent, "_", " ")
		}
		c.reply(fmt.Sprintf("I understand you want help with %s. Let me see how I can assist you with that.", natural))
	}
}

var moveTypeNoted = map[string]string{
	"interstate":    "Perfect! Interstate move noted. I'll coordinate your move between states and ensure all regulations are met. Let's set your timeline and get quotes from licensed interstate carriers.",
	"international": "Perfect! International move noted. This requires customs documentation and specialized carriers. I'll help coordinate customs clearance and delivery to your destination country.",
	"local":         "Perfect! Local move noted. Local moves are simpler but still need proper planning. Let's schedule your move date and arrange local moving services.",
}

func strOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
