package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"relo-assistant/internal/domain"
)

// cardChoice es un boton que dispara un intent con su payload.
type cardChoice struct {
	Label   string
	Intent  string
	Payload map[string]any
}

func (c cardChoice) PayloadJSON() string {
	if c.Payload == nil {
		return "{}"
	}
	b, err := json.Marshal(c.Payload)
	if err != nil {
		return "{}"
	}
	return string(b)
}

type cardGroup struct {
	Heading string
	Text    string
	Choices []cardChoice
}

// card es la forma comun de los fragmentos de eleccion: un unico <section>,
// botones con data-intent/data-payload y ningun script.
type card struct {
	Title      string
	Lead       string
	DateInput  string
	Groups     []cardGroup
	NotesTitle string
	Notes      []string
}

var cardTemplate = template.Must(template.New("card").Parse(`<section class="relo-card">
<h3>{{.Title}}</h3>
{{- with .Lead}}
<p>{{.}}</p>
{{- end}}
{{- with .DateInput}}
<input type="date" name="date" value="{{.}}">
{{- end}}
{{- range .Groups}}
<div class="relo-group">
{{- with .Heading}}
<h4>{{.}}</h4>
{{- end}}
{{- with .Text}}
<p>{{.}}</p>
{{- end}}
{{- range .Choices}}
<button type="button" data-intent="{{.Intent}}" data-payload='{{.PayloadJSON}}'>{{.Label}}</button>
{{- end}}
</div>
{{- end}}
{{- if .Notes}}
<div class="relo-notes">
{{- with .NotesTitle}}
<h4>{{.}}</h4>
{{- end}}
<ul>
{{- range .Notes}}
<li>{{.}}</li>
{{- end}}
</ul>
</div>
{{- end}}
</section>`))

// HTML renderiza la tarjeta. Si el template falla se degrada a un parrafo con el titulo.
func (c card) HTML() string {
	var buf bytes.Buffer
	if err := cardTemplate.Execute(&buf, c); err != nil {
		return "<section><p>" + template.HTMLEscapeString(c.Title) + "</p></section>"
	}
	return buf.String()
}

func choice(label, intentName string, payload map[string]any) cardChoice {
	return cardChoice{Label: label, Intent: intentName, Payload: payload}
}

func sizeChoice(label, size, description string) cardChoice {
	return choice(label, "set_household_goods", map[string]any{"size": size, "description": description, "step": "size_selected"})
}

func householdSizeCard() card {
	return card{
		Title: "📦 Shipping Assessment",
		Lead:  "Let's start by understanding the size of your current living space to estimate shipping volume.",
		Groups: []cardGroup{{
			Heading: "What's your current household size?",
			Choices: []cardChoice{
				sizeChoice("🏠 Studio", "studio", "Studio apartment (1-2 rooms)"),
				sizeChoice("🏠 1-Bedroom", "1br", "1-bedroom apartment"),
				sizeChoice("🏠 2-Bedroom", "2br", "2-bedroom apartment"),
				sizeChoice("🏡 3-Bedroom", "3br", "3-bedroom house"),
				sizeChoice("🏡 4+ Bedrooms", "4br", "4+ bedroom house"),
				choice("📊 Virtual Survey", "household_survey", map[string]any{"action": "virtual_survey", "step": "survey_selected"}),
			},
		}},
	}
}

func typeChoice(label, kind, description string) cardChoice {
	return choice(label, "shipping_type", map[string]any{"type": kind, "description": description, "step": "type_selected"})
}

func shippingTypeCard(household string) card {
	return card{
		Title: "📦 What Are You Shipping?",
		Lead:  fmt.Sprintf("Great! You selected %s. Now, what type of items do you plan to ship?", household),
		Groups: []cardGroup{{
			Heading: "Choose your shipping category:",
			Choices: []cardChoice{
				typeChoice("📦 Everything", "full_household", "Complete household"),
				typeChoice("⭐ Essentials only", "essentials_only", "Essentials only"),
				typeChoice("🛋️ Furniture only", "furniture_only", "Furniture only"),
				typeChoice("📄 Docs & valuables", "documents_valuables", "Documents & valuables"),
			},
		}},
	}
}

func shippingPlanCard(size int, plan domain.RelocationPlan) card {
	people := "people"
	if size == 1 {
		people = "person"
	}
	from := domain.StringOr(plan.FromCity, "your origin")
	to := domain.StringOr(plan.ToCity, "your destination")
	return card{
		Title: "📦 Shipping & Moving Plan",
		Lead:  fmt.Sprintf("For %d %s • %s → %s", size, people, from, to),
		Groups: []cardGroup{
			{
				Heading: "Step 1: Research Moving Companies",
				Text:    "Get quotes from international movers and verify insurance coverage",
				Choices: []cardChoice{choice("Get Quotes", "get_moving_quotes", map[string]any{"householdSize": size})},
			},
			{
				Heading: "Step 2: Create Inventory",
				Text:    "Document items, take photos, decide what to ship vs sell",
				Choices: []cardChoice{choice("Start Inventory", "start_inventory", map[string]any{"householdSize": size})},
			},
			{
				Heading: "Step 3: Schedule & Pack",
				Text:    "Book dates 2-3 months ahead, arrange professional packing",
				Choices: []cardChoice{choice("Schedule Move", "schedule_move", map[string]any{"householdSize": size})},
			},
		},
		NotesTitle: "💡 Tip",
		Notes:      []string{"Transit time: 4-8 weeks for international shipping"},
	}
}

func movingQuotesCard() card {
	return card{
		Title: "🚚 Moving Company Quotes",
		Groups: []cardGroup{
			{
				Heading: "Atlas Van Lines",
				Text:    "⭐ 4.8 • Full service • Insurance included • $4,200 - $6,800",
				Choices: []cardChoice{choice("Select Atlas", "select_mover", map[string]any{"company": "Atlas Van Lines", "price": "4200-6800", "features": []string{"full_service", "insurance"}})},
			},
			{
				Heading: "Crown Relocations",
				Text:    "⭐ 4.6 • International specialist • 90 countries • $5,500 - $8,200",
				Choices: []cardChoice{choice("Select Crown", "select_mover", map[string]any{"company": "Crown Relocations", "price": "5500-8200", "features": []string{"international", "premium"}})},
			},
			{
				Choices: []cardChoice{
					choice("Get Custom Quote", "get_custom_quote", map[string]any{"service": "moving"}),
					choice("Next: Inventory", "start_inventory", map[string]any{"service": "shipping", "step": "inventory"}),
				},
			},
		},
		NotesTitle: "💰 Cost Breakdown",
		Notes:      []string{"Packing: $800-1,200", "Shipping: $2,800-4,500", "Insurance: $300-600", "Customs: $200-500"},
	}
}

func inventoryCard() card {
	room := func(label, id string) cardChoice {
		return choice(label, "inventory_room", map[string]any{"room": id})
	}
	return card{
		Title: "📋 Inventory Management",
		Groups: []cardGroup{
			{
				Heading: "Room-by-Room Checklist",
				Choices: []cardChoice{room("🛋️ Living Room", "living_room"), room("🛏️ Bedroom", "bedroom"), room("🍽️ Kitchen", "kitchen"), room("💻 Office", "office")},
			},
			{
				Heading: "⚠️ Special Items",
				Text:    "High-value, fragile, or restricted items need special handling",
				Choices: []cardChoice{
					choice("💎 Valuables", "special_items", map[string]any{"category": "valuable"}),
					choice("📱 Electronics", "special_items", map[string]any{"category": "electronics"}),
				},
			},
			{
				Choices: []cardChoice{
					choice("📸 Photo Inventory", "photo_inventory", map[string]any{"action": "start"}),
					choice("📄 Export List", "export_inventory", map[string]any{"format": "pdf"}),
				},
			},
		},
	}
}

func petAssessmentCard() card {
	pet := func(label, kind, details string) cardChoice {
		return choice(label, "set_pet_type", map[string]any{"type": kind, "details": details})
	}
	return card{
		Title: "🐾 Pet Relocation Assessment",
		Lead:  "I'll help you relocate your pets safely and legally. Let's start with some basic information:",
		Groups: []cardGroup{
			{
				Heading: "What pets are you relocating?",
				Choices: []cardChoice{
					pet("🐕 Dogs", "dog", "Dog relocation"),
					pet("🐱 Cats", "cat", "Cat relocation"),
					pet("🐦 Birds", "bird", "Bird relocation"),
					pet("🦎 Exotic pets", "exotic", "Exotic pet relocation"),
				},
			},
			{Choices: []cardChoice{choice("📋 Fill Detailed Pet Info Form", "pet_details_form", map[string]any{"action": "detailed_form"})}},
		},
		NotesTitle: "🌍 International Pet Travel Requirements:",
		Notes: []string{
			"Health certificates & vaccinations",
			"Quarantine requirements (varies by country)",
			"Import permits & customs documentation",
			"CITES permits (for exotic species)",
			"Approved transport carriers & flight arrangements",
		},
	}
}

// petFollowUp es el mensaje inmediato y la tarjeta diferida para cada tipo de mascota.
type petFollowUp struct {
	ack  string
	card func(plan domain.RelocationPlan) card
}

var petCards = map[string]petFollowUp{
	"dog": {
		ack: "Perfect! I'll help you relocate your dog safely. Now I need some specific details to plan their journey and ensure all requirements are met.",
		card: func(plan domain.RelocationPlan) card {
			count := func(label string, n any) cardChoice {
				return choice(label, "set_pet_count", map[string]any{"count": n, "type": "dog"})
			}
			size := func(label, s, details string) cardChoice {
				return choice(label, "set_pet_size", map[string]any{"size": s, "type": "dog", "details": details})
			}
			return card{
				Title: "🐕 Dog Relocation Details",
				Groups: []cardGroup{
					{Heading: "How many dogs are you relocating?", Choices: []cardChoice{count("1 dog", 1), count("2 dogs", 2), count("3+ dogs", "3+")}},
					{Heading: "What size are your dogs?", Choices: []cardChoice{
						size("Small (under 25lbs)", "small", "Small dog (under 25 lbs)"),
						size("Medium (25-60lbs)", "medium", "Medium dog (25-60 lbs)"),
						size("Large (over 60lbs)", "large", "Large dog (over 60 lbs)"),
						size("Mixed sizes", "mixed", "Multiple dogs of different sizes"),
					}},
				},
				NotesTitle: "🏥 Next: Health & Documentation",
				Notes: []string{
					"Vaccination records & health certificates",
					fmt.Sprintf("Quarantine requirements for %s → %s", domain.StringOr(plan.FromCity, "your origin"), domain.StringOr(plan.ToCity, "your destination")),
					"Import permits & customs documentation",
					"Travel carrier requirements & booking flights",
				},
			}
		},
	},
	"cat": {
		ack: "Excellent! Cat relocation has specific requirements. Let me gather the details I need to ensure your feline friend travels safely and comfortably.",
		card: func(domain.RelocationPlan) card {
			count := func(label string, n any) cardChoice {
				return choice(label, "set_pet_count", map[string]any{"count": n, "type": "cat"})
			}
			return card{
				Title: "🐱 Cat Relocation Details",
				Groups: []cardGroup{
					{Heading: "How many cats are you relocating?", Choices: []cardChoice{count("1 cat", 1), count("2 cats", 2), count("3+ cats", "3+")}},
					{Heading: "Are they indoor/outdoor cats?", Choices: []cardChoice{
						choice("Indoor only", "set_pet_lifestyle", map[string]any{"lifestyle": "indoor", "type": "cat", "details": "Indoor cats only"}),
						choice("Outdoor access", "set_pet_lifestyle", map[string]any{"lifestyle": "outdoor", "type": "cat", "details": "Outdoor/indoor-outdoor cats"}),
					}},
				},
				NotesTitle: "📋 Cat-Specific Requirements",
				Notes: []string{
					"Rabies vaccination (minimum 21 days old)",
					"Health certificate from accredited vet",
					"Microchip identification (ISO standard)",
					"Stress management for long flights",
				},
			}
		},
	},
	"bird": {
		ack: "Bird relocation requires very specific permits and documentation. Let me walk you through the requirements step by step.",
		card: func(domain.RelocationPlan) card {
			bird := func(label, kind, details string) cardChoice {
				return choice(label, "set_bird_type", map[string]any{"bird_type": kind, "details": details})
			}
			return card{
				Title: "🐦 Bird Relocation Assessment",
				Groups: []cardGroup{{
					Heading: "What type of birds are you relocating?",
					Choices: []cardChoice{
						bird("🦜 Parrots (cockatoos, macaws, etc.)", "parrots", "Parrots (cockatoos, macaws, etc.)"),
						bird("🐦 Small birds (finches, canaries)", "finches", "Small birds (finches, canaries, etc.)"),
						bird("🐓 Poultry (chickens, ducks)", "poultry", "Poultry (chickens, ducks, etc.)"),
					},
				}},
				NotesTitle: "⚠️ Important: CITES Requirements",
				Notes:      []string{"Many bird species require CITES permits for international transport. I'll help you determine if your birds need special documentation."},
			}
		},
	},
	"exotic": {
		ack: "Exotic pet relocation is complex and highly regulated. Let me assess what type of exotic pet you have so I can guide you through the specific requirements.",
		card: func(domain.RelocationPlan) card {
			exotic := func(label, kind, details string) cardChoice {
				return choice(label, "set_exotic_type", map[string]any{"exotic_type": kind, "details": details})
			}
			return card{
				Title: "🦎 Exotic Pet Relocation",
				Groups: []cardGroup{{
					Heading: "What type of exotic pet are you relocating?",
					Choices: []cardChoice{
						exotic("🦎 Reptiles (snakes, lizards, turtles)", "reptile", "Reptiles (snakes, lizards, turtles)"),
						exotic("🐰 Small mammals (ferrets, rabbits)", "small_mammals", "Small mammals (ferrets, rabbits, etc.)"),
						exotic("🐠 Aquarium fish", "fish", "Aquarium fish"),
						exotic("🦄 Other exotic species", "other", "Other exotic species"),
					},
				}},
				NotesTitle: "🚨 Critical: Legal Requirements",
				Notes:      []string{"Exotic pets often have strict import/export restrictions. Some species may be prohibited entirely."},
			}
		},
	},
}

func visaAssessmentCard() card {
	status := func(label, s, details string) cardChoice {
		return choice(label, "visa_status", map[string]any{"status": s, "details": details})
	}
	return card{
		Title: "🛂 Immigration Assessment",
		Lead:  "I can help you navigate visa requirements, connect you with immigration lawyers, and guide you through the application process. Let me understand your situation:",
		Groups: []cardGroup{
			{
				Heading: "What type of visa or immigration assistance do you need?",
				Choices: []cardChoice{
					status("💼 Work visa/permit", "need_work_visa", "Require work visa/permit"),
					status("👨‍👩‍👧‍👦 Family reunification", "family_visa", "Family reunification visa"),
					status("🎓 Student visa", "student_visa", "Student visa application"),
					status("💰 Investment/entrepreneur", "investment_visa", "Investment/entrepreneur visa"),
					status("✅ Already have valid visa", "have_visa", "Already have valid visa"),
					status("🏛️ Citizenship/permanent residency", "citizenship", "Citizenship/permanent residency"),
				},
			},
			{
				Text:    "Or tell me about your specific situation:",
				Choices: []cardChoice{choice("📞 Schedule Expert Consultation", "immigration_consultation", map[string]any{"action": "schedule_consultation"})},
			},
		},
		NotesTitle: "💡 What I can help with:",
		Notes: []string{
			"Requirements research for your specific country/visa type",
			"Document checklist & timeline planning",
			"Immigration lawyer connections in your destination",
			"Application tracking & status updates",
			"Interview preparation & tips",
		},
	}
}

// visaFollowUp es el mensaje inmediato y la tarjeta diferida por estado de visa.
type visaFollowUp struct {
	ack  func(plan domain.RelocationPlan) string
	card func(plan domain.RelocationPlan) card
}

func staticAck(s string) func(domain.RelocationPlan) string {
	return func(domain.RelocationPlan) string { return s }
}

func specialistCard(title, lead string) func(domain.RelocationPlan) card {
	return func(domain.RelocationPlan) card {
		return card{
			Title:  title,
			Lead:   lead,
			Groups: []cardGroup{{Choices: []cardChoice{choice("🤝 Connect with a specialist", "connect_immigration_partner", map[string]any{"source": "assessment"})}}},
		}
	}
}

var visaCards = map[string]visaFollowUp{
	"need_work_visa": {
		ack: func(plan domain.RelocationPlan) string {
			return fmt.Sprintf("Perfect! I'll guide you through the work visa process for %s → %s. Let me gather the specific information I need to connect you with the right specialists and prepare your documentation.",
				domain.StringOr(plan.FromCity, "your origin"), domain.StringOr(plan.ToCity, "your destination"))
		},
		card: func(plan domain.RelocationPlan) card {
			job := func(label, s, details string) cardChoice {
				return choice(label, "set_job_status", map[string]any{"status": s, "details": details})
			}
			return card{
				Title: "💼 Work Visa Assessment",
				Groups: []cardGroup{{
					Heading: "Do you already have a job offer?",
					Choices: []cardChoice{
						job("✅ Yes, I have a job offer", "have_offer", "Already have job offer"),
						job("🔍 No, I'm looking for opportunities", "searching", "Looking for job opportunities"),
						job("🏢 Internal company transfer", "internal_transfer", "Company internal transfer"),
					},
				}},
				NotesTitle: "📋 What I'll help you with next:",
				Notes: []string{
					"Visa type determination (H-1B, L-1, O-1, etc.)",
					"Document checklist & timeline planning",
					"Immigration lawyer connections in " + domain.StringOr(plan.ToCity, "your destination"),
					"Application preparation & filing strategy",
					"Interview prep & approval tracking",
				},
			}
		},
	},
	"family_visa": {
		ack: staticAck("I'll help you with family reunification visa requirements. Let me understand your family situation to guide you through the right process."),
		card: func(domain.RelocationPlan) card {
			rel := func(label, r, details string) cardChoice {
				return choice(label, "set_family_relationship", map[string]any{"relationship": r, "details": details})
			}
			return card{
				Title: "👨‍👩‍👧‍👦 Family Reunification Visa",
				Groups: []cardGroup{{
					Heading: "What is your relationship to the US sponsor?",
					Choices: []cardChoice{
						rel("💑 Spouse", "spouse", "Spouse of US citizen/resident"),
						rel("👶 Child", "child", "Child of US citizen/resident"),
						rel("👴 Parent", "parent", "Parent of US citizen"),
						rel("👫 Sibling", "sibling", "Sibling of US citizen"),
					},
				}},
				NotesTitle: "📅 Processing Times & Priority Dates",
				Notes:      []string{"Family visa processing times vary significantly. I'll help you understand current wait times and priority dates for your category."},
			}
		},
	},
	"student_visa": {
		ack: staticAck("Great! Student visa process requires careful coordination with your school. Let me walk you through the F-1 or J-1 visa requirements step by step."),
		card: func(domain.RelocationPlan) card {
			school := func(label, s, details string) cardChoice {
				return choice(label, "set_school_status", map[string]any{"status": s, "details": details})
			}
			return card{
				Title: "🎓 Student Visa Process",
				Groups: []cardGroup{{
					Heading: "Have you been accepted to a US school?",
					Choices: []cardChoice{
						school("✅ Yes, I've been accepted", "accepted", "Already accepted to US school"),
						school("📝 Currently applying", "applying", "Currently applying to schools"),
						school("🔍 Still researching", "researching", "Researching schools and programs"),
					},
				}},
				NotesTitle: "📋 Student Visa Requirements",
				Notes: []string{
					"I-20 form from your school",
					"Financial proof for tuition & living expenses",
					"SEVIS fee payment",
					"Embassy interview",
					"Academic records & English proficiency",
				},
			}
		},
	},
	"have_visa": {
		ack: staticAck("Excellent! Since you already have a valid visa, I can focus on other aspects of your move. Let me help you with the immigration-related logistics for your arrival."),
		card: func(domain.RelocationPlan) card {
			doc := func(label, d, details string) cardChoice {
				return choice(label, "prepare_arrival_docs", map[string]any{"doc": d, "details": details})
			}
			return card{
				Title: "✅ Arrival Preparation Checklist",
				Groups: []cardGroup{{
					Heading: "Documents to prepare for arrival:",
					Choices: []cardChoice{
						doc("📖 Passport & visa", "passport_visa", "Passport with valid visa"),
						doc("📋 I-94 record", "i94", "I-94 arrival/departure record"),
						doc("📄 Supporting documents", "supporting_docs", "Supporting documents for entry"),
					},
				}},
				NotesTitle: "🏛️ Next steps after arrival:",
				Notes: []string{
					"Social Security Number application",
					"State ID/Driver's License setup",
					"Bank account opening requirements",
					"Address registration & mail forwarding",
				},
			}
		},
	},
	"investment_visa": {
		ack:  staticAck("Investment and entrepreneur visas depend heavily on your business plan and funding. A specialist review is the best next step."),
		card: specialistCard("💰 Investment/Entrepreneur Visa", "I'll connect you with an immigration specialist who can assess the right category (E-2, EB-5, O-1) for your situation."),
	},
	"citizenship": {
		ack:  staticAck("Permanent residency and citizenship applications have strict eligibility rules. Let me connect you with an expert to review your case."),
		card: specialistCard("🏛️ Citizenship & Permanent Residency", "An immigration specialist can confirm your eligibility and timeline before you file."),
	},
}

func housingAssessmentCard() card {
	kind := func(label, t, pref string) cardChoice {
		return choice(label, "housing_type", map[string]any{"type": t, "preference": pref})
	}
	return card{
		Title: "🏡 Housing Search",
		Lead:  "I'll help you find the perfect home in your new city. Let's start with your preferences:",
		Groups: []cardGroup{
			{
				Heading: "What type of housing do you prefer?",
				Choices: []cardChoice{
					kind("🏠 Rent", "rent", "Rental apartment/house"),
					kind("🔑 Buy", "buy", "Purchase property"),
					kind("🏨 Short-term", "temporary", "Short-term/furnished"),
					kind("🏢 Corporate", "corporate", "Corporate housing"),
				},
			},
			{Choices: []cardChoice{choice("📝 Share detailed preferences", "housing_preferences", map[string]any{"action": "detailed_preferences"})}},
		},
		NotesTitle: "🎯 What I'll help you with:",
		Notes: []string{
			"Local real estate agent connections",
			"Neighborhood research & area recommendations",
			"Legal requirements for international buyers/renters",
			"Mortgage/financing options for foreign nationals",
			"Property viewing coordination & virtual tours",
		},
	}
}

func accommodationBudgetCard() card {
	budget := func(label, b string) cardChoice {
		return choice(label, "set_accommodation_budget", map[string]any{"budget": b, "details": "$" + b + " per night"})
	}
	duration := func(label, d, details string) cardChoice {
		return choice(label, "set_accommodation_duration", map[string]any{"duration": d, "details": details})
	}
	return card{
		Title: "💰 Budget & Timeline",
		Groups: []cardGroup{
			{
				Heading: "What's your budget for accommodation?",
				Choices: []cardChoice{budget("$100-150/night", "100-150"), budget("$150-250/night", "150-250"), budget("$250-400/night", "250-400"), budget("$400+/night", "400+")},
			},
			{
				Heading: "How long do you need accommodation?",
				Choices: []cardChoice{
					duration("1-2 weeks", "1-2 weeks", "1-2 weeks stay"),
					duration("1 month", "1 month", "1 month stay"),
					duration("2-3 months", "2-3 months", "2-3 months stay"),
					duration("Flexible", "flexible", "Flexible timeline"),
				},
			},
		},
		NotesTitle: "🔍 Next: Live Search Results",
		Notes:      []string{"Once you select your budget and timeline, I'll search for live availability and pricing."},
	}
}

func immigrationChecklistCard() card {
	visa := func(label, t, category string) cardChoice {
		return choice(label, "visa_type", map[string]any{"type": t, "category": category})
	}
	return card{
		Title: "🛂 Immigration & Visa",
		Groups: []cardGroup{
			{
				Heading: "Visa Requirements",
				Text:    "Most long stays or work arrangements require a visa in your destination country",
				Choices: []cardChoice{
					visa("💼 Work Visa", "work", "skilled_worker"),
					visa("👥 Family Visa", "family", "spouse"),
					visa("💰 Investor Visa", "investment", "investor"),
					visa("🎓 Student Visa", "student", "student"),
				},
			},
			{
				Heading: "📋 Document Checklist",
				Text:    "Valid passport (6+ months), visa application form, financial statements, employment letter, biometric appointment",
				Choices: []cardChoice{choice("Get Document Help", "document_help", map[string]any{"service": "visa_docs"})},
			},
			{
				Choices: []cardChoice{
					choice("⚖️ Find Immigration Lawyer", "find_solicitor", map[string]any{"speciality": "immigration"}),
					choice("📍 Track Application", "track_application", map[string]any{"service": "visa_tracking"}),
				},
			},
		},
	}
}

func allServicesCard() card {
	svc := func(label, s string) cardChoice {
		return choice(label, "service_workflow", map[string]any{"service": s})
	}
	return card{
		Title: "🏠 Complete Relocation Services",
		Groups: []cardGroup{{
			Choices: []cardChoice{
				svc("🛂 Immigration", "immigration"),
				svc("📦 Moving", "shipping"),
				svc("🏡 Housing", "housing"),
				svc("💳 Finance", "finance"),
				svc("🏥 Healthcare", "healthcare"),
				svc("🚗 Transportation", "transportation"),
				svc("🎓 Education", "education"),
				svc("🐾 Animal companions", "pets"),
				svc("⚡ Utilities", "utilities"),
			},
		}},
		NotesTitle: "🎯 Recommended Priority",
		Notes:      []string{"Immigration", "Moving", "Housing", "Finance", "Healthcare"},
	}
}

func datePickerCard(defaultDate string) card {
	month := func(label, date string) cardChoice {
		return choice(label, "choose_date", map[string]any{"date": date})
	}
	return card{
		Title:     "📅 Choose your moving date",
		Lead:      "Select your preferred arrival or departure date for the relocation.",
		DateInput: defaultDate,
		Groups: []cardGroup{
			{Choices: []cardChoice{
				choice("✓ Confirm Date", "choose_date", map[string]any{"date": "from-input"}),
				choice("I'm flexible", "choose_date", map[string]any{"date": "flexible", "preference": "any_time"}),
			}},
			{Heading: "Quick options:", Choices: []cardChoice{
				month("August 2025", "2025-08-01"),
				month("September 2025", "2025-09-01"),
				month("October 2025", "2025-10-01"),
				month("November 2025", "2025-11-01"),
			}},
		},
	}
}

func householdSelectionCard() card {
	size := func(label string, n int) cardChoice {
		return choice(label, "confirm_household_size", map[string]any{"size": n})
	}
	return card{
		Title: "👥 How many people are moving?",
		Lead:  "This helps me plan the volume of your move, your housing needs and the right applications.",
		Groups: []cardGroup{{
			Heading: "Select your household size:",
			Choices: []cardChoice{
				size("1 · Just me", 1),
				size("2 · Couple", 2),
				size("3 · Small family", 3),
				size("4 · Family", 4),
				size("5+ · Large family", 5),
				choice("? · Other", "custom_household_size", map[string]any{"action": "custom"}),
			},
		}},
	}
}
