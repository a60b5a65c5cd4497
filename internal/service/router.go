package service

import "relo-assistant/internal/domain"

// intentServices mapea nombres de intent al servicio cuyo hilo debe atenderlos.
// Los intents que no aparecen no cambian de hilo.
var intentServices = map[string]domain.ServiceCategory{
	"service_workflow":            domain.ServiceGeneral,
	"select_move_date":            domain.ServiceGeneral,
	"move_date":                   domain.ServiceGeneral,
	"start_shipping":              domain.ServiceShipping,
	"shipping_workflow":           domain.ServiceShipping,
	"moving_shipping":             domain.ServiceShipping,
	"moving_and_shipping":         domain.ServiceShipping,
	"moving":                      domain.ServiceShipping,
	"shipping":                    domain.ServiceShipping,
	"get_moving_quotes":           domain.ServiceShipping,
	"start_inventory":             domain.ServiceShipping,
	"schedule_move":               domain.ServiceShipping,
	"set_household_goods":         domain.ServiceShipping,
	"household_survey":            domain.ServiceShipping,
	"shipping_type":               domain.ServiceShipping,
	"visa_workflow":               domain.ServiceImmigration,
	"immigration_workflow":        domain.ServiceImmigration,
	"visa_immigration":            domain.ServiceImmigration,
	"visa_and_immigration":        domain.ServiceImmigration,
	"immigration":                 domain.ServiceImmigration,
	"select_visa":                 domain.ServiceImmigration,
	"visa_status":                 domain.ServiceImmigration,
	"immigration_consultation":    domain.ServiceImmigration,
	"immigration_assessment":      domain.ServiceImmigration,
	"connect_immigration_partner": domain.ServiceImmigration,
	"connect_with_specialist":     domain.ServiceImmigration,
	"immigration_specialist":      domain.ServiceImmigration,
	"provide_contact":             domain.ServiceImmigration,
	"housing_workflow":            domain.ServiceHousing,
	"housing":                     domain.ServiceHousing,
	"housing_type":                domain.ServiceHousing,
	"housing_preferences":         domain.ServiceHousing,
	"start_hotel_search":          domain.ServiceAccommodation,
	"search_hotels":               domain.ServiceAccommodation,
	"choose_hotel":                domain.ServiceAccommodation,
	"browse_nearby":               domain.ServiceAccommodation,
	"temporary_housing":           domain.ServiceAccommodation,
	"select_accommodation_type":   domain.ServiceAccommodation,
	"select_nyc_area":             domain.ServiceAccommodation,
	"set_accommodation_budget":    domain.ServiceAccommodation,
	"set_accommodation_duration":  domain.ServiceAccommodation,
	"pet_workflow":                domain.ServicePets,
	"pet_relocation":              domain.ServicePets,
	"pets":                        domain.ServicePets,
	"select_pets":                 domain.ServicePets,
	"set_pet_type":                domain.ServicePets,
	"pet_details_form":            domain.ServicePets,
	"set_pet_count":               domain.ServicePets,
	"set_pet_size":                domain.ServicePets,
	"set_pet_lifestyle":           domain.ServicePets,
	"set_bird_type":               domain.ServicePets,
	"set_exotic_type":             domain.ServicePets,
	"finance_workflow":            domain.ServiceFinance,
	"finance_taxes":               domain.ServiceFinance,
	"finance_and_taxes":           domain.ServiceFinance,
	"finance":                     domain.ServiceFinance,
	"healthcare_workflow":         domain.ServiceHealthcare,
	"healthcare":                  domain.ServiceHealthcare,
	"transportation_workflow":     domain.ServiceTransportation,
	"transportation":              domain.ServiceTransportation,
	"education_workflow":          domain.ServiceEducation,
	"education":                   domain.ServiceEducation,
}

// ResolveService devuelve el servicio asociado al intent ya normalizado.
func ResolveService(intentName string) (domain.ServiceCategory, bool) {
	s, ok := intentServices[intentName]
	return s, ok
}
