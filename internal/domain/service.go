package domain

// ServiceCategory es el conjunto cerrado de servicios de relocalizacion.
type ServiceCategory string

const (
	ServiceGeneral        ServiceCategory = "general"
	ServiceImmigration    ServiceCategory = "immigration"
	ServiceShipping       ServiceCategory = "shipping"
	ServiceHousing        ServiceCategory = "housing"
	ServiceFinance        ServiceCategory = "finance"
	ServiceHealthcare     ServiceCategory = "healthcare"
	ServiceTransportation ServiceCategory = "transportation"
	ServiceLifestyle      ServiceCategory = "lifestyle"
	ServiceEducation      ServiceCategory = "education"
	ServicePets           ServiceCategory = "pets"
	ServiceAccommodation  ServiceCategory = "accommodation"
	ServiceInsurance      ServiceCategory = "insurance"
	ServiceUtilities      ServiceCategory = "utilities"
)

// AllServices respeta el orden en que se presentan en la UI.
var AllServices = []ServiceCategory{
	ServiceGeneral,
	ServiceImmigration,
	ServiceShipping,
	ServiceHousing,
	ServiceFinance,
	ServiceHealthcare,
	ServiceTransportation,
	ServiceLifestyle,
	ServiceEducation,
	ServicePets,
	ServiceAccommodation,
	ServiceInsurance,
	ServiceUtilities,
}

func (s ServiceCategory) Valid() bool {
	for _, v := range AllServices {
		if v == s {
			return true
		}
	}
	return false
}
