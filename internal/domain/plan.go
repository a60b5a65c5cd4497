package domain

// RelocationPlan acumula lo que sabemos de la mudanza. Todos los campos son
// opcionales: nil significa "no informado" y Merge nunca los borra.
type RelocationPlan struct {
	FromCity              *string  `json:"from_city,omitempty"`
	ToCity                *string  `json:"to_city,omitempty"`
	MoveDate              *string  `json:"move_date,omitempty"`
	SelectedDate          *string  `json:"selected_date,omitempty"`
	HotelName             *string  `json:"hotel_name,omitempty"`
	HotelAddress          *string  `json:"hotel_address,omitempty"`
	HotelConfirmation     *string  `json:"hotel_confirmation,omitempty"`
	HouseholdSize         *int     `json:"household_size,omitempty"`
	HasPets               *bool    `json:"has_pets,omitempty"`
	PetDetails            *string  `json:"pet_details,omitempty"`
	HasVisa               *bool    `json:"has_visa,omitempty"`
	VisaStatus            *string  `json:"visa_status,omitempty"`
	AccommodationType     *string  `json:"accommodation_type,omitempty"`
	AccommodationBudget   *string  `json:"accommodation_budget,omitempty"`
	AccommodationDuration *string  `json:"accommodation_duration,omitempty"`
	ImmigrationStatus     *string  `json:"immigration_status,omitempty"`
	Budget                *float64 `json:"budget,omitempty"`
	SpecialRequirements   []string `json:"special_requirements,omitempty"`
	UserEmail             *string  `json:"user_email,omitempty"`
	UserName              *string  `json:"user_name,omitempty"`
	MoveType              *string  `json:"move_type,omitempty"`
}

// Merge aplica un update parcial: los campos informados pisan, el resto persiste.
// SpecialRequirements se reemplaza completo cuando viene no-nil.
func (p RelocationPlan) Merge(u RelocationPlan) RelocationPlan {
	out := p
	out.FromCity = pick(p.FromCity, u.FromCity)
	out.ToCity = pick(p.ToCity, u.ToCity)
	out.MoveDate = pick(p.MoveDate, u.MoveDate)
	out.SelectedDate = pick(p.SelectedDate, u.SelectedDate)
	out.HotelName = pick(p.HotelName, u.HotelName)
	out.HotelAddress = pick(p.HotelAddress, u.HotelAddress)
	out.HotelConfirmation = pick(p.HotelConfirmation, u.HotelConfirmation)
	out.HouseholdSize = pick(p.HouseholdSize, u.HouseholdSize)
	out.HasPets = pick(p.HasPets, u.HasPets)
	out.PetDetails = pick(p.PetDetails, u.PetDetails)
	out.HasVisa = pick(p.HasVisa, u.HasVisa)
	out.VisaStatus = pick(p.VisaStatus, u.VisaStatus)
	out.AccommodationType = pick(p.AccommodationType, u.AccommodationType)
	out.AccommodationBudget = pick(p.AccommodationBudget, u.AccommodationBudget)
	out.AccommodationDuration = pick(p.AccommodationDuration, u.AccommodationDuration)
	out.ImmigrationStatus = pick(p.ImmigrationStatus, u.ImmigrationStatus)
	out.Budget = pick(p.Budget, u.Budget)
	out.UserEmail = pick(p.UserEmail, u.UserEmail)
	out.UserName = pick(p.UserName, u.UserName)
	out.MoveType = pick(p.MoveType, u.MoveType)
	if u.SpecialRequirements != nil {
		out.SpecialRequirements = append([]string(nil), u.SpecialRequirements...)
	} else if p.SpecialRequirements != nil {
		out.SpecialRequirements = append([]string(nil), p.SpecialRequirements...)
	}
	return out
}

// StringOr devuelve el valor apuntado o def si es nil o vacio.
func StringOr(v *string, def string) string {
	if v == nil || *v == "" {
		return def
	}
	return *v
}

// Ptr es un atajo para construir updates parciales.
func Ptr[T any](v T) *T {
	return &v
}

func pick[T any](old, next *T) *T {
	if next != nil {
		v := *next
		return &v
	}
	return old
}
