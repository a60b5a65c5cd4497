package domain

import "time"

// StepKind es el conjunto cerrado de artefactos de timeline.
type StepKind string

const (
	StepGenericText    StepKind = "GenericText"
	StepMapCard        StepKind = "MapCard"
	StepHotelSelection StepKind = "HotelSelection"
	StepBookingSummary StepKind = "BookingSummary"
	StepPaymentForm    StepKind = "PaymentForm"
	StepConfirmation   StepKind = "Confirmation"
	StepHTMLCard       StepKind = "HtmlCard"
)

type StepStatus string

const (
	StatusInProgress StepStatus = "in_progress"
	StatusCompleted  StepStatus = "completed"
	StatusIdle       StepStatus = "idle"
)

// StepData es el payload especifico de cada kind.
type StepData interface {
	Kind() StepKind
}

// TimelineStep nunca se borra; solo cambia de status.
type TimelineStep struct {
	ID             string     `json:"id"`
	Kind           StepKind   `json:"kind"`
	Title          string     `json:"title,omitempty"`
	Status         StepStatus `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	AfterMessageID string     `json:"after_message_id,omitempty"`
	ThreadID       string     `json:"thread_id,omitempty"`
	Data           StepData   `json:"data,omitempty"`
}

type GenericTextData struct {
	Text string `json:"text"`
}

func (GenericTextData) Kind() StepKind { return StepGenericText }

type MapCardData struct {
	Venue        Venue         `json:"venue"`
	Hotels       []HotelOption `json:"hotels"`
	RadiusMeters int           `json:"radius_meters"`
}

func (MapCardData) Kind() StepKind { return StepMapCard }

type HotelSelectionData struct {
	Hotels []HotelOption `json:"hotels"`
	Budget *float64      `json:"budget,omitempty"`
}

func (HotelSelectionData) Kind() StepKind { return StepHotelSelection }

type BookingSummaryData struct {
	Venue Venue       `json:"venue"`
	Hotel HotelOption `json:"hotel"`
	Date  string      `json:"date,omitempty"`
}

func (BookingSummaryData) Kind() StepKind { return StepBookingSummary }

type PaymentFormData struct {
	Amount float64     `json:"amount"`
	Hotel  HotelOption `json:"hotel"`
}

func (PaymentFormData) Kind() StepKind { return StepPaymentForm }

type ConfirmationData struct {
	Reference string      `json:"reference"`
	Hotel     HotelOption `json:"hotel"`
}

func (ConfirmationData) Kind() StepKind { return StepConfirmation }

type HTMLCardData struct {
	HTML   string `json:"html"`
	Height int    `json:"height,omitempty"`
}

func (HTMLCardData) Kind() StepKind { return StepHTMLCard }
