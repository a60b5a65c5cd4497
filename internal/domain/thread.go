package domain

import "time"

// Thread es un canal de conversacion aislado por categoria de servicio.
type Thread struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	Service            ServiceCategory `json:"service"`
	LastMessagePreview string          `json:"last_message_preview,omitempty"`
	LastMessageAt      *time.Time      `json:"last_message_at,omitempty"`
	UnreadCount        int             `json:"unread_count"`
	Avatar             string          `json:"avatar"`
	Color              string          `json:"color"`
	WorkflowStep       string          `json:"workflow_step,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// GeneralThreadID es fijo: el hilo general existe desde el inicio de la sesion.
const GeneralThreadID = "general"
