package llm

import (
	"time"

	"go.uber.org/zap"
)

const (
	StyleResponses = "responses"
	StyleChat      = "chat"
)

// New elige el backend segun el estilo de API configurado.
func New(style, baseURL string, creds *Credentials, timeout time.Duration, logger *zap.Logger) Gateway {
	if style == StyleChat {
		return NewChatClient(baseURL, creds, timeout, logger)
	}
	return NewResponsesClient(baseURL, creds, timeout, logger)
}
