package email

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// Referral es un correo de derivacion hacia el partner de inmigracion.
type Referral struct {
	To      string
	CC      []string
	ReplyTo string
	Subject string
	Body    string
}

// Recipients devuelve To seguido de los CC no vacios.
func (r Referral) Recipients() []string {
	out := make([]string, 0, 1+len(r.CC))
	if s := strings.TrimSpace(r.To); s != "" {
		out = append(out, s)
	}
	for _, cc := range r.CC {
		if s := strings.TrimSpace(cc); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Sender define la interfaz para el envio de derivaciones.
type Sender interface {
	SendReferral(ctx context.Context, r Referral) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendReferral(_ context.Context, _ Referral) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}

type logSender struct {
	logger *zap.Logger
}

// NewLogSender no envia nada: deja la derivacion en el log y reporta exito.
// Sirve para desarrollo sin SMTP.
func NewLogSender(logger *zap.Logger) Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &logSender{logger: logger}
}

func (s *logSender) SendReferral(_ context.Context, r Referral) error {
	if len(r.Recipients()) == 0 {
		return errors.New("referral has no recipients")
	}
	s.logger.Info("referral email (log only)",
		zap.String("to", r.To),
		zap.Strings("cc", r.CC),
		zap.String("subject", r.Subject),
		zap.String("reply_to", r.ReplyTo),
	)
	return nil
}
