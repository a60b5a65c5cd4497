package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio. LLM_API_KEY es opcional:
// sin ella el gateway responde ErrNotConfigured en cada llamada.
type Config struct {
	HTTPPort       string   `env:"HTTP_PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	LLMAPIKey   string        `env:"LLM_API_KEY"`
	LLMBaseURL  string        `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel    string        `env:"LLM_MODEL" envDefault:"gpt-5-mini-2025-08-07"`
	LLMAPIStyle string        `env:"LLM_API_STYLE" envDefault:"responses"`
	LLMTimeout  time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`

	JWTSecret              string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	SessionTokenTTLMinutes int           `env:"SESSION_TOKEN_TTL_MINUTES" envDefault:"720"`
	SessionIdleTTL         time.Duration `env:"SESSION_IDLE_TTL" envDefault:"2h"`
	RateLimitPerMinute     int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPass     string `env:"SMTP_PASS"`
	SMTPFrom     string `env:"SMTP_FROM"`
	SMTPFromName string `env:"SMTP_FROM_NAME" envDefault:"Relocation Assistant"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"false"`

	ReferralTo []string `env:"REFERRAL_TO" envSeparator:","`
	ReferralCC []string `env:"REFERRAL_CC" envSeparator:","`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"0s"`

	FollowUpDelay     time.Duration `env:"FOLLOWUP_DELAY" envDefault:"1s"`
	FollowUpLongDelay time.Duration `env:"FOLLOWUP_LONG_DELAY" envDefault:"1500ms"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SessionTokenTTL devuelve la vida de los tokens de sesion.
func (c *Config) SessionTokenTTL() time.Duration {
	return time.Duration(c.SessionTokenTTLMinutes) * time.Minute
}
