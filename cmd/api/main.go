package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"relo-assistant/internal/cache"
	"relo-assistant/internal/catalog"
	"relo-assistant/internal/config"
	"relo-assistant/internal/email"
	apihttp "relo-assistant/internal/http"
	"relo-assistant/internal/llm"
	"relo-assistant/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	creds := llm.NewCredentials(cfg.LLMAPIKey, cfg.LLMModel)
	if !creds.Configured() {
		logger.Warn("llm api key not configured; set it via PUT /settings/llm")
	}
	gateway := llm.New(cfg.LLMAPIStyle, cfg.LLMBaseURL, creds, cfg.LLMTimeout, logger)

	emailSender := email.NewLogSender(logger)
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var (
		resultCache = cache.NewMemory(cfg.CacheTTL)
		limiter     = service.NewMemoryRateLimiter(time.Minute, cfg.RateLimitPerMinute)
		revocations service.RevocationStore
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			resultCache = cache.NewRedis(redisClient, cfg.CacheTTL)
			limiter = service.NewRedisRateLimiter(redisClient, time.Minute, cfg.RateLimitPerMinute)
			revocations = service.NewRedisRevocationStore(redisClient)
		}
		cancel()
	}

	tokens := service.NewSessionTokensWithStore(cfg.JWTSecret, cfg.SessionTokenTTL(), revocations)
	if cfg.JWTSecret == "dev-secret-change-me" {
		logger.Warn("using the development jwt secret")
	}

	sessions := service.NewSessionManager(service.SessionManagerConfig{
		Catalog: catalog.Default(),
		Gateway: gateway,
		Cache:   resultCache,
		Sender:  emailSender,
		Referral: email.ReferralConfig{
			To: cfg.ReferralTo,
			CC: cfg.ReferralCC,
		},
		Delays:  service.Delays{FollowUp: cfg.FollowUpDelay, Long: cfg.FollowUpLongDelay},
		IdleTTL: cfg.SessionIdleTTL,
		Logger:  logger,
	})
	go sessions.Run(ctx, time.Minute)

	sessionHandler := apihttp.NewSessionHandler(logger, sessions, tokens, cfg.AllowedOrigins)
	settingsHandler := apihttp.NewSettingsHandler(logger, creds, sessions)
	router := apihttp.NewRouter(logger, sessionHandler, settingsHandler, tokens, limiter)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           apihttp.WithCORS(router, cfg.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sessions.CloseAll()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}
