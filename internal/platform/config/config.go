package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string
	AutoMigrate bool
	RedisAddr   string
	RedisDB     int

	InvitationTokenSecret string
	InvitationTokenTTL    time.Duration

	PaymentGatewayBaseURL string
	PaymentGatewayAPIKey  string
	PaymentGatewayTimeout time.Duration
	PaymentMaxAttempts    int

	PolicyCacheTTL time.Duration
	IdempotencyTTL time.Duration

	TaskQueueWorkers int
	TaskQueueDepth   int

	DomainPollInterval     time.Duration
	AutoApproveInterval    time.Duration
	SettlementInterval     time.Duration
	DowngradeSweepInterval time.Duration

	EnableDomainVerificationPoller bool
	EnableAutoApproveSweeper       bool
	EnableSeatSettlement           bool
	EnablePlanDowngrade            bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "locker"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		AutoMigrate: envBool("AUTO_MIGRATE", true),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RedisDB:     envInt("REDIS_DB", 0),

		InvitationTokenSecret: os.Getenv("INVITATION_TOKEN_SECRET"),
		InvitationTokenTTL:    envDuration("INVITATION_TOKEN_TTL", 30*24*time.Hour),

		PaymentGatewayBaseURL: os.Getenv("PAYMENT_GATEWAY_BASE_URL"),
		PaymentGatewayAPIKey:  os.Getenv("PAYMENT_GATEWAY_API_KEY"),
		PaymentGatewayTimeout: envDuration("PAYMENT_GATEWAY_TIMEOUT", 10*time.Second),
		PaymentMaxAttempts:    envInt("PAYMENT_MAX_ATTEMPTS", 3),

		PolicyCacheTTL: envDuration("POLICY_CACHE_TTL", 5*time.Minute),
		IdempotencyTTL: envDuration("IDEMPOTENCY_TTL", 7*24*time.Hour),

		TaskQueueWorkers: envInt("TASK_QUEUE_WORKERS", 4),
		TaskQueueDepth:   envInt("TASK_QUEUE_DEPTH", 256),

		DomainPollInterval:     envDuration("DOMAIN_POLL_INTERVAL", 5*time.Minute),
		AutoApproveInterval:    envDuration("AUTO_APPROVE_INTERVAL", 10*time.Minute),
		SettlementInterval:     envDuration("SETTLEMENT_INTERVAL", 15*time.Minute),
		DowngradeSweepInterval: envDuration("DOWNGRADE_SWEEP_INTERVAL", time.Hour),

		EnableDomainVerificationPoller: envBool("ENABLE_DOMAIN_VERIFICATION_POLLER", true),
		EnableAutoApproveSweeper:       envBool("ENABLE_AUTO_APPROVE_SWEEPER", true),
		EnableSeatSettlement:           envBool("ENABLE_SEAT_SETTLEMENT", true),
		EnablePlanDowngrade:            envBool("ENABLE_PLAN_DOWNGRADE", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
