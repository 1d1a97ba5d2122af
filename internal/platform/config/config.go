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
	ServiceName  string
	PostgresDSN  string
	BusBrokers   []string

	MaxVotesPerPoll       int
	AllowMultipleVotes    bool
	RequireAuthentication bool
	MinTrustTier          string
	RateLimitPerUser      int
	RateLimitWindow       time.Duration

	AuditRelayBatchSize int
	AuditRelayInterval  time.Duration
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "choices"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("BUS_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	return Config{
		ServiceName: service,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		BusBrokers:  brokers,

		MaxVotesPerPoll:       envInt("MAX_VOTES_PER_POLL", 0),
		AllowMultipleVotes:    envBool("ALLOW_MULTIPLE_VOTES", false),
		RequireAuthentication: envBool("REQUIRE_AUTHENTICATION", true),
		MinTrustTier:          envString("MIN_TRUST_TIER", "T0"),
		RateLimitPerUser:      envInt("RATE_LIMIT_PER_USER", 10),
		RateLimitWindow:       envDuration("RATE_LIMIT_WINDOW", time.Minute),

		AuditRelayBatchSize: envInt("AUDIT_RELAY_BATCH_SIZE", 100),
		AuditRelayInterval:  envDuration("AUDIT_RELAY_INTERVAL", 5*time.Second),
	}, nil
}

func envString(name string, fallback string) string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	return raw
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
