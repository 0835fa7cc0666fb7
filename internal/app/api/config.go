package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	caseapp "github.com/Apurer/backoffice-api/internal/domains/salescases/application"
)

// Config carries environment-driven settings for the API, worker and sweeper processes.
type Config struct {
	Port                 string
	PostgresDSN          string
	AutoMigrate          bool
	TemporalAddress      string
	TemporalNamespace    string
	TemporalDisabled     bool
	OverdueSweepInterval time.Duration
	MaxLoanDays          int
	BootstrapAdminEmail  string
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:                envDefault("PORT", "8080"),
		PostgresDSN:         strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		AutoMigrate:         !isFalsy(os.Getenv("POSTGRES_AUTO_MIGRATE")),
		TemporalAddress:     envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:   envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:    isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		MaxLoanDays:         caseapp.DefaultMaxLoanDays,
		BootstrapAdminEmail: strings.TrimSpace(os.Getenv("BOOTSTRAP_ADMIN_EMAIL")),
	}
	if raw := strings.TrimSpace(os.Getenv("OVERDUE_SWEEP_INTERVAL_MINUTES")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return Config{}, fmt.Errorf("OVERDUE_SWEEP_INTERVAL_MINUTES must be a positive integer")
		}
		cfg.OverdueSweepInterval = time.Duration(minutes) * time.Minute
	}
	if raw := strings.TrimSpace(os.Getenv("MAX_LOAN_DAYS")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < caseapp.MinLoanDays {
			return Config{}, fmt.Errorf("MAX_LOAN_DAYS must be an integer of at least %d", caseapp.MinLoanDays)
		}
		cfg.MaxLoanDays = days
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}

func isFalsy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "0" || value == "false" || value == "no"
}
