// Package config loads process configuration from environment variables,
// following the same flat env-var-driven style as the rest of this stack.
package config

import (
	"os"
	"strconv"
)

// Config holds every environment-tunable setting the server reads at
// startup.
type Config struct {
	Port              string
	LogLevel          string
	LedgerDSN         string
	ScenarioFile      string
	OpsPerTurnDefault int
}

// Load reads Config from the environment, applying the same defaults a
// fresh checkout runs with.
func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LedgerDSN:         getEnv("LEDGER_DSN", ""),
		ScenarioFile:      getEnv("SCENARIO_FILE", ""),
		OpsPerTurnDefault: getEnvInt("OPS_PER_TURN_DEFAULT", 1),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// GetPortInt returns the port as an integer.
func (c *Config) GetPortInt() int {
	p, _ := strconv.Atoi(c.Port)
	return p
}

// UsesBunLedger reports whether a persistent ledger backend was
// configured; an empty DSN means the in-memory ledger is used instead.
func (c *Config) UsesBunLedger() bool {
	return c.LedgerDSN != ""
}
