package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the agenda
// generation service (§6).
type Config struct {
	HTTPPort         int
	SQLiteDSN        string
	SolverTimeBudget time.Duration
	ServiceTokenHash string
}

// Load parses configuration values from the current process environment.
//
// The loader applies sensible defaults for optional fields while validating
// required values and reporting localized error messages for missing entries.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:         8080,
		SQLiteDSN:        "file:agenda.db?_foreign_keys=on",
		SolverTimeBudget: 30 * time.Second,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("AGENDA_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "AGENDA_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("AGENDA_DB_PATH")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if budgetValue := strings.TrimSpace(os.Getenv("AGENDA_SOLVER_TIME_BUDGET")); budgetValue != "" {
		budget, err := time.ParseDuration(budgetValue)
		if err != nil || budget <= 0 {
			invalid = append(invalid, "AGENDA_SOLVER_TIME_BUDGET")
		} else {
			cfg.SolverTimeBudget = budget
		}
	}

	if tokenHash := strings.TrimSpace(os.Getenv("AGENDA_SERVICE_TOKEN_HASH")); tokenHash == "" {
		missing = append(missing, "AGENDA_SERVICE_TOKEN_HASH")
	} else {
		cfg.ServiceTokenHash = tokenHash
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("必須の環境変数が設定されていません: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("環境変数の値が不正です: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
