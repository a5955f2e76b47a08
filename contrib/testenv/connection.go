// Package testenv provides utilities for testing the tours against live
// database servers.
//
// Integration tests are skipped unless DBTOUR_INTEGRATION is set to a true
// value. Server addresses come from the same DBTOUR_* environment variables
// the dbtour command reads, so a docker compose setup that works for the
// command works for the tests too.
package testenv

import (
	"os"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/surrealdb/dbtour/pkg/config"
)

const (
	// EnvIntegration enables tests that talk to real servers.
	EnvIntegration = "DBTOUR_INTEGRATION"

	// EnvConfigFile optionally points at a YAML file layered under the
	// environment, like the -config flag of the command.
	EnvConfigFile = "DBTOUR_CONFIG"
)

// Enabled reports whether integration tests should run.
func Enabled() bool {
	v, err := strconv.ParseBool(os.Getenv(EnvIntegration))
	return err == nil && v
}

// Require skips the test unless integration tests are enabled.
func Require(t testing.TB) {
	t.Helper()
	if !Enabled() {
		t.Skipf("set %s=1 to run tests against live servers", EnvIntegration)
	}
}

// Config skips the test unless integration tests are enabled and returns
// the resolved configuration.
func Config(t testing.TB) *config.Config {
	t.Helper()
	Require(t)

	cfg, err := config.Load(os.Getenv(EnvConfigFile), "")
	if err != nil {
		t.Fatalf("failed to load configuration: %v", err)
	}
	return cfg
}

// Logger returns a logger that writes through t.Log so output is attached
// to the test that produced it.
func Logger(t testing.TB) zerolog.Logger {
	return zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger()
}
