package testutil

import (
	"os"
	"testing"
)

// RequireTestEnvironment fails the test unless GO_ENV is "test", so suites
// that wipe tables can never run against a real database.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Fatalf("Refusing to run destructive tests with GO_ENV=%q, set GO_ENV=test", env)
	}
}

// MustSetTestEnvironment forces GO_ENV to "test" for the current process.
// Call it from TestMain or a suite's SetupSuite before loading config.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}
}
