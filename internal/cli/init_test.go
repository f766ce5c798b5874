package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"budget/internal/config"
)

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("BUDGET_CLI_TEST_KEY=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BUDGET_CLI_TEST_KEY", "")
	os.Unsetenv("BUDGET_CLI_TEST_KEY")

	if err := LoadEnvFile(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv("BUDGET_CLI_TEST_KEY"); got != "from-file" {
		t.Errorf("BUDGET_CLI_TEST_KEY = %q, want from-file", got)
	}
}

func TestLoadEnvFileDoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("BUDGET_CLI_TEST_KEY=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BUDGET_CLI_TEST_KEY", "from-env")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv("BUDGET_CLI_TEST_KEY"); got != "from-env" {
		t.Errorf("BUDGET_CLI_TEST_KEY = %q, want from-env", got)
	}
}

func TestSetupLoggerWritesToGivenWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger(&config.Config{LogLevel: "debug"}, &buf)
	logger.Debug("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("expected debug record, got %q", buf.String())
	}
}

func TestLoadAndValidateConfigRejectsBadBackend(t *testing.T) {
	t.Setenv("DATA_BACKEND", "postgres")
	if _, err := LoadAndValidateConfig(); err == nil {
		t.Fatal("expected validation error")
	}
}
