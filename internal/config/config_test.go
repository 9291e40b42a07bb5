package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var now = time.Date(2025, time.August, 30, 9, 0, 0, 0, time.UTC)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(serviceKeyEnv, "")
	t.Setenv(configPathEnv, "")

	cfg, err := Load([]string{"--service-key", "k"}, now)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Query.Mode != "daily" {
		t.Fatalf("default mode: %q", cfg.Query.Mode)
	}
	if cfg.Query.TopN != 50 {
		t.Fatalf("default top-n: %d", cfg.Query.TopN)
	}
	if cfg.Output.Dir != "output" {
		t.Fatalf("default out dir: %q", cfg.Output.Dir)
	}
	if !cfg.End.Equal(now) {
		t.Fatalf("default end: %v", cfg.End)
	}
	if !cfg.Start.Equal(now.AddDate(0, 0, -7)) {
		t.Fatalf("default start must trail 7 days: %v", cfg.Start)
	}
	if cfg.API.PageSize != 100 || cfg.API.MaxRetries != 4 {
		t.Fatalf("api defaults: %+v", cfg.API)
	}
}

func TestLoadMissingServiceKey(t *testing.T) {
	t.Setenv(serviceKeyEnv, "")
	t.Setenv(configPathEnv, "")

	_, err := Load(nil, now)
	if err == nil {
		t.Fatal("expected error for missing service key")
	}
	if !strings.Contains(err.Error(), serviceKeyEnv) {
		t.Fatalf("error must point at the env var: %v", err)
	}
}

func TestLoadServiceKeyFromEnv(t *testing.T) {
	t.Setenv(serviceKeyEnv, "env-key")
	t.Setenv(configPathEnv, "")

	cfg, err := Load(nil, now)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.API.ServiceKey != "env-key" {
		t.Fatalf("service key: %q", cfg.API.ServiceKey)
	}
}

func TestLoadFlagOverridesEnvKey(t *testing.T) {
	t.Setenv(serviceKeyEnv, "env-key")
	t.Setenv(configPathEnv, "")

	cfg, err := Load([]string{"--service-key", "flag-key"}, now)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.API.ServiceKey != "flag-key" {
		t.Fatalf("flag must win over env, got %q", cfg.API.ServiceKey)
	}
}

func TestLoadStartAfterEnd(t *testing.T) {
	t.Setenv(serviceKeyEnv, "")
	t.Setenv(configPathEnv, "")

	_, err := Load([]string{
		"--service-key", "k",
		"--start", "2025-09-10",
		"--end", "2025-09-01",
	}, now)
	if err == nil {
		t.Fatal("expected error when start is after end")
	}
}

func TestLoadExplicitRange(t *testing.T) {
	t.Setenv(serviceKeyEnv, "")
	t.Setenv(configPathEnv, "")

	cfg, err := Load([]string{
		"--service-key", "k",
		"--start", "2025-08-01",
		"--end", "2025-08-15",
		"--mode", "monthly",
		"--top-n", "0",
		"--out-dir", "exports",
	}, now)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Start.Format("2006-01-02") != "2025-08-01" {
		t.Fatalf("start: %v", cfg.Start)
	}
	if cfg.End.Format("2006-01-02") != "2025-08-15" {
		t.Fatalf("end: %v", cfg.End)
	}
	if cfg.Query.Mode != "monthly" {
		t.Fatalf("mode: %q", cfg.Query.Mode)
	}
	if cfg.Query.TopN != 0 {
		t.Fatalf("explicit top-n 0 must be honored, got %d", cfg.Query.TopN)
	}
	if cfg.Output.Dir != "exports" {
		t.Fatalf("out dir: %q", cfg.Output.Dir)
	}
}

func TestLoadInvalidMode(t *testing.T) {
	t.Setenv(serviceKeyEnv, "")
	t.Setenv(configPathEnv, "")

	_, err := Load([]string{"--service-key", "k", "--mode", "hourly"}, now)
	if err == nil {
		t.Fatal("expected error for invalid mode")
	}
}

func TestLoadYAMLFileWithFlagOverride(t *testing.T) {
	t.Setenv(serviceKeyEnv, "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
api:
  serviceKey: yaml-key
  pageSize: 20
  maxRetries: 2
query:
  mode: monthly
  topN: 10
output:
  dir: yaml-out
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load([]string{"--config", path, "--out-dir", "flag-out"}, now)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.API.ServiceKey != "yaml-key" || cfg.API.PageSize != 20 || cfg.API.MaxRetries != 2 {
		t.Fatalf("yaml api settings: %+v", cfg.API)
	}
	if cfg.Query.Mode != "monthly" || cfg.Query.TopN != 10 {
		t.Fatalf("yaml query settings: %+v", cfg.Query)
	}
	if cfg.Output.Dir != "flag-out" {
		t.Fatalf("flag must override yaml out dir, got %q", cfg.Output.Dir)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("yaml logging level: %q", cfg.Logging.Level)
	}
}

func TestLoadUnknownTimezone(t *testing.T) {
	t.Setenv(serviceKeyEnv, "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
api:
  serviceKey: k
scheduler:
  cronExpression: "0 6 * * *"
  timezone: Mars/Olympus
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load([]string{"--config", path}, now); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}
