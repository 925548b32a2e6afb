package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultAppConfig(t *testing.T) {
	cfg := DefaultAppConfig()
	if len(cfg.Weather.Locations) != 10 {
		t.Errorf("got %d locations, want 10", len(cfg.Weather.Locations))
	}
	if _, ok := cfg.Weather.Locations[cfg.Weather.DefaultLocation]; !ok {
		t.Errorf("default location %q is not in the location map", cfg.Weather.DefaultLocation)
	}
	if cfg.Library.ChatHistoryLimit != 50 || cfg.Library.DetectionHistoryLimit != 15 {
		t.Errorf("unexpected library caps: %+v", cfg.Library)
	}
}

func TestLoadAppConfig(t *testing.T) {
	os.Setenv("KS_TEST_LOCATION", "delhi")
	defer os.Unsetenv("KS_TEST_LOCATION")

	path := filepath.Join(t.TempDir(), "app_config.yaml")
	content := `
server:
  port: 9090
weather:
  default_location: ${KS_TEST_LOCATION}
  locations:
    delhi: { name: "New Delhi", lat: 28.6139, lon: 77.2090 }
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if cfg.Weather.DefaultLocation != "delhi" {
		t.Errorf("env expansion failed: default_location = %q", cfg.Weather.DefaultLocation)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	// Omitted values pick up defaults.
	if cfg.Server.WSPort != 8085 {
		t.Errorf("ws_port = %d, want default 8085", cfg.Server.WSPort)
	}
	if cfg.Library.ChatHistoryLimit != 50 {
		t.Errorf("chat cap = %d, want default 50", cfg.Library.ChatHistoryLimit)
	}
}

func TestLoadAppConfigEnvPortOverride(t *testing.T) {
	os.Setenv("SERVER_PORT", "7070")
	defer os.Unsetenv("SERVER_PORT")

	path := filepath.Join(t.TempDir(), "app_config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, explicit env should win over the file", cfg.Server.Port)
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	if _, err := LoadAppConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadEnvModelKeyPrecedence(t *testing.T) {
	vars := []string{"OPENROUTER_API_KEY", "MODEL_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY"}
	saved := map[string]string{}
	for _, v := range vars {
		saved[v] = os.Getenv(v)
		os.Unsetenv(v)
	}
	defer func() {
		for k, v := range saved {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	os.Setenv("GOOGLE_API_KEY", "g-key")
	cfg, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if cfg.ModelAPIKey != "g-key" {
		t.Errorf("key = %q, want the Google fallback", cfg.ModelAPIKey)
	}

	os.Setenv("OPENROUTER_API_KEY", "or-key")
	cfg, err = LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if cfg.ModelAPIKey != "or-key" {
		t.Errorf("key = %q, OPENROUTER_API_KEY should win", cfg.ModelAPIKey)
	}
}

func TestLoadEnv(t *testing.T) {
	vars := []string{"MODEL_PROVIDER", "OFFLINE_MODE", "LOG_LEVEL", "DB_PATH", "MODEL_TIMEOUT"}
	saved := map[string]string{}
	for _, v := range vars {
		saved[v] = os.Getenv(v)
		os.Unsetenv(v)
	}
	defer func() {
		for k, v := range saved {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	cfg, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if cfg.ModelProvider != "openrouter" {
		t.Errorf("provider = %q, want openrouter default", cfg.ModelProvider)
	}
	if cfg.OfflineDefault {
		t.Error("offline should default to false")
	}
	if cfg.DBPath == "" {
		t.Error("db path should have a default")
	}
	if cfg.ModelTimeout != 12*time.Second {
		t.Errorf("timeout = %v, want 12s default", cfg.ModelTimeout)
	}

	os.Setenv("OFFLINE_MODE", "TRUE")
	os.Setenv("MODEL_TIMEOUT", "3s")
	cfg, err = LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if !cfg.OfflineDefault {
		t.Error("OFFLINE_MODE=TRUE should enable the offline default")
	}
	if cfg.ModelTimeout != 3*time.Second {
		t.Errorf("timeout = %v, want 3s", cfg.ModelTimeout)
	}
}
