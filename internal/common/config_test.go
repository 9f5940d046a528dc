package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_DefaultPort(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port default = %d, want %d", cfg.Server.Port, 8080)
	}
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("PALLAS_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want %d", cfg.Server.Port, 9090)
	}
}

func TestConfig_FMPKeyEnvOverride(t *testing.T) {
	t.Setenv("FMP_API_KEY", "from-env")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Clients.FMP.APIKey != "from-env" {
		t.Errorf("FMP.APIKey = %q, want %q", cfg.Clients.FMP.APIKey, "from-env")
	}
}

func TestConfig_GeminiKeyFallbackOrder(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "google-key")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Clients.Gemini.APIKey != "google-key" {
		t.Errorf("Gemini.APIKey = %q, want fallback %q", cfg.Clients.Gemini.APIKey, "google-key")
	}
}

func TestConfig_GetTimeoutParsesDuration(t *testing.T) {
	cfg := FMPConfig{Timeout: "45s"}
	if got := cfg.GetTimeout(); got != 45*time.Second {
		t.Errorf("GetTimeout() = %v, want 45s", got)
	}

	bad := FMPConfig{Timeout: "not-a-duration"}
	if got := bad.GetTimeout(); got != 10*time.Second {
		t.Errorf("GetTimeout() fallback = %v, want 10s", got)
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pallas.toml")
	content := `
[server]
port = 7070

[cache]
backend = "redis"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Cache.Backend != "redis" {
		t.Errorf("Cache.Backend = %q, want redis", cfg.Cache.Backend)
	}
	// Untouched sections keep their defaults.
	if cfg.Clients.FMP.BaseURL == "" {
		t.Error("FMP.BaseURL default lost after file merge")
	}
}

func TestLoadConfig_MissingFileIsSkipped(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/pallas.toml")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want default 8080", cfg.Server.Port)
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.IsProduction() {
		t.Error("default config should not be production")
	}
	cfg.Environment = "Production"
	if !cfg.IsProduction() {
		t.Error("environment Production should be production")
	}
}
