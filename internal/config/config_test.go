package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[simulation]
tick_rate = "50ms"
max_ticks = 100

[database]
enabled = true
dsn = "postgres://localhost/test"

[logging]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Simulation.TickRate != 50*time.Millisecond || cfg.Simulation.MaxTicks != 100 {
		t.Fatalf("unexpected simulation section %+v", cfg.Simulation)
	}
	if !cfg.Database.Enabled || cfg.Database.DSN != "postgres://localhost/test" {
		t.Fatalf("unexpected database section %+v", cfg.Database)
	}
	if cfg.Database.MaxOpenConns != 10 || cfg.Data.Actions != "data/yaml/actions.yaml" {
		t.Fatal("expected untouched keys to keep their defaults")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging section %+v", cfg.Logging)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name, body, want string
	}{
		{"zero tick rate", "[simulation]\ntick_rate = \"0s\"\n", "tick_rate"},
		{"enabled without dsn", "[database]\nenabled = true\ndsn = \"\"\n", "dsn"},
		{"bad toml", "[simulation\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestShippedConfigLoads(t *testing.T) {
	cfg, err := Load("../../config/server.toml")
	if err != nil {
		t.Fatalf("load shipped config: %v", err)
	}
	if cfg.Database.Enabled {
		t.Fatal("shipped config should not require a database")
	}
}
