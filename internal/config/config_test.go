package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	tmp := t.TempDir()
	confDir := filepath.Join(tmp, "bearing")
	if err := os.MkdirAll(confDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(confDir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("HOME", tmp)
	return tmp
}

func TestLoadYAMLConfig(t *testing.T) {
	writeConfig(t, "config.yaml", `server: http://daemon:9000/
github_owner: someone
reconnect_delay: 2s
state:
  backend: sqlite
log:
  level: debug
theme: custom`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server != "http://daemon:9000" {
		t.Fatalf("server mismatch: %s", cfg.Server)
	}
	if cfg.GitHubOwner != "someone" {
		t.Fatalf("github_owner mismatch: %s", cfg.GitHubOwner)
	}
	if cfg.ReconnectDelay != 2*time.Second {
		t.Fatalf("reconnect_delay mismatch: %s", cfg.ReconnectDelay)
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("request_timeout should default: %s", cfg.RequestTimeout)
	}
	if cfg.State.Backend != "sqlite" {
		t.Fatalf("state.backend mismatch: %s", cfg.State.Backend)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log.level mismatch: %s", cfg.Log.Level)
	}
	if cfg.Theme != "custom" {
		t.Fatalf("theme mismatch: %s", cfg.Theme)
	}
}

func TestLoadTOMLFallback(t *testing.T) {
	writeConfig(t, "config.toml", `server = "http://toml:1234"
github_owner = "tomler"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server != "http://toml:1234" || cfg.GitHubOwner != "tomler" {
		t.Fatalf("toml not applied: %+v", cfg)
	}
}

func TestYAMLWinsOverTOML(t *testing.T) {
	tmp := writeConfig(t, "config.toml", `server = "http://toml:1"`)
	yamlPath := filepath.Join(tmp, "bearing", "config.yaml")
	if err := os.WriteFile(yamlPath, []byte("server: http://yaml:1\n"), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	l := NewLoader()
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server != "http://yaml:1" {
		t.Fatalf("expected yaml to take precedence, got %s", cfg.Server)
	}
	if l.File() != yamlPath {
		t.Fatalf("config file used = %s", l.File())
	}
}

func TestDefaultsWithoutFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("HOME", tmp)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server != defaultServer || cfg.ReconnectDelay != defaultReconnectDelay || cfg.State.Backend != defaultBackend {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestEnvOverride(t *testing.T) {
	writeConfig(t, "config.yaml", `server: http://file:1`)
	t.Setenv("BEARING_SERVER", "http://env:2")
	t.Setenv("BEARING_STATE_BACKEND", "sqlite")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server != "http://env:2" {
		t.Fatalf("env should win over file: %s", cfg.Server)
	}
	if cfg.State.Backend != "sqlite" {
		t.Fatalf("nested env override missing: %s", cfg.State.Backend)
	}
}

func TestMarshalAndWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bearing", "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("write default: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "server: http://localhost:8374") {
		t.Fatalf("unexpected yaml:\n%s", data)
	}

	t.Setenv("XDG_CONFIG_HOME", filepath.Dir(filepath.Dir(path)))
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load written default: %v", err)
	}
	if cfg.ReconnectDelay != defaultReconnectDelay {
		t.Fatalf("duration did not round-trip: %s", cfg.ReconnectDelay)
	}
}
