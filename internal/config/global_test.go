package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeGlobalConfig(t *testing.T, xdg, content string) {
	t.Helper()
	configDir := filepath.Join(xdg, GlobalConfigDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, GlobalConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	path := GlobalConfigPath()
	want := "/custom/config/litbib/config.yml"
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}

	// Empty XDG_CONFIG_HOME falls back to ~/.config
	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	path = GlobalConfigPath()
	want = filepath.Join(home, ".config", "litbib", "config.yml")
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}
}

func TestLoadGlobalConfig_NotFound(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadGlobalConfig() returned nil")
	}
	if cfg.S2APIKey != "" {
		t.Errorf("S2APIKey = %q, want empty", cfg.S2APIKey)
	}
}

func TestLoadGlobalConfig_Valid(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	tmpDir := t.TempDir()
	writeGlobalConfig(t, tmpDir, "s2_api_key: test-s2-key\nmailto: lib@example.org\n")
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.S2APIKey != "test-s2-key" {
		t.Errorf("S2APIKey = %q, want test-s2-key", cfg.S2APIKey)
	}
	if cfg.Mailto != "lib@example.org" {
		t.Errorf("Mailto = %q, want lib@example.org", cfg.Mailto)
	}
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	tmpDir := t.TempDir()
	writeGlobalConfig(t, tmpDir, "s2_api_key: [unclosed\n")
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	if _, err := LoadGlobalConfig(); err == nil {
		t.Error("LoadGlobalConfig() should return error for invalid YAML")
	}
}

func TestGetS2APIKey(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()

	tmpDir := t.TempDir()
	writeGlobalConfig(t, tmpDir, "s2_api_key: config-s2-key\n")
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	// Env var takes priority
	t.Setenv(EnvS2APIKey, "env-s2-key")
	if got := GetS2APIKey(); got != "env-s2-key" {
		t.Errorf("GetS2APIKey() = %q, want env-s2-key", got)
	}

	// Without env var, falls back to config
	t.Setenv(EnvS2APIKey, "")
	if got := GetS2APIKey(); got != "config-s2-key" {
		t.Errorf("GetS2APIKey() = %q, want config-s2-key", got)
	}
}
