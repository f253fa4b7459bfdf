package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BinaryPath != "sbx" {
		t.Errorf("BinaryPath = %q, want sbx", cfg.BinaryPath)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.StatePath == "" || cfg.LogPath == "" {
		t.Error("state and log paths should have defaults")
	}
}

func TestLoadOverridesOnlyProvidedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"binary_path": "/opt/sbx/bin/sbx", "network": "none", "binds": ["/data"]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BinaryPath != "/opt/sbx/bin/sbx" {
		t.Errorf("BinaryPath = %q", cfg.BinaryPath)
	}
	if cfg.Network != NetworkNone {
		t.Errorf("Network = %q, want none", cfg.Network)
	}
	if len(cfg.Binds) != 1 || cfg.Binds[0] != "/data" {
		t.Errorf("Binds = %v", cfg.Binds)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("unset LogLevel should default to info, got %q", cfg.LogLevel)
	}
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected an error for malformed config")
	}
}

func TestValidateNetwork(t *testing.T) {
	cfg := DefaultConfig()
	for _, mode := range []string{NetworkDefault, NetworkHost, NetworkNone} {
		cfg.Network = mode
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() with network %q: %v", mode, err)
		}
	}
	cfg.Network = "bridge"
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for unknown network mode")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := DefaultConfig()
	cfg.SandboxName = "demo"
	cfg.Masks = []string{"/secrets"}
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.SandboxName != "demo" {
		t.Errorf("SandboxName = %q, want demo", loaded.SandboxName)
	}
	if len(loaded.Masks) != 1 || loaded.Masks[0] != "/secrets" {
		t.Errorf("Masks = %v", loaded.Masks)
	}
}
