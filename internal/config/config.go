package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Network modes understood by the sandbox binary.
const (
	NetworkDefault = ""
	NetworkHost    = "host"
	NetworkNone    = "none"
)

// Config represents application configuration. It is resolved once at
// startup and passed explicitly to everything that talks to the sandbox
// binary; nothing reads settings ad hoc after that.
type Config struct {
	BinaryPath     string   `json:"binary_path"`
	SandboxName    string   `json:"sandbox_name,omitempty"`
	Network        string   `json:"network,omitempty"` // "host", "none" or "" for the binary's default
	Binds          []string `json:"binds,omitempty"`
	Masks          []string `json:"masks,omitempty"`
	NoDefaultBinds bool     `json:"no_default_binds,omitempty"`
	IncludeIgnored bool     `json:"include_ignored,omitempty"`
	Roots          []string `json:"roots,omitempty"` // workspace folders shown in the panel
	LogLevel       string   `json:"log_level"`
	LogPath        string   `json:"-"`
	StatePath      string   `json:"-"`
}

func defaultConfigDir() string {
	switch runtime.GOOS {
	case "linux":
		if configHome := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); configHome != "" {
			return filepath.Join(configHome, "sbxpanel")
		}
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, ".config", "sbxpanel")
	case "windows":
		if appData := strings.TrimSpace(os.Getenv("APPDATA")); appData != "" {
			return filepath.Join(appData, "sbxpanel")
		}
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, "AppData", "Roaming", "sbxpanel")
	default:
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, ".config", "sbxpanel")
	}
}

func defaultStateDir() string {
	switch runtime.GOOS {
	case "linux":
		if stateHome := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); stateHome != "" {
			return filepath.Join(stateHome, "sbxpanel")
		}
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, ".local", "state", "sbxpanel")
	case "windows":
		if localAppData := strings.TrimSpace(os.Getenv("LOCALAPPDATA")); localAppData != "" {
			return filepath.Join(localAppData, "sbxpanel")
		}
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, "AppData", "Local", "sbxpanel")
	default:
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, ".config", "sbxpanel")
	}
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	stateDir := defaultStateDir()

	return &Config{
		BinaryPath: "sbx",
		Network:    NetworkDefault,
		LogLevel:   "info",
		LogPath:    filepath.Join(stateDir, "sbxpanel.log"),
		StatePath:  filepath.Join(stateDir, "state.db"),
	}
}

// Load loads configuration from file. A missing file yields the defaults;
// a present file overrides only the fields it sets.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	stateDir := defaultStateDir()
	if config.BinaryPath == "" {
		config.BinaryPath = "sbx"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogPath == "" {
		config.LogPath = filepath.Join(stateDir, "sbxpanel.log")
	}
	if config.StatePath == "" {
		config.StatePath = filepath.Join(stateDir, "state.db")
	}

	return config, nil
}

// Validate checks the fields that the sandbox binary would otherwise
// reject at spawn time.
func (c *Config) Validate() error {
	switch c.Network {
	case NetworkDefault, NetworkHost, NetworkNone:
	default:
		return fmt.Errorf("invalid network mode %q (want %q or %q)", c.Network, NetworkHost, NetworkNone)
	}
	return nil
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetConfigPath returns the default config path
func GetConfigPath() string {
	return filepath.Join(defaultConfigDir(), "config.json")
}
