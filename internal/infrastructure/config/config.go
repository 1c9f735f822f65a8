package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider kinds
const (
	KindBuiltin = "builtin"
	KindPlugin  = "plugin"
	KindWasm    = "wasm"
)

// ProviderConfig selects how a capability is linked
type ProviderConfig struct {
	Kind string `json:"kind" yaml:"kind"`
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// String renders the provider as kind[:path]
func (p ProviderConfig) String() string {
	if p.Path == "" {
		return p.Kind
	}
	return p.Kind + ":" + p.Path
}

type Config struct {
	Adder      ProviderConfig `json:"adder" yaml:"adder"`
	Subtractor ProviderConfig `json:"subtractor" yaml:"subtractor"`

	PluginsDir  string `json:"plugins_dir" yaml:"plugins_dir"`
	LogLevel    string `json:"log_level" yaml:"log_level"`
	LogJSON     bool   `json:"log_json" yaml:"log_json"`
	Debug       bool   `json:"debug" yaml:"debug"`
	ListenAddr  string `json:"listen_addr" yaml:"listen_addr"`
	ReleaseSlug string `json:"release_slug" yaml:"release_slug"`
}

// Default returns the configuration used when no file or env is present
func Default() *Config {
	return &Config{
		Adder:       ProviderConfig{Kind: KindBuiltin},
		Subtractor:  ProviderConfig{Kind: KindBuiltin},
		PluginsDir:  "~/.calc/plugins",
		LogLevel:    "info",
		ListenAddr:  "127.0.0.1:8080",
		ReleaseSlug: "components-dev/calc",
	}
}

// DefaultPath returns $HOME/.calc/config.json
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "calc-config.json"
	}
	return filepath.Join(home, ".calc", "config.json")
}

// Load builds the configuration from defaults, the config file and
// CALC_* environment variables, in that order of precedence.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		configPath = os.Getenv("CALC_CONFIG")
		if configPath == "" {
			configPath = DefaultPath()
		}
	}

	if err := loadFile(configPath, cfg); err != nil {
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("CALC_ADDER"); v != "" {
		cfg.Adder = ParseProvider(v)
	}
	if v := os.Getenv("CALC_SUBTRACTOR"); v != "" {
		cfg.Subtractor = ParseProvider(v)
	}
	if v := os.Getenv("CALC_PLUGINS_DIR"); v != "" {
		cfg.PluginsDir = v
	}
	if v := os.Getenv("CALC_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CALC_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("CALC_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid CALC_DEBUG value %q: %w", v, err)
		}
		cfg.Debug = debug
	}
	return nil
}

// ParseProvider parses kind[:path], e.g. "wasm:./adder.wasm"
func ParseProvider(value string) ProviderConfig {
	kind, path, _ := strings.Cut(strings.TrimSpace(value), ":")
	return ProviderConfig{
		Kind: strings.ToLower(kind),
		Path: path,
	}
}

// Save writes the configuration as JSON
func Save(cfg *Config, path string) error {
	path = ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// ExpandPath expands ~ to the user home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
