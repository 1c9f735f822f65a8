package config

import (
	"errors"
	"fmt"
	"net"

	"components.dev/calc/internal/infrastructure/logging"
)

// Validate checks a loaded configuration and reports every problem found
func Validate(cfg *Config) error {
	var errs []error

	if err := ValidateProvider("adder", cfg.Adder); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateProvider("subtractor", cfg.Subtractor); err != nil {
		errs = append(errs, err)
	}
	if cfg.LogLevel != "" && !logging.ValidLevel(cfg.LogLevel) {
		errs = append(errs, fmt.Errorf("unknown log level: %s", cfg.LogLevel))
	}
	if err := ValidateListenAddr(cfg.ListenAddr); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ValidateProvider checks a single provider selection
func ValidateProvider(capability string, p ProviderConfig) error {
	switch p.Kind {
	case KindBuiltin:
		if p.Path != "" {
			return fmt.Errorf("%s: builtin provider does not take a path", capability)
		}
	case KindPlugin:
		// path is optional, the plugins directory is searched otherwise
	case KindWasm:
		if p.Path == "" {
			return fmt.Errorf("%s: wasm provider requires a module path", capability)
		}
	case "":
		return fmt.Errorf("%s: provider kind cannot be empty", capability)
	default:
		return fmt.Errorf("%s: unsupported provider kind: %s (must be builtin, plugin or wasm)", capability, p.Kind)
	}
	return nil
}

// ValidateListenAddr checks a host:port listen address
func ValidateListenAddr(addr string) error {
	if addr == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	return nil
}
