package testfixtures

import (
	"components.dev/calc/internal/infrastructure/config"
)

// ConfigBuilder provides a builder pattern for creating test configurations
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a new ConfigBuilder starting from the defaults
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{cfg: *config.Default()}
}

// WithAdder selects the adder provider
func (b *ConfigBuilder) WithAdder(kind, path string) *ConfigBuilder {
	b.cfg.Adder = config.ProviderConfig{Kind: kind, Path: path}
	return b
}

// WithSubtractor selects the subtractor provider
func (b *ConfigBuilder) WithSubtractor(kind, path string) *ConfigBuilder {
	b.cfg.Subtractor = config.ProviderConfig{Kind: kind, Path: path}
	return b
}

// WithPluginsDir sets the plugin search directory
func (b *ConfigBuilder) WithPluginsDir(dir string) *ConfigBuilder {
	b.cfg.PluginsDir = dir
	return b
}

// WithListenAddr sets the HTTP listen address
func (b *ConfigBuilder) WithListenAddr(addr string) *ConfigBuilder {
	b.cfg.ListenAddr = addr
	return b
}

// WithDebug enables or disables debug mode
func (b *ConfigBuilder) WithDebug(enabled bool) *ConfigBuilder {
	b.cfg.Debug = enabled
	return b
}

// Build returns a copy of the configuration
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.cfg
	return &cfg
}
