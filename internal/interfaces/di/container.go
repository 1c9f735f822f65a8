package di

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"components.dev/calc/internal/application/services"
	"components.dev/calc/internal/infrastructure/config"
	"components.dev/calc/internal/infrastructure/logging"
	"components.dev/calc/internal/interfaces/api"
	"components.dev/calc/internal/interfaces/cli"
)

// Components is the object graph built from one configuration
type Components struct {
	Config      *config.Config
	Logger      hclog.Logger
	Linker      *services.Linker
	Evaluations *services.EvaluationService
	Server      *api.Server
}

// Container holds all application dependencies
type Container struct {
	*Components

	// CLI
	CLIContainer *cli.CLIContainer

	configPath string
}

// NewContainer creates and configures the dependency injection container
func NewContainer() (*Container, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	container := &Container{}
	if err := container.initializeComponents(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize components: %w", err)
	}
	return container, nil
}

// initializeComponents validates cfg and rebuilds the object graph from it
func (c *Container) initializeComponents(cfg *config.Config) error {
	if err := config.Validate(cfg); err != nil {
		return err
	}

	components, err := InitializeComponents(cfg)
	if err != nil {
		return err
	}

	if c.Components != nil && c.Linker != nil {
		c.Linker.Close()
	}
	c.Components = components

	if c.CLIContainer == nil {
		c.CLIContainer = &cli.CLIContainer{
			MainContainer: c, // Reference to self for override methods
		}
	}
	c.CLIContainer.Config = components.Config
	c.CLIContainer.Logger = components.Logger
	c.CLIContainer.Linker = components.Linker
	c.CLIContainer.Evaluations = components.Evaluations
	c.CLIContainer.Server = components.Server

	c.Logger.Debug("dependency injection container initialized",
		"adder", cfg.Adder.String(), "subtractor", cfg.Subtractor.String())
	return nil
}

// GetCLIContainer returns the CLI container for command execution
func (c *Container) GetCLIContainer() *cli.CLIContainer {
	return c.CLIContainer
}

// ApplyOverrides rebuilds the components from the global command-line flags.
// Flags take precedence over the config file and CALC_* variables.
func (c *Container) ApplyOverrides(o cli.Overrides) error {
	cfg := *c.Config
	if o.ConfigPath != "" {
		loaded, err := config.Load(o.ConfigPath)
		if err != nil {
			return err
		}
		cfg = *loaded
		c.configPath = o.ConfigPath
	}

	if o.Debug {
		cfg.Debug = true
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.Adder != "" {
		cfg.Adder = config.ParseProvider(o.Adder)
	}
	if o.Subtractor != "" {
		cfg.Subtractor = config.ParseProvider(o.Subtractor)
	}

	if cfg == *c.Config {
		return nil
	}
	return c.initializeComponents(&cfg)
}

// ConfigPath returns the explicitly selected config file, if any
func (c *Container) ConfigPath() string {
	return c.configPath
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	c.Logger.Debug("shutting down application")

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Linker.Close()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// provideLogger builds the host logger from the configuration
func provideLogger(cfg *config.Config) hclog.Logger {
	return logging.NewLogger(logging.Options{
		Level:  cfg.LogLevel,
		Debug:  cfg.Debug,
		JSON:   cfg.LogJSON,
		Output: os.Stderr,
	})
}
