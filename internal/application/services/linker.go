package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-hclog"

	"components.dev/calc/internal/core/adder"
	"components.dev/calc/internal/core/calculator"
	"components.dev/calc/internal/core/domain"
	"components.dev/calc/internal/core/ports"
	"components.dev/calc/internal/core/subtractor"
	"components.dev/calc/internal/infrastructure/config"
	"components.dev/calc/internal/infrastructure/logging"
	"components.dev/calc/internal/infrastructure/plugins"
	"components.dev/calc/internal/infrastructure/wasm"
)

// ErrNotLinked is returned when a call arrives before Link succeeded
var ErrNotLinked = errors.New("calculator is not linked")

// LinkerConfig selects a provider per capability
type LinkerConfig struct {
	Adder      config.ProviderConfig
	Subtractor config.ProviderConfig
	PluginDirs []string
	Debug      bool
}

// NewLinkerConfig derives the linker settings from the loaded configuration
func NewLinkerConfig(cfg *config.Config) LinkerConfig {
	return LinkerConfig{
		Adder:      cfg.Adder,
		Subtractor: cfg.Subtractor,
		PluginDirs: []string{cfg.PluginsDir},
		Debug:      cfg.Debug,
	}
}

// composition is one resolved set of providers
type composition struct {
	calc       *calculator.Calculator
	adder      ports.Adder
	subtractor ports.Subtractor
	providers  []ports.Provider
	closers    []func()
}

func (c *composition) close() {
	for _, closeFn := range c.closers {
		closeFn()
	}
}

// Linker resolves the imported capabilities and assembles the calculator.
// Relink swaps in a new composition once in-flight calls have finished.
type Linker struct {
	cfg    LinkerConfig
	logger hclog.Logger

	mu      sync.RWMutex
	current *composition
}

// NewLinker creates an unlinked Linker
func NewLinker(cfg LinkerConfig, logger hclog.Logger) *Linker {
	return &Linker{
		cfg:    cfg,
		logger: logger.Named("linker"),
	}
}

// SetProvider overrides the provider of one capability for the next Link
func (l *Linker) SetProvider(capability string, p config.ProviderConfig) error {
	if err := config.ValidateProvider(capability, p); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	switch capability {
	case ports.CapabilityAdder:
		l.cfg.Adder = p
	case ports.CapabilitySubtractor:
		l.cfg.Subtractor = p
	default:
		return fmt.Errorf("unknown capability: %s", capability)
	}
	return nil
}

// Link resolves both capabilities. It is equivalent to Relink.
func (l *Linker) Link(ctx context.Context) error {
	return l.Relink(ctx)
}

// Relink resolves both capabilities again and swaps the composition.
// On failure the previous composition stays in place.
func (l *Linker) Relink(ctx context.Context) error {
	l.mu.RLock()
	cfg := l.cfg
	l.mu.RUnlock()

	next, err := l.resolve(ctx, cfg)
	if err != nil {
		return err
	}

	l.mu.Lock()
	previous := l.current
	l.current = next
	l.mu.Unlock()

	if previous != nil {
		previous.close()
	}

	for _, p := range next.providers {
		l.logger.Info("capability linked", "capability", p.Capability, "kind", p.Kind, "source", p.Source)
	}
	return nil
}

func (l *Linker) resolve(ctx context.Context, cfg LinkerConfig) (*composition, error) {
	comp := &composition{}

	rawAdder, provider, closeFn, err := l.resolveOne(ctx, ports.CapabilityAdder, cfg.Adder, cfg)
	if err != nil {
		return nil, err
	}
	comp.closers = append(comp.closers, closeFn)
	a, ok := rawAdder.(ports.Adder)
	if !ok {
		comp.close()
		return nil, fmt.Errorf("%w: %s does not provide add", ports.ErrProviderUnavailable, provider.Source)
	}
	comp.adder = a
	comp.providers = append(comp.providers, provider)

	rawSubtractor, provider, closeFn, err := l.resolveOne(ctx, ports.CapabilitySubtractor, cfg.Subtractor, cfg)
	if err != nil {
		comp.close()
		return nil, err
	}
	comp.closers = append(comp.closers, closeFn)
	s, ok := rawSubtractor.(ports.Subtractor)
	if !ok {
		comp.close()
		return nil, fmt.Errorf("%w: %s does not provide subtract", ports.ErrProviderUnavailable, provider.Source)
	}
	comp.subtractor = s
	comp.providers = append(comp.providers, provider)

	comp.calc = calculator.New(comp.adder, comp.subtractor)
	return comp, nil
}

func (l *Linker) resolveOne(ctx context.Context, capability string, pc config.ProviderConfig, cfg LinkerConfig) (interface{}, ports.Provider, func(), error) {
	provider := ports.Provider{Capability: capability, Kind: pc.Kind, Source: pc.Path}
	noop := func() {}

	switch pc.Kind {
	case config.KindBuiltin:
		provider.Source = "in-process"
		if capability == ports.CapabilityAdder {
			return adder.Adder{}, provider, noop, nil
		}
		return subtractor.Subtractor{}, provider, noop, nil

	case config.KindPlugin:
		path := pc.Path
		if path == "" {
			located, err := plugins.Locate(capability, cfg.PluginDirs)
			if err != nil {
				return nil, provider, nil, err
			}
			path = located
		}
		provider.Source = path

		loaded, err := plugins.LoadProvider(ctx, capability, path, logging.NewPluginLogger(l.logger, capability, cfg.Debug))
		if err != nil {
			return nil, provider, nil, fmt.Errorf("%w: %s: %v", ports.ErrProviderUnavailable, capability, err)
		}
		return loaded.Provider, provider, loaded.Close, nil

	case config.KindWasm:
		if pc.Path == "" {
			return nil, provider, nil, fmt.Errorf("%w: %s: wasm provider requires a module path", ports.ErrProviderUnavailable, capability)
		}
		var (
			raw interface{}
			mod *wasm.Module
			err error
		)
		if capability == ports.CapabilityAdder {
			var a wasm.Adder
			a, err = wasm.LoadAdder(ctx, pc.Path)
			raw, mod = a, a.Module
		} else {
			var s wasm.Subtractor
			s, err = wasm.LoadSubtractor(ctx, pc.Path)
			raw, mod = s, s.Module
		}
		if err != nil {
			return nil, provider, nil, fmt.Errorf("%w: %s: %v", ports.ErrProviderUnavailable, capability, err)
		}
		closeFn := func() {
			if err := mod.Close(context.Background()); err != nil {
				l.logger.Warn("failed to close wasm module", "path", pc.Path, "error", err)
			}
		}
		return raw, provider, closeFn, nil

	default:
		return nil, provider, nil, fmt.Errorf("%w: %s: %q", ports.ErrUnknownProviderKind, capability, pc.Kind)
	}
}

// EvalExpression evaluates against the current composition
func (l *Linker) EvalExpression(ctx context.Context, op domain.Op, x, y uint32) (uint32, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.current == nil {
		return 0, ErrNotLinked
	}
	return l.current.calc.EvalExpression(ctx, op, x, y)
}

// Add calls the linked adder directly
func (l *Linker) Add(ctx context.Context, x, y uint32) (uint32, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.current == nil {
		return 0, ErrNotLinked
	}
	return l.current.adder.Add(ctx, x, y)
}

// Subtract calls the linked subtractor directly
func (l *Linker) Subtract(ctx context.Context, x, y uint32) (uint32, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.current == nil {
		return 0, ErrNotLinked
	}
	return l.current.subtractor.Subtract(ctx, x, y)
}

// Providers describes the current composition
func (l *Linker) Providers() []ports.Provider {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.current == nil {
		return nil
	}
	out := make([]ports.Provider, len(l.current.providers))
	copy(out, l.current.providers)
	return out
}

// WatchDirs returns the directories whose changes should trigger Relink
func (l *Linker) WatchDirs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		dir = config.ExpandPath(dir)
		if dir != "" && !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, pc := range []config.ProviderConfig{l.cfg.Adder, l.cfg.Subtractor} {
		switch pc.Kind {
		case config.KindPlugin:
			if pc.Path != "" {
				add(filepath.Dir(pc.Path))
			} else {
				for _, dir := range l.cfg.PluginDirs {
					add(dir)
				}
			}
		case config.KindWasm:
			add(filepath.Dir(pc.Path))
		}
	}
	return dirs
}

// Close releases provider processes and wasm runtimes
func (l *Linker) Close() {
	l.mu.Lock()
	current := l.current
	l.current = nil
	l.mu.Unlock()

	if current != nil {
		current.close()
	}
}
