package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"components.dev/calc/internal/application/services"
	"components.dev/calc/internal/infrastructure/config"
	"components.dev/calc/internal/interfaces/api"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// CLIContainer holds all the dependencies for CLI commands
type CLIContainer struct {
	Config        *config.Config
	Logger        hclog.Logger
	Linker        *services.Linker
	Evaluations   *services.EvaluationService
	Server        *api.Server
	MainContainer interface{} // Will be set to *di.Container, avoiding circular import
}

// Overrides carries the global flags that change the container
type Overrides struct {
	ConfigPath string
	Debug      bool
	LogLevel   string
	Adder      string
	Subtractor string
}

// NewRootCommand creates the base command when called without any subcommands
func NewRootCommand(container *CLIContainer) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "calc",
		Short: "calc - a calculator composed from pluggable capability providers",
		Long: `calc evaluates add and subtract expressions by routing each call to an
imported capability provider.

Each provider can be linked in-process (builtin), as a separate plugin
executable (plugin) or as a WebAssembly module (wasm). All arithmetic is
unsigned 32-bit and wraps on overflow and underflow.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyOverrides(cmd, container); err != nil {
				return fmt.Errorf("failed to apply configuration overrides: %w", err)
			}
			return nil
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().String("config", "", "Config file path (default is $HOME/.calc/config.json)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("adder", "", "Adder provider as kind[:path] (builtin, plugin, wasm)")
	rootCmd.PersistentFlags().String("subtractor", "", "Subtractor provider as kind[:path] (builtin, plugin, wasm)")

	rootCmd.AddCommand(NewEvalCommand(container))
	rootCmd.AddCommand(NewAddCommand(container))
	rootCmd.AddCommand(NewSubtractCommand(container))
	rootCmd.AddCommand(NewProvidersCommand(container))
	rootCmd.AddCommand(NewServeCommand(container))
	rootCmd.AddCommand(NewREPLCommand(container))
	rootCmd.AddCommand(NewUpdateCommand(container))

	return rootCmd
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// applyOverrides hands explicitly set global flags to the main container
func applyOverrides(cmd *cobra.Command, container *CLIContainer) error {
	mainContainer, ok := container.MainContainer.(interface {
		ApplyOverrides(Overrides) error
	})
	if !ok {
		return nil
	}

	var o Overrides
	flags := cmd.Flags()
	if flags.Changed("config") {
		o.ConfigPath, _ = flags.GetString("config")
	}
	if flags.Changed("debug") {
		o.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("log-level") {
		o.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("adder") {
		o.Adder, _ = flags.GetString("adder")
	}
	if flags.Changed("subtractor") {
		o.Subtractor, _ = flags.GetString("subtractor")
	}

	return mainContainer.ApplyOverrides(o)
}

// link resolves the providers once per process
func link(ctx context.Context, container *CLIContainer) error {
	if len(container.Linker.Providers()) > 0 {
		return nil
	}
	if err := container.Linker.Link(ctx); err != nil {
		return fmt.Errorf("failed to link providers: %w", err)
	}
	return nil
}

// Execute adds all child commands to the root command and runs it.
// The error has already been reported on stderr when it is returned.
func Execute(ctx context.Context, container *CLIContainer) error {
	rootCmd := NewRootCommand(container)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
