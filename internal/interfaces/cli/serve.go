package cli

import (
	"context"

	"github.com/spf13/cobra"

	"components.dev/calc/internal/infrastructure/config"
	"components.dev/calc/internal/infrastructure/plugins"
)

// ServeFlags holds command-line flags for the serve command
type ServeFlags struct {
	Addr  string
	Watch bool
}

// NewServeCommand creates the serve command
func NewServeCommand(container *CLIContainer) *cobra.Command {
	flags := &ServeFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP",
		Long: `Run the HTTP host. Routes:

  GET  /health
  GET  /v1/providers
  GET  /v1/eval/{op}?x=&y=
  POST /v1/eval            {"op":"add","x":2,"y":3}
  GET  /v1/stream          websocket, one JSON result frame per request frame

With --watch, changes to plugin binaries or wasm modules relink the
providers without restarting the host.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := container.Config.ListenAddr
			if cmd.Flags().Changed("addr") {
				addr = flags.Addr
			}
			if err := config.ValidateListenAddr(addr); err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := link(ctx, container); err != nil {
				return err
			}

			if flags.Watch {
				stop, err := watchProviders(ctx, container)
				if err != nil {
					return err
				}
				defer stop()
			}

			return container.Server.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&flags.Addr, "addr", "", "Listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().BoolVar(&flags.Watch, "watch", false, "Relink providers when their files change")

	return cmd
}

// watchProviders relinks on every debounced change in the provider directories
func watchProviders(ctx context.Context, container *CLIContainer) (func(), error) {
	linker := container.Linker
	dirs := linker.WatchDirs()
	if len(dirs) == 0 {
		container.Logger.Info("no plugin or wasm providers configured, nothing to watch")
		return func() {}, nil
	}

	watcher := plugins.NewWatcher(dirs, container.Logger.Named("watcher"))
	if err := watcher.Start(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for path := range watcher.Changes() {
			container.Logger.Info("provider change detected, relinking", "path", path)
			if err := linker.Relink(ctx); err != nil {
				container.Logger.Error("relink failed, keeping previous providers", "error", err)
			}
		}
	}()

	return func() {
		watcher.Stop()
		<-done
	}, nil
}
