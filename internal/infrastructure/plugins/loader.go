package plugins

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

// LoadedProvider is a running provider process and the capability it dispensed
type LoadedProvider struct {
	Capability string
	Path       string
	Provider   interface{}
	Client     *plugin.Client
	PID        int
}

// Close stops the provider process
func (l *LoadedProvider) Close() {
	if l.Client != nil {
		l.Client.Kill()
	}
}

// LoadProvider starts a provider binary and dispenses the named capability.
// The process is killed again on any failure.
func LoadProvider(ctx context.Context, capability, path string, logger hclog.Logger) (*LoadedProvider, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("plugin file check failed: %w", err)
	}
	if !info.Mode().IsRegular() || info.Mode()&0111 == 0 {
		return nil, fmt.Errorf("plugin %s is not executable", path)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(path)
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  HandshakeConfig,
		Plugins:          PluginMap(),
		Cmd:              cmd,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolNetRPC},
		Logger:           logger,
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to connect to plugin: %w", err)
	}

	raw, err := rpcClient.Dispense(capability)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to dispense %s: %w", capability, err)
	}

	pid := 0
	if cmd.Process != nil {
		pid = cmd.Process.Pid
	}

	logger.Debug("provider started", "capability", capability, "path", path, "pid", pid)

	return &LoadedProvider{
		Capability: capability,
		Path:       path,
		Provider:   raw,
		Client:     client,
		PID:        pid,
	}, nil
}
