package plugins

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"components.dev/calc/internal/core/ports"
)

// Serve runs a provider binary for one capability. It blocks until the
// host closes the connection.
func Serve(capability string, impl interface{}, logger hclog.Logger) error {
	var p plugin.Plugin
	switch capability {
	case ports.CapabilityAdder:
		adder, ok := impl.(ports.Adder)
		if !ok {
			return fmt.Errorf("%T does not implement the adder capability", impl)
		}
		p = &AdderPlugin{Impl: adder}
	case ports.CapabilitySubtractor:
		subtractor, ok := impl.(ports.Subtractor)
		if !ok {
			return fmt.Errorf("%T does not implement the subtractor capability", impl)
		}
		p = &SubtractorPlugin{Impl: subtractor}
	default:
		return fmt.Errorf("unknown capability: %s", capability)
	}

	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: HandshakeConfig,
		Plugins:         map[string]plugin.Plugin{capability: p},
		Logger:          logger,
	})
	return nil
}
