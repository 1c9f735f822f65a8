package plugins

import (
	"github.com/hashicorp/go-plugin"

	"components.dev/calc/internal/core/ports"
)

// BinaryPrefix is the file name prefix of provider executables
const BinaryPrefix = "calc-provider-"

// HandshakeConfig is shared by the host and every provider binary
var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "CALC_PLUGIN",
	MagicCookieValue: "calc_capability_provider",
}

// PluginMap returns the plugin set for the client side
func PluginMap() map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		ports.CapabilityAdder:      &AdderPlugin{},
		ports.CapabilitySubtractor: &SubtractorPlugin{},
	}
}

// BinaryName returns the executable name for a capability
func BinaryName(capability string) string {
	return BinaryPrefix + capability
}
