// Command calc-provider-adder serves the adder capability to a calc host.
package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"components.dev/calc/internal/core/adder"
	"components.dev/calc/internal/core/ports"
	"components.dev/calc/internal/infrastructure/plugins"
)

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:       plugins.BinaryName(ports.CapabilityAdder),
		Level:      hclog.Trace,
		Output:     os.Stderr,
		JSONFormat: true,
	})

	if err := plugins.Serve(ports.CapabilityAdder, adder.Adder{}, logger); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
