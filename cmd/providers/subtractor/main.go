// Command calc-provider-subtractor serves the subtractor capability to a calc host.
package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"components.dev/calc/internal/core/ports"
	"components.dev/calc/internal/core/subtractor"
	"components.dev/calc/internal/infrastructure/plugins"
)

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:       plugins.BinaryName(ports.CapabilitySubtractor),
		Level:      hclog.Trace,
		Output:     os.Stderr,
		JSONFormat: true,
	})

	if err := plugins.Serve(ports.CapabilitySubtractor, subtractor.Subtractor{}, logger); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
