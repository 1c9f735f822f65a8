package plugins

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"

	"components.dev/calc/internal/core/adder"
	"components.dev/calc/internal/core/ports"
)

func TestServe_RejectsMismatchedImplementation(t *testing.T) {
	err := Serve(ports.CapabilitySubtractor, adder.Adder{}, hclog.NewNullLogger())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "does not implement the subtractor capability")
}

func TestServe_RejectsUnknownCapability(t *testing.T) {
	err := Serve("multiplier", adder.Adder{}, hclog.NewNullLogger())
	assert.EqualError(t, err, "unknown capability: multiplier")
}

func TestBinaryName(t *testing.T) {
	assert.Equal(t, "calc-provider-adder", BinaryName(ports.CapabilityAdder))
	assert.Len(t, PluginMap(), 2)
}
