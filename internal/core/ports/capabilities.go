package ports

import "context"

// Capability names used when linking providers
const (
	CapabilityAdder      = "adder"
	CapabilitySubtractor = "subtractor"
)

// Adder is the imported add capability.
// In-process providers never fail; out-of-process providers surface
// transport or host failures through the error.
type Adder interface {
	Add(ctx context.Context, x, y uint32) (uint32, error)
}

// Subtractor is the imported subtract capability
type Subtractor interface {
	Subtract(ctx context.Context, x, y uint32) (uint32, error)
}

// AdderFunc adapts a function to the Adder interface
type AdderFunc func(ctx context.Context, x, y uint32) (uint32, error)

// Add calls f(ctx, x, y)
func (f AdderFunc) Add(ctx context.Context, x, y uint32) (uint32, error) {
	return f(ctx, x, y)
}

// SubtractorFunc adapts a function to the Subtractor interface
type SubtractorFunc func(ctx context.Context, x, y uint32) (uint32, error)

// Subtract calls f(ctx, x, y)
func (f SubtractorFunc) Subtract(ctx context.Context, x, y uint32) (uint32, error) {
	return f(ctx, x, y)
}

// Provider describes where a linked capability came from
type Provider struct {
	Capability string `json:"capability"`
	Kind       string `json:"kind"`
	Source     string `json:"source,omitempty"`
}
