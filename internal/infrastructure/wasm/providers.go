package wasm

import (
	"context"

	"components.dev/calc/internal/core/ports"
)

// Adder serves the adder capability from a module exporting "add"
type Adder struct {
	*Module
}

func (a Adder) Add(ctx context.Context, x, y uint32) (uint32, error) {
	result, err := a.Call(ctx, x, y)
	if err != nil {
		return 0, &ports.ProviderError{Capability: ports.CapabilityAdder, Kind: "wasm", Err: err}
	}
	return result, nil
}

// Subtractor serves the subtractor capability from a module exporting "subtract"
type Subtractor struct {
	*Module
}

func (s Subtractor) Subtract(ctx context.Context, x, y uint32) (uint32, error) {
	result, err := s.Call(ctx, x, y)
	if err != nil {
		return 0, &ports.ProviderError{Capability: ports.CapabilitySubtractor, Kind: "wasm", Err: err}
	}
	return result, nil
}

// LoadAdder instantiates an adder module from disk
func LoadAdder(ctx context.Context, path string) (Adder, error) {
	m, err := LoadModule(ctx, path, "add")
	if err != nil {
		return Adder{}, err
	}
	return Adder{Module: m}, nil
}

// LoadSubtractor instantiates a subtractor module from disk
func LoadSubtractor(ctx context.Context, path string) (Subtractor, error) {
	m, err := LoadModule(ctx, path, "subtract")
	if err != nil {
		return Subtractor{}, err
	}
	return Subtractor{Module: m}, nil
}
