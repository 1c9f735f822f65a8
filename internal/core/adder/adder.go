// Package adder provides the add capability.
package adder

import "context"

// Add returns x + y modulo 2^32.
func Add(x, y uint32) uint32 {
	return x + y
}

// Adder serves Add in-process.
type Adder struct{}

// Add implements ports.Adder.
func (Adder) Add(_ context.Context, x, y uint32) (uint32, error) {
	return Add(x, y), nil
}
