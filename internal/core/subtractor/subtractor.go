// Package subtractor provides the subtract capability.
package subtractor

import "context"

// Subtract returns x - y modulo 2^32. Underflow wraps.
func Subtract(x, y uint32) uint32 {
	return x - y
}

// Subtractor serves Subtract in-process.
type Subtractor struct{}

// Subtract implements ports.Subtractor.
func (Subtractor) Subtract(_ context.Context, x, y uint32) (uint32, error) {
	return Subtract(x, y), nil
}
