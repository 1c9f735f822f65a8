// Package calculator dispatches an operation to the imported add or
// subtract capability and returns its result unchanged.
package calculator

import (
	"context"
	"fmt"

	"components.dev/calc/internal/core/domain"
	"components.dev/calc/internal/core/ports"
)

// Calculator composes the two imported capabilities
type Calculator struct {
	adder      ports.Adder
	subtractor ports.Subtractor
}

// New creates a Calculator linked against the given providers
func New(adder ports.Adder, subtractor ports.Subtractor) *Calculator {
	return &Calculator{
		adder:      adder,
		subtractor: subtractor,
	}
}

// EvalExpression routes the call to exactly one capability.
// Provider errors are returned as-is; there are no retries.
func (c *Calculator) EvalExpression(ctx context.Context, op domain.Op, x, y uint32) (uint32, error) {
	switch op {
	case domain.OpAdd:
		return c.adder.Add(ctx, x, y)
	case domain.OpSubtract:
		return c.subtractor.Subtract(ctx, x, y)
	default:
		return 0, fmt.Errorf("%w: %s", domain.ErrUnknownOp, op)
	}
}
