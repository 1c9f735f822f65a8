package subtractor

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSubtract(t *testing.T) {
	cases := []struct {
		name     string
		x, y     uint32
		expected uint32
	}{
		{"positive result", 5, 3, 2},
		{"zeros", 0, 0, 0},
		{"underflow wraps", 1, 2, 4294967295},
		{"zero minus one", 0, 1, math.MaxUint32},
		{"zero minus max", 0, math.MaxUint32, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Subtract(tc.x, tc.y), "Subtract(%d, %d)", tc.x, tc.y)
		})
	}
}

func TestSubtract_PropertyBased_Modulo32(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := rapid.Uint32().Draw(t, "x")
		y := rapid.Uint32().Draw(t, "y")

		expected := uint32((uint64(x) + (1 << 32) - uint64(y)) % (1 << 32))
		assert.Equal(t, expected, Subtract(x, y))
		assert.Equal(t, x, Subtract(x, y)+y, "subtraction should invert addition")
	})
}

func TestSubtractor_ImplementsCapability(t *testing.T) {
	result, err := Subtractor{}.Subtract(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint32(math.MaxUint32), result)
}
