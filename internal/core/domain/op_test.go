package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseOp_AcceptsNamesAndSymbols(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    Op
		expectError bool
	}{
		{name: "AddName", input: "add", expected: OpAdd},
		{name: "AddSymbol", input: "+", expected: OpAdd},
		{name: "AddUpperCase", input: "ADD", expected: OpAdd},
		{name: "SubtractName", input: "subtract", expected: OpSubtract},
		{name: "SubtractShort", input: "sub", expected: OpSubtract},
		{name: "SubtractSymbol", input: " - ", expected: OpSubtract},
		{name: "Multiply_ShouldFail", input: "multiply", expectError: true},
		{name: "Empty_ShouldFail", input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := ParseOp(tt.input)
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownOp))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, op)
		})
	}
}

func TestOp_ValidOnlyForDeclaredVariants(t *testing.T) {
	for _, op := range Ops() {
		assert.True(t, op.Valid(), "%s should be valid", op)
	}
	assert.False(t, Op(2).Valid())
	assert.Equal(t, "op(2)", Op(2).String())
	assert.Equal(t, "?", Op(2).Symbol())
}

func TestOp_JSONUsesInterfaceNames(t *testing.T) {
	data, err := json.Marshal(struct {
		Op Op `json:"op"`
	}{Op: OpSubtract})
	require.NoError(t, err)
	assert.JSONEq(t, `{"op":"subtract"}`, string(data))

	var decoded struct {
		Op Op `json:"op"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"op":"add"}`), &decoded))
	assert.Equal(t, OpAdd, decoded.Op)

	assert.Error(t, json.Unmarshal([]byte(`{"op":"divide"}`), &decoded))

	_, err = Op(9).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownOp)
}

func TestOp_PropertyBased_StringRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		op := rapid.SampledFrom(Ops()).Draw(t, "op")

		parsed, err := ParseOp(op.String())
		require.NoError(t, err)
		assert.Equal(t, op, parsed)

		parsed, err = ParseOp(op.Symbol())
		require.NoError(t, err)
		assert.Equal(t, op, parsed)
	})
}
