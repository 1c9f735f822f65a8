package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOp is returned for an Op value outside the declared variants
var ErrUnknownOp = errors.New("unknown operation")

// Op selects which imported capability the calculator routes to
type Op uint8

const (
	OpAdd Op = iota
	OpSubtract
)

// Ops returns every variant in declaration order
func Ops() []Op {
	return []Op{OpAdd, OpSubtract}
}

// ParseOp creates an Op from its interface name or operator symbol
func ParseOp(value string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "add", "+":
		return OpAdd, nil
	case "subtract", "sub", "-":
		return OpSubtract, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOp, value)
	}
}

// Valid reports whether the value is one of the declared variants
func (o Op) Valid() bool {
	return o == OpAdd || o == OpSubtract
}

// String returns the interface name of the operation
func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// Symbol returns the infix operator for display
func (o Op) Symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	default:
		return "?"
	}
}

// MarshalText implements encoding.TextMarshaler
func (o Op) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOp, uint8(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *Op) UnmarshalText(text []byte) error {
	op, err := ParseOp(string(text))
	if err != nil {
		return err
	}
	*o = op
	return nil
}
