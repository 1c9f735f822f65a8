package cli

import (
	"fmt"
	"strconv"
)

// parseOperand parses a base-10 unsigned 32-bit operand
func parseOperand(name, value string) (uint32, error) {
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("operand %s must be an integer in [0, 4294967295]: %q", name, value)
	}
	return uint32(n), nil
}

func parseOperands(args []string) (uint32, uint32, error) {
	x, err := parseOperand("x", args[0])
	if err != nil {
		return 0, 0, err
	}
	y, err := parseOperand("y", args[1])
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
