// Package testfixtures holds hand-assembled provider modules for tests.
package testfixtures

var header = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

// Value types and opcodes used by the fixtures
const (
	I32 byte = 0x7f
	I64 byte = 0x7e

	OpI32Add byte = 0x6a
	OpI32Sub byte = 0x6b
	OpI64Add byte = 0x7c
)

// BinaryModule assembles a module exporting one function of type
// (t, t) -> t whose body applies opcode to both parameters.
func BinaryModule(export string, valueType, opcode byte) []byte {
	return binaryFunctionModule(export, valueType, []byte{0x20, 0x00, 0x20, 0x01, opcode})
}

// SpinModule exports (i32, i32) -> i32 that never returns
func SpinModule(export string) []byte {
	// loop br 0 end unreachable
	return binaryFunctionModule(export, I32, []byte{0x03, 0x40, 0x0c, 0x00, 0x0b, 0x00})
}

func binaryFunctionModule(export string, valueType byte, instructions []byte) []byte {
	out := append([]byte{}, header...)
	// type
	out = append(out, 0x01, 0x07, 0x01, 0x60, 0x02, valueType, valueType, 0x01, valueType)
	// function
	out = append(out, 0x03, 0x02, 0x01, 0x00)
	// export
	out = append(out, 0x07, byte(len(export)+4), 0x01, byte(len(export)))
	out = append(out, export...)
	out = append(out, 0x00, 0x00)
	// code: one body with no locals
	body := append([]byte{0x00}, instructions...)
	body = append(body, 0x0b)
	out = append(out, 0x0a, byte(len(body)+2), 0x01, byte(len(body)))
	out = append(out, body...)
	return out
}

// AdderModule exports add(i32, i32) -> i32
func AdderModule() []byte {
	return BinaryModule("add", I32, OpI32Add)
}

// SubtractorModule exports subtract(i32, i32) -> i32
func SubtractorModule() []byte {
	return BinaryModule("subtract", I32, OpI32Sub)
}
