//go:build wasip1

// Build with:
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o adder.wasm ./wasm/adder
package main

import "components.dev/calc/internal/core/adder"

//go:wasmexport add
func add(x, y uint32) uint32 {
	return adder.Add(x, y)
}

func main() {}
