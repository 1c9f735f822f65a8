//go:build wasip1

// Build with:
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o subtractor.wasm ./wasm/subtractor
package main

import "components.dev/calc/internal/core/subtractor"

//go:wasmexport subtract
func subtract(x, y uint32) uint32 {
	return subtractor.Subtract(x, y)
}

func main() {}
