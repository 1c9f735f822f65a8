// Package wasm links capability providers compiled to WebAssembly.
// A provider module exports one function taking two i32 operands and
// returning an i32; the value is treated as unsigned.
package wasm

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// Module is an instantiated provider module with its own runtime
type Module struct {
	Path   string
	Export string

	runtime  wazero.Runtime
	compiled wazero.CompiledModule
	instance api.Module

	// a module instance runs one call at a time
	mu sync.Mutex
}

// LoadModule reads and instantiates a module from disk
func LoadModule(ctx context.Context, path, export string) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read wasm module: %w", err)
	}

	m, err := Instantiate(ctx, data, export)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Instantiate compiles the module bytes, checks the export signature and
// runs the reactor initializer when the module has one.
func Instantiate(ctx context.Context, wasmBytes []byte, export string) (*Module, error) {
	// a call whose ctx is done is interrupted and its instance closed
	r := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithCloseOnContextDone(true))

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		r.Close(ctx)
		return nil, fmt.Errorf("failed to instantiate WASI: %w", err)
	}

	compiled, err := r.CompileModule(ctx, wasmBytes)
	if err != nil {
		r.Close(ctx)
		return nil, fmt.Errorf("failed to compile module: %w", err)
	}

	def, ok := compiled.ExportedFunctions()[export]
	if !ok {
		r.Close(ctx)
		return nil, fmt.Errorf("module does not export %q", export)
	}
	if !binaryI32(def) {
		r.Close(ctx)
		return nil, fmt.Errorf("export %q must have signature (i32, i32) -> i32", export)
	}

	m := &Module{
		Export:   export,
		runtime:  r,
		compiled: compiled,
	}
	if err := m.instantiate(ctx); err != nil {
		r.Close(ctx)
		return nil, err
	}
	return m, nil
}

// instantiate creates a fresh anonymous instance and runs _initialize if exported
func (m *Module) instantiate(ctx context.Context) error {
	config := wazero.NewModuleConfig().
		WithName("").
		WithStartFunctions("_initialize")
	mod, err := m.runtime.InstantiateModule(ctx, m.compiled, config)
	if err != nil {
		return fmt.Errorf("failed to instantiate module: %w", err)
	}
	m.instance = mod
	return nil
}

func binaryI32(def api.FunctionDefinition) bool {
	params := def.ParamTypes()
	results := def.ResultTypes()
	return len(params) == 2 &&
		params[0] == api.ValueTypeI32 &&
		params[1] == api.ValueTypeI32 &&
		len(results) == 1 &&
		results[0] == api.ValueTypeI32
}

// Call invokes the export with both operands
func (m *Module) Call(ctx context.Context, x, y uint32) (uint32, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.instance.IsClosed() {
		if err := m.instantiate(ctx); err != nil {
			return 0, err
		}
	}

	results, err := m.instance.ExportedFunction(m.Export).Call(ctx, api.EncodeU32(x), api.EncodeU32(y))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, err
	}
	return api.DecodeU32(results[0]), nil
}

// Close releases the runtime and everything instantiated in it
func (m *Module) Close(ctx context.Context) error {
	return m.runtime.Close(ctx)
}
