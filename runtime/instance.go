package runtime

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/wippyai/chronos/errors"
)

// Instance is an instantiated guest. It is NOT safe for concurrent use.
type Instance struct {
	mod api.Module
}

// Call invokes an exported function with raw wasm parameters.
// A guest that calls WASI proc_exit, even with code 0, fails with a
// KindExit error whose cause is the *sys.ExitError; the instance is closed.
func (i *Instance) Call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	fn, err := i.export(name)
	if err != nil {
		return nil, err
	}

	if want := len(fn.Definition().ParamTypes()); want != len(params) {
		return nil, errors.New(errors.PhaseRuntime, errors.KindInvalidInput).
			Detail("%s expects %d params, got %d", name, want, len(params)).
			Build()
	}

	results, err := fn.Call(ctx, params...)
	if err != nil {
		var exitErr *sys.ExitError
		if stderrors.As(err, &exitErr) {
			return nil, errors.Wrap(errors.PhaseRuntime, errors.KindExit, err,
				fmt.Sprintf("%s exited with code %d", name, exitErr.ExitCode()))
		}
		return nil, errors.Call(name, err)
	}
	return results, nil
}

// CallF64 invokes a zero-argument export returning a single f64.
func (i *Instance) CallF64(ctx context.Context, name string) (float64, error) {
	fn, err := i.export(name)
	if err != nil {
		return 0, err
	}

	results := fn.Definition().ResultTypes()
	if len(results) != 1 || results[0] != api.ValueTypeF64 {
		return 0, errors.New(errors.PhaseRuntime, errors.KindInvalidInput).
			Detail("%s does not return a single f64", name).
			Build()
	}

	out, err := i.Call(ctx, name)
	if err != nil {
		return 0, err
	}
	return api.DecodeF64(out[0]), nil
}

// Definition returns the signature of an exported function, or nil.
func (i *Instance) Definition(name string) api.FunctionDefinition {
	if i.mod == nil {
		return nil
	}
	fn := i.mod.ExportedFunction(name)
	if fn == nil {
		return nil
	}
	return fn.Definition()
}

// Close releases the instance.
func (i *Instance) Close(ctx context.Context) error {
	if i.mod == nil {
		return nil
	}
	if err := i.mod.Close(ctx); err != nil {
		Logger().Warn("failed to close instance", zap.Error(err))
		return err
	}
	return nil
}

func (i *Instance) export(name string) (api.Function, error) {
	if i.mod == nil {
		return nil, errors.NotInitialized(errors.PhaseRuntime, "instance")
	}
	fn := i.mod.ExportedFunction(name)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseRuntime, "export", name)
	}
	return fn, nil
}
