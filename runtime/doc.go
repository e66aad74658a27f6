// Package runtime runs WebAssembly guests with the chronos host module linked.
//
// # Quick Start
//
//	ctx := context.Background()
//	rt, err := runtime.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	mod, err := rt.LoadModule(ctx, wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	inst, err := mod.Instantiate(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close(ctx)
//
//	secs, err := inst.CallF64(ctx, "now")
//
// Guests import the clock as:
//
//	(import "chronos" "nanotime" (func (result f64)))
//
// Set Config.EnableWASI to also link wasi_snapshot_preview1. Start functions
// are never run during instantiation; call "_start" explicitly.
//
// # Thread Safety
//
// Runtime and Module are safe for concurrent use. Instance is NOT thread-safe
// and should be used by a single goroutine, or access must be synchronized.
package runtime
