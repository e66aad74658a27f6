// Package chronos exposes the Linux monotonic clock to WebAssembly guests.
//
// Guests import a single host function and receive the current monotonic
// time in fractional seconds:
//
//	(import "chronos" "nanotime" (func (result f64)))
//
// Readings are only meaningful as differences within one process.
//
// # Architecture Overview
//
//	chronos/             Root package with the Nanotime convenience function
//	├── clock/           CLOCK_MONOTONIC reader and resolution multiplier
//	├── host/            wazero host module "chronos"
//	├── runtime/         wazero runtime with chronos linked
//	├── errors/          Structured error types
//	└── cmd/chronos/     CLI: now, run, watch
//
// # Quick Start
//
// Read the clock from Go:
//
//	secs, err := chronos.Nanotime()
//
// Run a guest that imports chronos.nanotime:
//
//	rt, err := runtime.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	mod, err := rt.LoadModule(ctx, wasmBytes)
//	inst, err := mod.Instantiate(ctx)
//	secs, err := inst.CallF64(ctx, "now")
//
// # Errors
//
// A failed clock read surfaces as a ClockUnavailable error whose message
// contains "clock_gettime() failed:<description>". Match it with
// errors.Is(err, errors.ErrClockUnavailable). Failures are never retried.
package chronos
