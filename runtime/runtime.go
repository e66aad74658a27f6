package runtime

import (
	"context"
	"io"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/wippyai/chronos/clock"
	"github.com/wippyai/chronos/errors"
	"github.com/wippyai/chronos/host"
)

// Config holds configuration for runtime creation
type Config struct {
	// Reader is the clock bound to chronos.nanotime.
	// nil binds the process-wide default reader.
	Reader *clock.Reader

	// Stdout and Stderr receive guest output when EnableWASI is set.
	Stdout io.Writer
	Stderr io.Writer

	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	MemoryLimitPages uint32

	// EnableWASI instantiates wasi_snapshot_preview1 so guests built by
	// standard toolchains can link.
	EnableWASI bool
}

// Runtime is a wazero runtime with the chronos host module linked.
type Runtime struct {
	runtime wazero.Runtime
	host    *host.Host
	cfg     Config
}

// New creates a Runtime with default configuration.
func New(ctx context.Context) (*Runtime, error) {
	return NewWithConfig(ctx, nil)
}

// NewWithConfig creates a Runtime with custom configuration.
func NewWithConfig(ctx context.Context, cfg *Config) (*Runtime, error) {
	var c Config
	if cfg != nil {
		c = *cfg
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if c.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(c.MemoryLimitPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	h := host.New(c.Reader)
	if _, err := h.Instantiate(ctx, rt); err != nil {
		rt.Close(ctx)
		return nil, err
	}

	if c.EnableWASI {
		if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
			rt.Close(ctx)
			return nil, errors.Registration(wasi_snapshot_preview1.ModuleName, "*", err)
		}
	}

	Logger().Debug("runtime created",
		zap.Uint32("memory_limit_pages", c.MemoryLimitPages),
		zap.Bool("wasi", c.EnableWASI))

	return &Runtime{runtime: rt, host: h, cfg: c}, nil
}

// Host returns the chronos host bound to this runtime.
func (r *Runtime) Host() *host.Host {
	return r.host
}

// Close releases all runtime resources, including every instance.
func (r *Runtime) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}

// LoadModule compiles a core WebAssembly module. Its imports are resolved
// at instantiation.
func (r *Runtime) LoadModule(ctx context.Context, wasm []byte) (*Module, error) {
	if len(wasm) == 0 {
		return nil, errors.InvalidInput(errors.PhaseLoad, "empty module")
	}

	compiled, err := r.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile module", err)
	}

	return &Module{runtime: r, compiled: compiled}, nil
}

func (r *Runtime) moduleConfig() wazero.ModuleConfig {
	// Anonymous instances so one module can be instantiated many times.
	// Start functions are not run automatically; callers invoke _start.
	cfg := wazero.NewModuleConfig().
		WithName("").
		WithStartFunctions()

	if r.cfg.EnableWASI {
		cfg = cfg.WithSysNanotime().WithSysWalltime()
		if r.cfg.Stdout != nil {
			cfg = cfg.WithStdout(r.cfg.Stdout)
		}
		if r.cfg.Stderr != nil {
			cfg = cfg.WithStderr(r.cfg.Stderr)
		}
	}
	return cfg
}
