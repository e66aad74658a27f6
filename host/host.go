package host

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/chronos/clock"
	"github.com/wippyai/chronos/errors"
)

const (
	// ModuleName is the import module guests link against.
	ModuleName = "chronos"
	// FuncNanotime is the exported () -> f64 function.
	FuncNanotime = "nanotime"
)

// Host exposes a clock.Reader to WebAssembly guests.
type Host struct {
	reader *clock.Reader
}

// New creates a Host bound to reader. A nil reader binds the process-wide
// default reader.
func New(reader *clock.Reader) *Host {
	if reader == nil {
		reader = clock.Default()
	}
	return &Host{reader: reader}
}

// Namespace returns the import module name.
func (h *Host) Namespace() string {
	return ModuleName
}

// Reader returns the bound clock reader.
func (h *Host) Reader() *clock.Reader {
	return h.reader
}

// Nanotime returns the current monotonic time in seconds.
func (h *Host) Nanotime(_ context.Context) (float64, error) {
	ts, err := h.reader.Now()
	if err != nil {
		return 0, err
	}
	return ts.Seconds(), nil
}

// Instantiate registers the chronos module with r. Guests instantiated
// afterwards can import chronos.nanotime.
func (h *Host) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	builder := r.NewHostModuleBuilder(h.Namespace())

	builder = builder.NewFunctionBuilder().
		WithGoFunction(api.GoFunc(h.nanotime), nil, []api.ValueType{api.ValueTypeF64}).
		WithResultNames("seconds").
		Export(FuncNanotime)

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Registration(h.Namespace(), FuncNanotime, err)
	}
	return mod, nil
}

// nanotime aborts the calling guest on failure; wazero returns the panic
// value to the embedder as the call error.
func (h *Host) nanotime(ctx context.Context, stack []uint64) {
	v, err := h.Nanotime(ctx)
	if err != nil {
		Logger().Error("nanotime failed",
			zap.String("module", h.Namespace()),
			zap.String("function", FuncNanotime),
			zap.Error(err))
		panic(err)
	}
	stack[0] = api.EncodeF64(v)
}
