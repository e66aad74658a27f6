package runtime

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/sys"

	"github.com/wippyai/chronos/clock"
	"github.com/wippyai/chronos/errors"
	"github.com/wippyai/chronos/host"
	"github.com/wippyai/chronos/internal/wasmbin"
)

type brokenSource struct{}

func (brokenSource) Gettime() (clock.Reading, error) { return clock.Reading{}, syscall.EFAULT }
func (brokenSource) Getres() (int64, error)          { return 0, syscall.EFAULT }

func loadTimer(t *testing.T, ctx context.Context, cfg *Config) (*Runtime, *Instance) {
	t.Helper()

	rt, err := NewWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("create runtime: %v", err)
	}
	t.Cleanup(func() { rt.Close(ctx) })

	mod, err := rt.LoadModule(ctx, wasmbin.Timer(host.ModuleName, host.FuncNanotime))
	if err != nil {
		t.Fatalf("load module: %v", err)
	}

	inst, err := mod.Instantiate(ctx)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	t.Cleanup(func() { inst.Close(ctx) })

	return rt, inst
}

func TestRuntime_TimerExports(t *testing.T) {
	ctx := context.Background()
	rt, err := New(ctx)
	if err != nil {
		t.Fatalf("create runtime: %v", err)
	}
	defer rt.Close(ctx)

	if rt.Host().Reader() != clock.Default() {
		t.Error("default runtime should bind the default reader")
	}

	mod, err := rt.LoadModule(ctx, wasmbin.Timer(host.ModuleName, host.FuncNanotime))
	if err != nil {
		t.Fatalf("load module: %v", err)
	}
	defer mod.Close(ctx)

	exports := mod.ExportNames()
	if len(exports) != 2 || exports[0] != "delta" || exports[1] != "now" {
		t.Errorf("ExportNames = %v, want [delta now]", exports)
	}

	imports := mod.Imports()
	if len(imports) != 1 || imports[0] != "chronos.nanotime" {
		t.Errorf("Imports = %v, want [chronos.nanotime]", imports)
	}
}

func TestRuntime_GuestReadings(t *testing.T) {
	ctx := context.Background()
	_, inst := loadTimer(t, ctx, &Config{Reader: clock.NewReader(clock.System())})

	t1, err := inst.CallF64(ctx, wasmbin.TimerNow)
	if err != nil {
		t.Skipf("system clock unavailable: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	t2, err := inst.CallF64(ctx, wasmbin.TimerNow)
	if err != nil {
		t.Fatalf("now: %v", err)
	}

	elapsed := time.Duration((t2 - t1) * float64(time.Second))
	if elapsed < 25*time.Millisecond || elapsed > 150*time.Millisecond {
		t.Errorf("elapsed %v outside [25ms, 150ms]", elapsed)
	}

	delta, err := inst.CallF64(ctx, wasmbin.TimerDelta)
	if err != nil {
		t.Fatalf("delta: %v", err)
	}
	if delta < 0 {
		t.Errorf("delta = %v, clock went backwards", delta)
	}
}

func TestRuntime_MultipleInstances(t *testing.T) {
	ctx := context.Background()
	rt, err := New(ctx)
	if err != nil {
		t.Fatalf("create runtime: %v", err)
	}
	defer rt.Close(ctx)

	mod, err := rt.LoadModule(ctx, wasmbin.Timer(host.ModuleName, host.FuncNanotime))
	if err != nil {
		t.Fatalf("load module: %v", err)
	}

	for i := 0; i < 3; i++ {
		inst, err := mod.Instantiate(ctx)
		if err != nil {
			t.Fatalf("instantiate %d: %v", i, err)
		}
		if err := inst.Close(ctx); err != nil {
			t.Errorf("close %d: %v", i, err)
		}
	}
}

func TestRuntime_ClockFailure(t *testing.T) {
	ctx := context.Background()
	_, inst := loadTimer(t, ctx, &Config{Reader: clock.NewReader(brokenSource{})})

	_, err := inst.CallF64(ctx, wasmbin.TimerNow)
	if err == nil {
		t.Fatal("expected error from broken clock")
	}
	if !stderrors.Is(err, errors.ErrClockUnavailable) {
		t.Errorf("expected ClockUnavailable, got %v", err)
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseRuntime, Kind: errors.KindCall}) {
		t.Errorf("expected call error, got %v", err)
	}
	want := "clock_gettime() failed:" + syscall.EFAULT.Error()
	if !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not contain %q", err.Error(), want)
	}
}

func TestInstance_Errors(t *testing.T) {
	ctx := context.Background()
	_, inst := loadTimer(t, ctx, nil)

	_, err := inst.Call(ctx, "missing")
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseRuntime, Kind: errors.KindNotFound}) {
		t.Errorf("expected not found, got %v", err)
	}

	_, err = inst.Call(ctx, wasmbin.TimerNow, 1, 2)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseRuntime, Kind: errors.KindInvalidInput}) {
		t.Errorf("expected invalid input for extra params, got %v", err)
	}

	if inst.Definition("missing") != nil {
		t.Error("Definition of missing export should be nil")
	}
	def := inst.Definition(wasmbin.TimerNow)
	if def == nil || len(def.ResultTypes()) != 1 || def.ResultTypes()[0] != api.ValueTypeF64 {
		t.Errorf("unexpected definition for now: %v", def)
	}

	var empty Instance
	if _, err := empty.Call(ctx, wasmbin.TimerNow); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseRuntime, Kind: errors.KindNotInitialized}) {
		t.Errorf("expected not initialized, got %v", err)
	}
}

func TestRuntime_LoadErrors(t *testing.T) {
	ctx := context.Background()
	rt, err := New(ctx)
	if err != nil {
		t.Fatalf("create runtime: %v", err)
	}
	defer rt.Close(ctx)

	_, err = rt.LoadModule(ctx, nil)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindInvalidInput}) {
		t.Errorf("expected invalid input for empty module, got %v", err)
	}

	_, err = rt.LoadModule(ctx, []byte("not wasm"))
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindInvalidData}) {
		t.Errorf("expected load error, got %v", err)
	}
}

func TestRuntime_UnresolvedImport(t *testing.T) {
	ctx := context.Background()
	rt, err := New(ctx)
	if err != nil {
		t.Fatalf("create runtime: %v", err)
	}
	defer rt.Close(ctx)

	mod, err := rt.LoadModule(ctx, wasmbin.Timer(host.ModuleName, "walltime"))
	if err != nil {
		t.Fatalf("load module: %v", err)
	}

	_, err = mod.Instantiate(ctx)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseRuntime, Kind: errors.KindInstantiation}) {
		t.Errorf("expected instantiation error, got %v", err)
	}
}

func TestRuntime_WASI(t *testing.T) {
	ctx := context.Background()
	var stdout bytes.Buffer
	_, inst := loadTimer(t, ctx, &Config{
		EnableWASI:       true,
		Stdout:           &stdout,
		MemoryLimitPages: 16,
	})

	if _, err := inst.CallF64(ctx, wasmbin.TimerDelta); err != nil {
		t.Skipf("system clock unavailable: %v", err)
	}
}

func TestInstance_ProcExit(t *testing.T) {
	ctx := context.Background()
	rt, err := NewWithConfig(ctx, &Config{EnableWASI: true})
	if err != nil {
		t.Fatalf("create runtime: %v", err)
	}
	defer rt.Close(ctx)

	for _, code := range []int32{0, 3} {
		mod, err := rt.LoadModule(ctx, wasmbin.Exit(code))
		if err != nil {
			t.Fatalf("load module: %v", err)
		}
		inst, err := mod.Instantiate(ctx)
		if err != nil {
			t.Fatalf("instantiate: %v", err)
		}

		_, err = inst.Call(ctx, "_start")
		if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseRuntime, Kind: errors.KindExit}) {
			t.Fatalf("exit %d: expected exit error, got %v", code, err)
		}
		var exitErr *sys.ExitError
		if !stderrors.As(err, &exitErr) {
			t.Fatalf("exit %d: cause is not *sys.ExitError: %v", code, err)
		}
		if exitErr.ExitCode() != uint32(code) {
			t.Errorf("ExitCode = %d, want %d", exitErr.ExitCode(), code)
		}
		inst.Close(ctx)
	}
}
