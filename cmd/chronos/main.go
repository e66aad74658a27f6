package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/chronos/clock"
	"github.com/wippyai/chronos/host"
	"github.com/wippyai/chronos/internal/wasmbin"
	"github.com/wippyai/chronos/runtime"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		var exit *exitCodeError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// exitCodeError carries a non-zero guest exit code out to the process.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("guest exited with code %d", e.code)
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "chronos",
		Short:         "Monotonic clock for WebAssembly guests",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogging(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(newNowCmd(), newRunCmd(), newWatchCmd())
	return root
}

func setupLogging(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	clock.SetLogger(l.Named("clock"))
	host.SetLogger(l.Named("host"))
	runtime.SetLogger(l.Named("runtime"))
	return nil
}

func newNowCmd() *cobra.Command {
	var guest bool

	cmd := &cobra.Command{
		Use:   "now",
		Short: "Print the current monotonic time in seconds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var (
				secs float64
				err  error
			)
			if guest {
				secs, err = nowViaGuest(ctx)
			} else {
				var ts clock.Timestamp
				ts, err = clock.Now()
				secs = ts.Seconds()
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.9f\n", secs)
			return nil
		},
	}
	cmd.Flags().BoolVar(&guest, "guest", false, "Read through a WebAssembly guest calling chronos.nanotime")
	return cmd
}

func nowViaGuest(ctx context.Context) (float64, error) {
	rt, err := runtime.New(ctx)
	if err != nil {
		return 0, fmt.Errorf("create runtime: %w", err)
	}
	defer rt.Close(ctx)

	mod, err := rt.LoadModule(ctx, wasmbin.Timer(host.ModuleName, host.FuncNanotime))
	if err != nil {
		return 0, fmt.Errorf("load timer: %w", err)
	}

	inst, err := mod.Instantiate(ctx)
	if err != nil {
		return 0, fmt.Errorf("instantiate timer: %w", err)
	}
	defer inst.Close(ctx)

	return inst.CallF64(ctx, wasmbin.TimerNow)
}

func newRunCmd() *cobra.Command {
	var (
		wasmFile    string
		funcName    string
		enableWASI  bool
		memoryPages uint32
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a WebAssembly module with chronos linked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, wasmFile, funcName, enableWASI, memoryPages)
		},
	}
	cmd.Flags().StringVar(&wasmFile, "wasm", "", "Path to core wasm module")
	cmd.Flags().StringVar(&funcName, "func", "", "Zero-argument export to call (default _start)")
	cmd.Flags().BoolVar(&enableWASI, "wasi", false, "Link wasi_snapshot_preview1")
	cmd.Flags().Uint32Var(&memoryPages, "memory-pages", 0, "Memory limit in 64KB pages (0 = default)")
	_ = cmd.MarkFlagRequired("wasm")
	return cmd
}

func run(cmd *cobra.Command, wasmFile, funcName string, enableWASI bool, memoryPages uint32) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	rt, err := runtime.NewWithConfig(ctx, &runtime.Config{
		EnableWASI:       enableWASI,
		MemoryLimitPages: memoryPages,
		Stdout:           out,
		Stderr:           cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("create runtime: %w", err)
	}
	defer rt.Close(ctx)

	mod, err := rt.LoadModule(ctx, data)
	if err != nil {
		return fmt.Errorf("load module: %w", err)
	}

	if funcName == "" {
		funcName = "_start"
	}

	inst, err := mod.Instantiate(ctx)
	if err != nil {
		return fmt.Errorf("instantiate: %w", err)
	}
	defer inst.Close(ctx)

	def := inst.Definition(funcName)
	if def == nil {
		return fmt.Errorf("export %q not found (exports: %s)", funcName, strings.Join(mod.ExportNames(), ", "))
	}

	results, err := inst.Call(ctx, funcName)
	if err != nil {
		return guestExit(err)
	}

	for i, t := range def.ResultTypes() {
		fmt.Fprintln(out, formatValue(t, results[i]))
	}
	return nil
}

// guestExit maps a WASI proc_exit to the command result: code 0 is success,
// any other code becomes an *exitCodeError.
func guestExit(err error) error {
	var exitErr *sys.ExitError
	if !errors.As(err, &exitErr) {
		return err
	}
	if exitErr.ExitCode() == 0 {
		return nil
	}
	return &exitCodeError{code: int(exitErr.ExitCode())}
}

func formatValue(t api.ValueType, v uint64) string {
	switch t {
	case api.ValueTypeF64:
		return fmt.Sprintf("%.9f", api.DecodeF64(v))
	case api.ValueTypeF32:
		return fmt.Sprintf("%g", api.DecodeF32(v))
	case api.ValueTypeI32:
		return fmt.Sprintf("%d", api.DecodeI32(v))
	default:
		return fmt.Sprintf("%d", int64(v))
	}
}
