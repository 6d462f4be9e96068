package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wasi-memfs/memfs/backend/memfs"
	"github.com/wasi-memfs/memfs/dispatch"
	"github.com/wasi-memfs/memfs/wasi1"
)

func main() {
	var (
		wasmFile    = flag.String("wasm", "", "Path to a core WASI preview-1 wasm module")
		initFile    = flag.String("init", "", "Path to the init document (JSON: preopens + seeded files)")
		funcName    = flag.String("func", "_start", "Exported guest function to invoke")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *wasmFile == "" || *initFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: run -wasm <file.wasm> -init <init.json> [-func name]")
		fmt.Fprintln(os.Stderr, "       run -wasm <file.wasm> -init <init.json> -i  (interactive mode)")
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(*wasmFile, *initFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*wasmFile, *initFile, *funcName); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// consoleLogger builds the zap logger every run shares: human-readable
// lines on stderr, optionally teed into an in-memory sink for the TUI.
func consoleLogger(sink *callLogSink) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(os.Stderr), zapcore.DebugLevel)
	if sink != nil {
		core = zapcore.NewTee(core, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), sink, zapcore.DebugLevel))
	}
	return zap.New(core)
}

// mount reads the init document, constructs the in-memory backend and
// façade, and wires a dispatcher over a fresh wazero runtime.
func mount(ctx context.Context, initFile string, logger *zap.Logger) (wazero.Runtime, *wasi1.Context, *dispatch.Dispatcher, error) {
	raw, err := os.ReadFile(initFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read init document: %w", err)
	}

	cfg := wasi1.NewConfig(wasi1.WithLogger(logger))
	backend := memfs.New(cfg.Geometry)

	wasiCtx, err := wasi1.Initialize(backend, cfg, raw)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initialize filesystem: %w", err)
	}

	r := wazero.NewRuntime(ctx)
	d := dispatch.New(wasiCtx, cfg)
	if _, err := d.Instantiate(ctx, r); err != nil {
		r.Close(ctx)
		return nil, nil, nil, fmt.Errorf("instantiate dispatcher: %w", err)
	}

	return r, wasiCtx, d, nil
}

func run(wasmFile, initFile, funcName string) error {
	ctx := context.Background()
	logger := consoleLogger(nil)
	defer logger.Sync()

	r, wasiCtx, _, err := mount(ctx, initFile, logger)
	if err != nil {
		return err
	}
	defer r.Close(ctx)

	fmt.Printf("Preopens: %v\n", wasiCtx.Preopens())

	wasmBytes, err := os.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("read wasm module: %w", err)
	}

	mod, err := r.Instantiate(ctx, wasmBytes)
	if err != nil {
		return fmt.Errorf("instantiate guest module: %w", err)
	}
	defer mod.Close(ctx)

	fn := mod.ExportedFunction(funcName)
	if fn == nil {
		return fmt.Errorf("guest module exports no function named %q", funcName)
	}
	results, err := fn.Call(ctx)
	if err != nil {
		return fmt.Errorf("call %s: %w", funcName, err)
	}
	fmt.Printf("%s() -> %v\n", funcName, results)
	return nil
}
