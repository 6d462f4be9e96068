package wasi1

import (
	"time"

	"go.uber.org/zap"
)

// Clock supplies the `now_ms()` host import (§6): a monotonic millisecond
// reading used for ATIM_NOW/MTIM_NOW. Injectable so tests can pin time.
type Clock interface {
	NowMs() uint32
}

// systemClock is the default Clock, backed by the wall clock.
type systemClock struct{}

func (systemClock) NowMs() uint32 {
	return uint32(time.Now().UnixMilli())
}

// FixedClock is a Clock that always reports the same reading, useful for
// deterministic tests of ATIM_NOW/MTIM_NOW.
type FixedClock uint32

func (c FixedClock) NowMs() uint32 { return uint32(c) }

// DefaultArenaSize is the default call-scoped scratch arena size (§4.F).
const DefaultArenaSize = 40 * 1024

// Config controls the tunables SPEC_FULL.md §2A calls out: arena size,
// backend geometry, clock, and logger. The zero value is not usable
// directly; build one with NewConfig.
type Config struct {
	ArenaSize uint32
	Geometry  Geometry
	Clock     Clock
	Logger    *zap.Logger
}

// Option configures a Config.
type Option func(*Config)

// WithArenaSize overrides the call-scoped scratch arena size.
func WithArenaSize(size uint32) Option {
	return func(c *Config) { c.ArenaSize = size }
}

// WithBlockDeviceGeometry overrides the backing block-device geometry
// passed to the Backend at construction.
func WithBlockDeviceGeometry(g Geometry) Option {
	return func(c *Config) { c.Geometry = g }
}

// WithClock overrides the Clock used for ATIM_NOW/MTIM_NOW.
func WithClock(clk Clock) Option {
	return func(c *Config) { c.Clock = clk }
}

// WithLogger overrides the zap logger used for this Context's trace
// output. Defaults to the package's default logger (see SetDefaultLogger).
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// NewConfig builds a Config from the documented defaults plus opts.
func NewConfig(opts ...Option) Config {
	cfg := Config{
		ArenaSize: DefaultArenaSize,
		Geometry:  DefaultGeometry,
		Clock:     systemClock{},
		Logger:    defaultLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
