package wasi1

import (
	"sync"

	"go.uber.org/zap"
)

var (
	pkgLogger     *zap.Logger
	pkgLoggerOnce sync.Once
)

// defaultLogger returns the package's fallback logger, a no-op unless
// SetDefaultLogger has been called. Mirrors the linker package's
// package-scoped zap logger in the teacher this module is grounded on.
func defaultLogger() *zap.Logger {
	pkgLoggerOnce.Do(func() {
		if pkgLogger == nil {
			pkgLogger = zap.NewNop()
		}
	})
	return pkgLogger
}

// SetDefaultLogger configures the logger used by any Context created
// without an explicit WithLogger option. Call before constructing a
// Context; it does not affect Contexts that already have a logger.
func SetDefaultLogger(l *zap.Logger) {
	pkgLogger = l
}

// traceCall emits the single structured log line every dispatcher entry
// point produces: Debug on success, Warn otherwise. This doubles as the
// WASI `trace(is_error, msg, len)` host import (§6) — the host-provided
// sink is replaced by zap output, per SPEC_FULL.md §2A.
func (c *Context) traceCall(call string, fd uint32, path string, errno Errno) {
	fields := []zap.Field{
		zap.String("instance", c.instanceID),
		zap.String("call", call),
		zap.Uint32("fd", fd),
		zap.Stringer("errno", errno),
	}
	if path != "" {
		fields = append(fields, zap.String("path", path))
	}
	if errno == ErrnoSuccess {
		c.logger.Debug("wasi1 call", fields...)
	} else {
		c.logger.Warn("wasi1 call", fields...)
	}
}

// TraceCall is traceCall exported for the dispatcher (component G), which
// logs every entry point's outcome from outside this package.
func (c *Context) TraceCall(call string, fd uint32, path string, errno Errno) {
	c.traceCall(call, fd, path, errno)
}

// Logger exposes the Context's configured logger so the dispatcher can
// log process-level faults (e.g. a recovered arena-overflow panic) under
// the same sink without reaching into unexported fields.
func (c *Context) Logger() *zap.Logger {
	return c.logger
}
