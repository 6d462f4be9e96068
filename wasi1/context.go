package wasi1

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Context is the filesystem façade: the process-global, single-instance
// owner of the descriptor table, preopen list, and mounted backend (§3,
// §5). It implements every WASI fs/path call as a method.
type Context struct {
	table    *Table
	preopens []string
	backend  Backend
	clock    Clock
	logger   *zap.Logger

	// instanceID correlates this Context's log lines across calls; pure
	// observability, stamped at construction (SPEC_FULL.md §2A, §4.H).
	instanceID string
}

// NewContext constructs a Context with no preopens and no seeded files.
// Callers normally reach this indirectly through Initialize (component
// H); it is exported directly for tests that want to build a table by
// hand.
func NewContext(backend Backend, cfg Config) *Context {
	return &Context{
		table:      NewTable(0),
		backend:    backend,
		clock:      cfg.Clock,
		logger:     cfg.Logger,
		instanceID: uuid.New().String(),
	}
}

// Preopens returns the fixed, post-init list of preopen directory paths.
func (c *Context) Preopens() []string {
	return c.preopens
}

// Snapshot lists every live descriptor, for diagnostics (e.g. the cmd/run
// TUI) only.
func (c *Context) Snapshot() []DescriptorView {
	return c.table.Snapshot()
}
