package wasi1

// Descriptor is an owned record for one open file, directory, or stream.
//
// Invariants (§3): Stream==true implies Kind==KindRegular, File and Dir
// are nil, and Path=="". Stream==false implies File (KindRegular) or Dir
// (KindDirectory) is non-nil, matching Kind. BaseRights is always a subset of the inheriting rights of the
// directory descriptor it was opened through.
type Descriptor struct {
	Path       string
	BaseRights Rights
	Inheriting Rights
	Flags      Fdflags
	Kind       Kind
	Stream     bool
	Preopen    bool

	File File
	Dir  Dir
}

// firstAllocatedHandle is where the high-to-low counter starts (§3).
const firstAllocatedHandle uint32 = 0x7FFFFFFF // INT32_MAX

// Table is the descriptor store (component B): an owning container of
// descriptors keyed by a 32-bit handle, with the capability-gate lookup
// semantics of §4.B.
type Table struct {
	entries     map[uint32]*Descriptor
	preopens    int // number of permanent preopen handles, at 3..3+preopens-1
	nextHandle  uint32
	wrapStarted bool
}

// NewTable creates an empty descriptor table that will reserve handles
// 3..3+preopenCount-1 as permanent preopen slots.
func NewTable(preopenCount int) *Table {
	return &Table{
		entries:    make(map[uint32]*Descriptor),
		preopens:   preopenCount,
		nextHandle: firstAllocatedHandle,
	}
}

// InsertAt installs desc at an explicit handle (used for standard streams
// and preopens during initialization). It does not participate in the
// high-to-low allocator.
func (t *Table) InsertAt(handle uint32, desc *Descriptor) {
	t.entries[handle] = desc
}

// Insert allocates a fresh handle for desc, drawing from a high-to-low
// counter starting at INT32_MAX, skipping handles already in use, and
// wrapping back to INT32_MAX when the counter would enter the preopen
// range [0, 3+preopens) (§3, §9).
func (t *Table) Insert(desc *Descriptor) uint32 {
	lowWatermark := uint32(3 + t.preopens)
	for {
		if t.nextHandle < lowWatermark {
			t.nextHandle = firstAllocatedHandle
		}
		handle := t.nextHandle
		t.nextHandle--
		if _, taken := t.entries[handle]; !taken {
			t.entries[handle] = desc
			return handle
		}
	}
}

// LookupOpts constrains what Lookup accepts.
type LookupOpts struct {
	// WantKind, if non-nil, requires the descriptor to have this Kind.
	WantKind *Kind
	// Required is the rights mask the descriptor's BaseRights must
	// contain.
	Required Rights
	// AllowStream permits a stream descriptor to satisfy the lookup.
	AllowStream bool
}

// Lookup implements the capability gate of §4.B: missing handle, stream
// vs. allow_stream, kind mismatch, and rights subset, in that order.
func (t *Table) Lookup(handle uint32, opts LookupOpts) (*Descriptor, Errno) {
	desc, ok := t.entries[handle]
	if !ok {
		return nil, ErrnoBadf
	}
	if desc.Stream && !opts.AllowStream {
		return nil, ErrnoNotsup
	}
	if opts.WantKind != nil && desc.Kind != *opts.WantKind {
		if *opts.WantKind == KindDirectory {
			return nil, ErrnoNotdir
		}
		return nil, ErrnoBadf
	}
	if !desc.BaseRights.Has(opts.Required) {
		return nil, ErrnoNotcapable
	}
	return desc, ErrnoSuccess
}

// Remove deletes handle from the table, refusing to touch a preopen.
func (t *Table) Remove(handle uint32) Errno {
	desc, ok := t.entries[handle]
	if !ok {
		return ErrnoBadf
	}
	if desc.Preopen {
		return ErrnoNotsup
	}
	delete(t.entries, handle)
	return ErrnoSuccess
}

// Renumber moves the descriptor at from onto to, refusing a preopen
// source. If to is occupied, the caller is responsible for closing it
// first (fd_renumber's close-then-move semantics, §4.E).
func (t *Table) Renumber(from, to uint32) Errno {
	desc, ok := t.entries[from]
	if !ok {
		return ErrnoBadf
	}
	if desc.Preopen {
		return ErrnoNotsup
	}
	t.entries[to] = desc
	delete(t.entries, from)
	return ErrnoSuccess
}

// Get returns the raw descriptor for handle without any capability
// checks, for callers (e.g. fd_prestat_*) that have already validated the
// handle range themselves.
func (t *Table) Get(handle uint32) (*Descriptor, bool) {
	d, ok := t.entries[handle]
	return d, ok
}

// PreopenCount returns the number of permanent preopen handles.
func (t *Table) PreopenCount() int {
	return t.preopens
}

// DescriptorView is a read-only snapshot of one table entry, for
// diagnostics (e.g. the cmd/run TUI) that have no business holding a
// live *Descriptor.
type DescriptorView struct {
	Handle     uint32
	Path       string
	Kind       Kind
	BaseRights Rights
	Preopen    bool
	Stream     bool
}

// Snapshot lists every live descriptor, for diagnostics only.
func (t *Table) Snapshot() []DescriptorView {
	views := make([]DescriptorView, 0, len(t.entries))
	for handle, desc := range t.entries {
		views = append(views, DescriptorView{
			Handle:     handle,
			Path:       desc.Path,
			Kind:       desc.Kind,
			BaseRights: desc.BaseRights,
			Preopen:    desc.Preopen,
			Stream:     desc.Stream,
		})
	}
	return views
}
