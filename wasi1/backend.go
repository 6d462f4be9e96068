package wasi1

import "io"

// BackendErrno is the small error enum the backing little-filesystem
// (or its in-process stand-in) reports. It intentionally mirrors only the
// handful of POSIX-shaped conditions the façade needs to distinguish;
// anything else is a programmer error (§4.A of the spec this implements).
type BackendErrno int

const (
	BackendOK BackendErrno = iota
	BackendNoent
	BackendExist
	BackendIsdir
	BackendNotempty
	BackendNotdir
	BackendInval
	BackendNospc
)

// BackendError wraps a BackendErrno so it satisfies error while still
// being cheaply switchable by ErrnoFrom.
type BackendError struct {
	Code BackendErrno
}

func (e *BackendError) Error() string {
	switch e.Code {
	case BackendNoent:
		return "no such file or directory"
	case BackendExist:
		return "file exists"
	case BackendIsdir:
		return "is a directory"
	case BackendNotempty:
		return "directory not empty"
	case BackendNotdir:
		return "not a directory"
	case BackendInval:
		return "invalid argument"
	case BackendNospc:
		return "no space left on device"
	default:
		return "backend error"
	}
}

// NewBackendError builds a *BackendError, or nil for BackendOK.
func NewBackendError(code BackendErrno) error {
	if code == BackendOK {
		return nil
	}
	return &BackendError{Code: code}
}

// OpenFlags are the backend's native open flags, translated from WASI
// oflags/rights by OpenFlagsFrom.
type OpenFlags struct {
	Read   bool
	Write  bool
	Create bool
	Excl   bool
	Trunc  bool
}

// Stat is the backend's native metadata for a path, before the metadata
// sidecar's atim/mtim are merged in.
type Stat struct {
	Kind Kind
	Size uint64
}

// Geometry mirrors the fixed little-filesystem-over-RAM-block-device
// layout in §3 of the spec. The shipped in-process Backend keeps it only
// for diagnostics and to derive a capacity ceiling; a real littlefs
// binding would use it to actually format the block device.
type Geometry struct {
	ReadSize      uint32
	ProgSize      uint32
	BlockSize     uint32
	BlockCount    uint32
	BlockCycles   uint32
	CacheSize     uint32
	LookaheadSize uint32
}

// DefaultGeometry is the exact geometry named in §3.
var DefaultGeometry = Geometry{
	ReadSize:      16,
	ProgSize:      16,
	BlockSize:     4096,
	BlockCount:    128,
	BlockCycles:   500,
	CacheSize:     16,
	LookaheadSize: 16,
}

// Capacity returns the total addressable bytes under this geometry.
func (g Geometry) Capacity() uint64 {
	return uint64(g.BlockSize) * uint64(g.BlockCount)
}

// File is an open regular-file handle in the backend.
type File interface {
	io.ReadWriteSeeker
	// SetAppend toggles append-mode: while set, writes ignore the
	// current seek position and land at end-of-file.
	SetAppend(bool)
	// Truncate resizes the file, extending with zero bytes if size
	// grows past the current length.
	Truncate(size uint64) error
	Size() uint64
	Sync() error
	Close() error
}

// Dir is an open directory handle in the backend.
type Dir interface {
	Close() error
}

// Backend is the boundary between the façade and the out-of-scope
// block-device/littlefs collaborator (§1, §4.E′). The in-process stand-in
// lives in package backend/memfs; a real littlefs binding satisfies the
// same interface.
type Backend interface {
	// OpenFile opens (and optionally creates/truncates) a regular file.
	OpenFile(path string, flags OpenFlags) (File, error)
	// OpenDir opens an existing directory for use as a descriptor's
	// backing state. It does not create the directory.
	OpenDir(path string) (Dir, error)
	// Mkdir creates a single directory; the parent must already exist.
	Mkdir(path string) error
	// MkdirAll creates path and any missing parents.
	MkdirAll(path string) error
	// Remove removes an empty directory or a regular file.
	Remove(path string) error
	// Rename moves oldPath to newPath.
	Rename(oldPath, newPath string) error
	// Stat returns the kind and size of path.
	Stat(path string) (Stat, error)
	// GetXattr reads extended attribute id from path. ok is false if
	// the attribute is unset; err is non-nil only on a real backend
	// failure (e.g. the path itself does not exist).
	GetXattr(path string, id uint8) (data []byte, ok bool, err error)
	// SetXattr writes extended attribute id on path.
	SetXattr(path string, id uint8, data []byte) error
}
