package memfs

import (
	"io"

	"github.com/wasi-memfs/memfs/wasi1"
)

// file is an open regular-file handle: a node plus an independent
// position cursor. Multiple opens of the same path get independent
// cursors over shared data, matching ordinary filesystem semantics.
type file struct {
	fs     *FS
	node   *node
	pos    int64
	append bool
}

func (f *file) Read(p []byte) (int, error) {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()

	if f.pos >= int64(len(f.node.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.node.data[f.pos:])
	f.pos += int64(n)
	return n, nil
}

func (f *file) Write(p []byte) (int, error) {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()

	at := f.pos
	if f.append {
		at = int64(len(f.node.data))
	}

	needed := at + int64(len(p))
	grow := needed - int64(len(f.node.data))
	if grow > 0 {
		if f.fs.used+uint64(grow) > f.fs.geometry.Capacity() {
			return 0, &wasi1.BackendError{Code: wasi1.BackendNospc}
		}
		f.fs.used += uint64(grow)
	}

	if needed > int64(len(f.node.data)) {
		grown := make([]byte, needed)
		copy(grown, f.node.data)
		f.node.data = grown
	}
	n := copy(f.node.data[at:needed], p)
	if !f.append {
		f.pos += int64(n)
	}
	return n, nil
}

func (f *file) Seek(offset int64, whence int) (int64, error) {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()

	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = f.pos
	case io.SeekEnd:
		base = int64(len(f.node.data))
	default:
		return 0, &wasi1.BackendError{Code: wasi1.BackendInval}
	}
	next := base + offset
	if next < 0 {
		return 0, &wasi1.BackendError{Code: wasi1.BackendInval}
	}
	f.pos = next
	return f.pos, nil
}

func (f *file) SetAppend(on bool) {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()
	f.append = on
}

func (f *file) Truncate(size uint64) error {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()

	cur := uint64(len(f.node.data))
	if size > cur {
		grow := size - cur
		if f.fs.used+grow > f.fs.geometry.Capacity() {
			return &wasi1.BackendError{Code: wasi1.BackendNospc}
		}
		f.fs.used += grow
		grown := make([]byte, size)
		copy(grown, f.node.data)
		f.node.data = grown
	} else if size < cur {
		f.fs.used -= cur - size
		f.node.data = f.node.data[:size]
	}
	return nil
}

func (f *file) Size() uint64 {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()
	return uint64(len(f.node.data))
}

func (f *file) Sync() error { return nil }

func (f *file) Close() error { return nil }
