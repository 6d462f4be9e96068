package memfs

import (
	"strings"
	"sync"

	"github.com/wasi-memfs/memfs/wasi1"
)

// FS is an in-process wasi1.Backend backed by a plain node tree. The zero
// value is not usable; construct with New.
type FS struct {
	mu       sync.Mutex
	root     *node
	geometry wasi1.Geometry
	used     uint64
}

// New creates an empty, freshly "formatted and mounted" FS with the
// given block-device geometry (§3). Matches the littlefs lifecycle this
// module stands in for: construction is the one-time create+format+mount
// step; there is no remount.
func New(geometry wasi1.Geometry) *FS {
	return &FS{root: newDirNode(), geometry: geometry}
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// walk resolves segments from root, returning the parent node, the final
// segment's name, and the node itself (nil if absent).
func (fs *FS) walk(path string) (parent *node, name string, n *node, err error) {
	segs := splitPath(path)
	if len(segs) == 0 {
		return nil, "", fs.root, nil
	}
	cur := fs.root
	for i, seg := range segs {
		if cur.kind != wasi1.KindDirectory {
			return nil, "", nil, wasi1.NewBackendError(wasi1.BackendNotdir).(*wasi1.BackendError)
		}
		next, ok := cur.children[seg]
		if i == len(segs)-1 {
			if !ok {
				return cur, seg, nil, nil
			}
			return cur, seg, next, nil
		}
		if !ok {
			return nil, "", nil, bErr(wasi1.BackendNoent)
		}
		cur = next
	}
	return nil, "", nil, nil
}

func bErr(code wasi1.BackendErrno) error {
	return &wasi1.BackendError{Code: code}
}

// OpenFile implements wasi1.Backend.
func (fs *FS) OpenFile(path string, flags wasi1.OpenFlags) (wasi1.File, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parent, name, n, err := fs.walk(path)
	if err != nil {
		return nil, err
	}
	if n == nil {
		if !flags.Create {
			return nil, bErr(wasi1.BackendNoent)
		}
		if parent == nil {
			return nil, bErr(wasi1.BackendNoent)
		}
		fresh := newFileNode()
		parent.children[name] = fresh
		n = fresh
	} else {
		if flags.Create && flags.Excl {
			return nil, bErr(wasi1.BackendExist)
		}
		if n.kind != wasi1.KindRegular {
			return nil, bErr(wasi1.BackendIsdir)
		}
		if flags.Trunc {
			fs.used -= uint64(len(n.data))
			n.data = nil
		}
	}
	return &file{fs: fs, node: n}, nil
}

// OpenDir implements wasi1.Backend.
func (fs *FS) OpenDir(path string) (wasi1.Dir, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	_, _, n, err := fs.walk(path)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, bErr(wasi1.BackendNoent)
	}
	if n.kind != wasi1.KindDirectory {
		return nil, bErr(wasi1.BackendNotdir)
	}
	return dirHandle{}, nil
}

// Mkdir implements wasi1.Backend.
func (fs *FS) Mkdir(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parent, name, n, err := fs.walk(path)
	if err != nil {
		return err
	}
	if n != nil {
		return bErr(wasi1.BackendExist)
	}
	if parent == nil {
		return bErr(wasi1.BackendNoent)
	}
	parent.children[name] = newDirNode()
	return nil
}

// MkdirAll implements wasi1.Backend.
func (fs *FS) MkdirAll(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	segs := splitPath(path)
	cur := fs.root
	for _, seg := range segs {
		next, ok := cur.children[seg]
		if !ok {
			next = newDirNode()
			cur.children[seg] = next
		} else if next.kind != wasi1.KindDirectory {
			return bErr(wasi1.BackendNotdir)
		}
		cur = next
	}
	return nil
}

// Remove implements wasi1.Backend.
func (fs *FS) Remove(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parent, name, n, err := fs.walk(path)
	if err != nil {
		return err
	}
	if n == nil {
		return bErr(wasi1.BackendNoent)
	}
	if n.kind == wasi1.KindDirectory && len(n.children) > 0 {
		return bErr(wasi1.BackendNotempty)
	}
	if n.kind == wasi1.KindRegular {
		fs.used -= uint64(len(n.data))
	}
	delete(parent.children, name)
	return nil
}

// Rename implements wasi1.Backend.
func (fs *FS) Rename(oldPath, newPath string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	oldParent, oldName, oldNode, err := fs.walk(oldPath)
	if err != nil {
		return err
	}
	if oldNode == nil {
		return bErr(wasi1.BackendNoent)
	}
	newParent, newName, newNode, err := fs.walk(newPath)
	if err != nil {
		return err
	}
	if newParent == nil {
		return bErr(wasi1.BackendNoent)
	}
	if newNode != nil {
		if oldNode.kind != newNode.kind {
			return bErr(wasi1.BackendIsdir)
		}
		if newNode.kind == wasi1.KindDirectory && len(newNode.children) > 0 {
			return bErr(wasi1.BackendNotempty)
		}
	}
	delete(oldParent.children, oldName)
	newParent.children[newName] = oldNode
	return nil
}

// Stat implements wasi1.Backend.
func (fs *FS) Stat(path string) (wasi1.Stat, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	_, _, n, err := fs.walk(path)
	if err != nil {
		return wasi1.Stat{}, err
	}
	if n == nil {
		return wasi1.Stat{}, bErr(wasi1.BackendNoent)
	}
	size := uint64(0)
	if n.kind == wasi1.KindRegular {
		size = uint64(len(n.data))
	}
	return wasi1.Stat{Kind: n.kind, Size: size}, nil
}

// GetXattr implements wasi1.Backend.
func (fs *FS) GetXattr(path string, id uint8) ([]byte, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	_, _, n, err := fs.walk(path)
	if err != nil {
		return nil, false, err
	}
	if n == nil {
		return nil, false, bErr(wasi1.BackendNoent)
	}
	data, ok := n.xattrs[id]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, true, nil
}

// SetXattr implements wasi1.Backend.
func (fs *FS) SetXattr(path string, id uint8, data []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	_, _, n, err := fs.walk(path)
	if err != nil {
		return err
	}
	if n == nil {
		return bErr(wasi1.BackendNoent)
	}
	if n.xattrs == nil {
		n.xattrs = make(map[uint8][]byte)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	n.xattrs[id] = cp
	return nil
}

// dirHandle is the Dir backing state; directories carry no additional
// open-handle state beyond their node, so Close is a no-op.
type dirHandle struct{}

func (dirHandle) Close() error { return nil }
