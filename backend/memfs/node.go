package memfs

import "github.com/wasi-memfs/memfs/wasi1"

// node is one entry in the in-memory tree: either a directory (children
// non-nil) or a regular file (data holds its bytes).
type node struct {
	kind     wasi1.Kind
	children map[string]*node
	data     []byte
	xattrs   map[uint8][]byte
}

func newDirNode() *node {
	return &node{kind: wasi1.KindDirectory, children: make(map[string]*node)}
}

func newFileNode() *node {
	return &node{kind: wasi1.KindRegular}
}
