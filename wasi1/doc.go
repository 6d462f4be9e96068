// Package wasi1 implements the file-and-directory portion of the WASI
// preview-1 ABI against an in-memory, capability-rooted filesystem.
//
// A guest compiled to a sandboxed bytecode target issues WASI host calls
// (open, read, write, seek, stat, rename, unlink, ...); Context services
// them against a Backend that stands in for a little-filesystem instance
// mounted over a RAM block device. The guest observes the same errno
// values and buffer contents a real POSIX-like host would produce, but
// nothing survives past the Context's lifetime.
//
// The package is organized around the data flow of a single call:
//
//	dispatch (not in this package, see the dispatch package) marshals
//	guest buffers across the memory boundary, then calls a Context method
//	here. Context validates the descriptor and its rights (Table),
//	resolves the path (ResolvePath), maps WASI flags to backend flags
//	(FiletypeFromKind / OpenFlagsFrom), invokes the Backend, and touches
//	the metadata sidecar before returning an Errno.
//
// Nothing in this package knows about guest memory, wazero, or any wasm
// engine; it operates entirely on Go values. See the dispatch package for
// the exported, ABI-shaped entry points.
package wasi1
