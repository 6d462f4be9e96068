// Package dispatch is the ABI entry-point layer (§4.G): one exported
// wazero host function per WASI preview-1 fs/path call, registered under
// the module name "wasi_snapshot_preview1". Each entry point resets the
// call-scoped scratch arena, marshals arguments through package bridge,
// invokes the matching wasi1.Context method, marshals results back, and
// returns the errno. No filesystem logic lives here.
package dispatch
