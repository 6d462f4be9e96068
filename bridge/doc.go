// Package bridge is the guest-memory bridge (§4.F): the façade and the
// guest's linear memory do not share an address space, so every
// pointer-valued WASI argument must be explicitly copied across the
// boundary. Package bridge owns that copying and the call-scoped scratch
// arena backing it; package dispatch is the only caller.
package bridge
