// Package memfs is an in-process stand-in for the littlefs-over-RAM-block-device
// backend the wasi1 façade treats as an external collaborator (§1, §4.E′
// of SPEC_FULL.md). It satisfies wasi1.Backend with a plain hierarchical
// node tree instead of reproducing littlefs's on-media format or
// wear-leveling; a real littlefs binding can be substituted with no
// change to the façade.
//
// The package still honors the fixed geometry named in §3: Capacity()
// derives a total-bytes ceiling from block size × block count, and a
// write that would exceed it fails with NOSPC rather than growing
// unbounded.
package memfs
