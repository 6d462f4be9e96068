package bridge

import "encoding/binary"

var le = binary.LittleEndian

const iovecEntrySize = 8 // uint32 offset + uint32 length, per ciovec/iovec layout

// ReadCIOVecs copy-in's a ciovec_array (the iovecs argument to fd_write /
// fd_pwrite): count (offset,length) pairs starting at base, followed by
// the bytes each entry points at. Each returned slice is arena-owned.
func ReadCIOVecs(mem GuestMemory, arena *Arena, base, count uint32) ([][]byte, bool) {
	if count == 0 {
		return nil, true
	}
	header, ok := mem.Read(base, count*iovecEntrySize)
	if !ok {
		return nil, false
	}
	bufs := make([][]byte, count)
	for i := uint32(0); i < count; i++ {
		off := le.Uint32(header[i*iovecEntrySize:])
		length := le.Uint32(header[i*iovecEntrySize+4:])
		buf, ok := CopyInBytes(mem, arena, off, length)
		if !ok {
			return nil, false
		}
		bufs[i] = buf
	}
	return bufs, true
}

// MutableIOVecs is the copy-in half of an iovec_array destined for fd_read
// / fd_pread: arena-allocated buffers seeded with the guest's current
// bytes, plus the guest addresses they must be flushed back to once the
// façade fills them.
type MutableIOVecs struct {
	Bufs    [][]byte
	offsets []uint32
}

// ReadIOVecs parses an iovec_array's (offset,length) header and seeds each
// buffer with the guest's existing bytes at that address, mirroring
// mutable_view's copy-in-then-fill pattern: the façade overwrites only as
// much of Bufs[i] as it actually reads, so a short/partial read leaves the
// guest's pre-existing tail bytes intact once WriteBack flushes them out
// (§4.F).
func ReadIOVecs(mem GuestMemory, arena *Arena, base, count uint32) (MutableIOVecs, bool) {
	if count == 0 {
		return MutableIOVecs{}, true
	}
	header, ok := mem.Read(base, count*iovecEntrySize)
	if !ok {
		return MutableIOVecs{}, false
	}
	bufs := make([][]byte, count)
	offsets := make([]uint32, count)
	for i := uint32(0); i < count; i++ {
		off := le.Uint32(header[i*iovecEntrySize:])
		length := le.Uint32(header[i*iovecEntrySize+4:])
		buf, ok := CopyInBytes(mem, arena, off, length)
		if !ok {
			return MutableIOVecs{}, false
		}
		bufs[i] = buf
		offsets[i] = off
	}
	return MutableIOVecs{Bufs: bufs, offsets: offsets}, true
}

// WriteBack flushes each filled buffer back to its guest address.
func (m MutableIOVecs) WriteBack(mem GuestMemory) bool {
	for i, buf := range m.Bufs {
		if !mem.Write(m.offsets[i], buf) {
			return false
		}
	}
	return true
}
