package dispatch

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wasi-memfs/memfs/bridge"
	"github.com/wasi-memfs/memfs/wasi1"
)

func (d *Dispatcher) fdClose(_ api.Memory, stack []uint64) {
	fd := uint32(stack[0])
	errno := d.ctx.FdClose(fd)
	d.ctx.TraceCall("fd_close", fd, "", errno)
	stack[0] = uint64(errno)
}

func (d *Dispatcher) fdDatasync(_ api.Memory, stack []uint64) {
	fd := uint32(stack[0])
	errno := d.ctx.FdDatasync(fd)
	d.ctx.TraceCall("fd_datasync", fd, "", errno)
	stack[0] = uint64(errno)
}

func (d *Dispatcher) fdSync(_ api.Memory, stack []uint64) {
	fd := uint32(stack[0])
	errno := d.ctx.FdSync(fd)
	d.ctx.TraceCall("fd_sync", fd, "", errno)
	stack[0] = uint64(errno)
}

func (d *Dispatcher) fdAdvise(_ api.Memory, stack []uint64) {
	fd := uint32(stack[0])
	offset := stack[1]
	length := stack[2]
	advice := uint8(stack[3])
	errno := d.ctx.FdAdvise(fd, offset, length, advice)
	d.ctx.TraceCall("fd_advise", fd, "", errno)
	stack[0] = uint64(errno)
}

func (d *Dispatcher) fdAllocate(_ api.Memory, stack []uint64) {
	fd := uint32(stack[0])
	off := stack[1]
	length := stack[2]
	errno := d.ctx.FdAllocate(fd, off, length)
	d.ctx.TraceCall("fd_allocate", fd, "", errno)
	stack[0] = uint64(errno)
}

func (d *Dispatcher) fdFdstatGet(mem api.Memory, stack []uint64) {
	fd := uint32(stack[0])
	buf := uint32(stack[1])
	st, errno := d.ctx.FdFdstatGet(fd)
	d.ctx.TraceCall("fd_fdstat_get", fd, "", errno)
	if errno == wasi1.ErrnoSuccess {
		if !bridge.CopyOut(mem, buf, encodeFdstat(st)) {
			errno = wasi1.ErrnoFault
		}
	}
	stack[0] = uint64(errno)
}

func (d *Dispatcher) fdFdstatSetFlags(_ api.Memory, stack []uint64) {
	fd := uint32(stack[0])
	flags := wasi1.Fdflags(stack[1])
	errno := d.ctx.FdFdstatSetFlags(fd, flags)
	d.ctx.TraceCall("fd_fdstat_set_flags", fd, "", errno)
	stack[0] = uint64(errno)
}

func (d *Dispatcher) fdFdstatSetRights(_ api.Memory, stack []uint64) {
	fd := uint32(stack[0])
	base := wasi1.Rights(stack[1])
	inheriting := wasi1.Rights(stack[2])
	errno := d.ctx.FdFdstatSetRights(fd, base, inheriting)
	d.ctx.TraceCall("fd_fdstat_set_rights", fd, "", errno)
	stack[0] = uint64(errno)
}

func (d *Dispatcher) fdFilestatGet(mem api.Memory, stack []uint64) {
	fd := uint32(stack[0])
	buf := uint32(stack[1])
	st, errno := d.ctx.FdFilestatGet(fd)
	d.ctx.TraceCall("fd_filestat_get", fd, "", errno)
	if errno == wasi1.ErrnoSuccess {
		if !bridge.CopyOut(mem, buf, encodeFilestat(st)) {
			errno = wasi1.ErrnoFault
		}
	}
	stack[0] = uint64(errno)
}

func (d *Dispatcher) fdFilestatSetSize(_ api.Memory, stack []uint64) {
	fd := uint32(stack[0])
	size := stack[1]
	errno := d.ctx.FdFilestatSetSize(fd, size)
	d.ctx.TraceCall("fd_filestat_set_size", fd, "", errno)
	stack[0] = uint64(errno)
}

func (d *Dispatcher) fdFilestatSetTimes(_ api.Memory, stack []uint64) {
	fd := uint32(stack[0])
	atim := stack[1]
	mtim := stack[2]
	flags := wasi1.Fstflags(stack[3])
	errno := d.ctx.FdFilestatSetTimes(fd, atim, mtim, flags)
	d.ctx.TraceCall("fd_filestat_set_times", fd, "", errno)
	stack[0] = uint64(errno)
}

func (d *Dispatcher) fdPread(mem api.Memory, stack []uint64) {
	fd := uint32(stack[0])
	iovs := uint32(stack[1])
	iovsLen := uint32(stack[2])
	offset := stack[3]
	resultNread := uint32(stack[4])

	mio, ok := bridge.ReadIOVecs(mem, d.arena, iovs, iovsLen)
	if !ok {
		d.ctx.TraceCall("fd_pread", fd, "", wasi1.ErrnoFault)
		stack[0] = uint64(wasi1.ErrnoFault)
		return
	}
	n, errno := d.ctx.FdPread(fd, mio.Bufs, offset)
	if errno == wasi1.ErrnoSuccess {
		if !mio.WriteBack(mem) || !bridge.CopyOut(mem, resultNread, le32(n)) {
			errno = wasi1.ErrnoFault
		}
	}
	d.ctx.TraceCall("fd_pread", fd, "", errno)
	stack[0] = uint64(errno)
}

func (d *Dispatcher) fdPwrite(mem api.Memory, stack []uint64) {
	fd := uint32(stack[0])
	iovs := uint32(stack[1])
	iovsLen := uint32(stack[2])
	offset := stack[3]
	resultNwritten := uint32(stack[4])

	bufs, ok := bridge.ReadCIOVecs(mem, d.arena, iovs, iovsLen)
	if !ok {
		d.ctx.TraceCall("fd_pwrite", fd, "", wasi1.ErrnoFault)
		stack[0] = uint64(wasi1.ErrnoFault)
		return
	}
	n, errno := d.ctx.FdPwrite(fd, bufs, offset)
	if errno == wasi1.ErrnoSuccess {
		if !bridge.CopyOut(mem, resultNwritten, le32(n)) {
			errno = wasi1.ErrnoFault
		}
	}
	d.ctx.TraceCall("fd_pwrite", fd, "", errno)
	stack[0] = uint64(errno)
}

func (d *Dispatcher) fdRead(mem api.Memory, stack []uint64) {
	fd := uint32(stack[0])
	iovs := uint32(stack[1])
	iovsLen := uint32(stack[2])
	resultNread := uint32(stack[3])

	mio, ok := bridge.ReadIOVecs(mem, d.arena, iovs, iovsLen)
	if !ok {
		d.ctx.TraceCall("fd_read", fd, "", wasi1.ErrnoFault)
		stack[0] = uint64(wasi1.ErrnoFault)
		return
	}
	n, errno := d.ctx.FdRead(fd, mio.Bufs)
	if errno == wasi1.ErrnoSuccess {
		if !mio.WriteBack(mem) || !bridge.CopyOut(mem, resultNread, le32(n)) {
			errno = wasi1.ErrnoFault
		}
	}
	d.ctx.TraceCall("fd_read", fd, "", errno)
	stack[0] = uint64(errno)
}

func (d *Dispatcher) fdWrite(mem api.Memory, stack []uint64) {
	fd := uint32(stack[0])
	iovs := uint32(stack[1])
	iovsLen := uint32(stack[2])
	resultNwritten := uint32(stack[3])

	bufs, ok := bridge.ReadCIOVecs(mem, d.arena, iovs, iovsLen)
	if !ok {
		d.ctx.TraceCall("fd_write", fd, "", wasi1.ErrnoFault)
		stack[0] = uint64(wasi1.ErrnoFault)
		return
	}
	n, errno := d.ctx.FdWrite(fd, bufs)
	if errno == wasi1.ErrnoSuccess {
		if !bridge.CopyOut(mem, resultNwritten, le32(n)) {
			errno = wasi1.ErrnoFault
		}
	}
	d.ctx.TraceCall("fd_write", fd, "", errno)
	stack[0] = uint64(errno)
}

func (d *Dispatcher) fdSeek(mem api.Memory, stack []uint64) {
	fd := uint32(stack[0])
	offset := int64(stack[1])
	whence := wasi1.Whence(uint8(stack[2]))
	resultNewoffset := uint32(stack[3])

	pos, errno := d.ctx.FdSeek(fd, offset, whence)
	d.ctx.TraceCall("fd_seek", fd, "", errno)
	if errno == wasi1.ErrnoSuccess {
		if !bridge.CopyOut(mem, resultNewoffset, le64(pos)) {
			errno = wasi1.ErrnoFault
		}
	}
	stack[0] = uint64(errno)
}

func (d *Dispatcher) fdTell(mem api.Memory, stack []uint64) {
	fd := uint32(stack[0])
	resultOffset := uint32(stack[1])
	pos, errno := d.ctx.FdTell(fd)
	d.ctx.TraceCall("fd_tell", fd, "", errno)
	if errno == wasi1.ErrnoSuccess {
		if !bridge.CopyOut(mem, resultOffset, le64(pos)) {
			errno = wasi1.ErrnoFault
		}
	}
	stack[0] = uint64(errno)
}

func (d *Dispatcher) fdReaddir(_ api.Memory, stack []uint64) {
	fd := uint32(stack[0])
	_, errno := d.ctx.FdReaddir(fd, nil, 0)
	d.ctx.TraceCall("fd_readdir", fd, "", errno)
	stack[0] = uint64(errno)
}

func (d *Dispatcher) fdPrestatGet(mem api.Memory, stack []uint64) {
	fd := uint32(stack[0])
	buf := uint32(stack[1])
	nameLen, errno := d.ctx.FdPrestatGet(fd)
	d.ctx.TraceCall("fd_prestat_get", fd, "", errno)
	if errno == wasi1.ErrnoSuccess {
		if !bridge.CopyOut(mem, buf, encodePrestatDir(nameLen)) {
			errno = wasi1.ErrnoFault
		}
	}
	stack[0] = uint64(errno)
}

func (d *Dispatcher) fdPrestatDirName(mem api.Memory, stack []uint64) {
	fd := uint32(stack[0])
	buf := uint32(stack[1])
	bufLen := uint32(stack[2])
	name, errno := d.ctx.FdPrestatDirName(fd, bufLen)
	d.ctx.TraceCall("fd_prestat_dir_name", fd, name, errno)
	if errno == wasi1.ErrnoSuccess {
		if !bridge.CopyOut(mem, buf, []byte(name)) {
			errno = wasi1.ErrnoFault
		}
	}
	stack[0] = uint64(errno)
}

func (d *Dispatcher) fdRenumber(_ api.Memory, stack []uint64) {
	from := uint32(stack[0])
	to := uint32(stack[1])
	errno := d.ctx.FdRenumber(from, to)
	d.ctx.TraceCall("fd_renumber", from, "", errno)
	stack[0] = uint64(errno)
}

func le32(v uint32) []byte {
	b := make([]byte, 4)
	le.PutUint32(b, v)
	return b
}

func le64(v uint64) []byte {
	b := make([]byte, 8)
	le.PutUint64(b, v)
	return b
}
