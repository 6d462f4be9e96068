package dispatch

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wasi-memfs/memfs/bridge"
	"github.com/wasi-memfs/memfs/wasi1"
)

func (d *Dispatcher) pathCreateDirectory(mem api.Memory, stack []uint64) {
	dirFd := uint32(stack[0])
	pathAddr := uint32(stack[1])
	pathLen := uint32(stack[2])

	rel, ok := bridge.CopyInString(mem, d.arena, pathAddr, pathLen)
	if !ok {
		stack[0] = uint64(wasi1.ErrnoFault)
		return
	}
	errno := d.ctx.PathCreateDirectory(dirFd, rel)
	d.ctx.TraceCall("path_create_directory", dirFd, rel, errno)
	stack[0] = uint64(errno)
}

func (d *Dispatcher) pathFilestatGet(mem api.Memory, stack []uint64) {
	dirFd := uint32(stack[0])
	flags := uint32(stack[1])
	pathAddr := uint32(stack[2])
	pathLen := uint32(stack[3])
	buf := uint32(stack[4])

	rel, ok := bridge.CopyInString(mem, d.arena, pathAddr, pathLen)
	if !ok {
		stack[0] = uint64(wasi1.ErrnoFault)
		return
	}
	st, errno := d.ctx.PathFilestatGet(dirFd, flags, rel)
	d.ctx.TraceCall("path_filestat_get", dirFd, rel, errno)
	if errno == wasi1.ErrnoSuccess {
		if !bridge.CopyOut(mem, buf, encodeFilestat(st)) {
			errno = wasi1.ErrnoFault
		}
	}
	stack[0] = uint64(errno)
}

func (d *Dispatcher) pathFilestatSetTimes(mem api.Memory, stack []uint64) {
	dirFd := uint32(stack[0])
	flags := uint32(stack[1])
	pathAddr := uint32(stack[2])
	pathLen := uint32(stack[3])
	atim := stack[4]
	mtim := stack[5]
	fstFlags := wasi1.Fstflags(stack[6])

	rel, ok := bridge.CopyInString(mem, d.arena, pathAddr, pathLen)
	if !ok {
		stack[0] = uint64(wasi1.ErrnoFault)
		return
	}
	errno := d.ctx.PathFilestatSetTimes(dirFd, flags, rel, atim, mtim, fstFlags)
	d.ctx.TraceCall("path_filestat_set_times", dirFd, rel, errno)
	stack[0] = uint64(errno)
}

func (d *Dispatcher) pathOpen(mem api.Memory, stack []uint64) {
	dirFd := uint32(stack[0])
	_ = stack[1] // dirflags: path-resolution lookup flags, unused (no symlinks)
	pathAddr := uint32(stack[2])
	pathLen := uint32(stack[3])
	oflags := wasi1.Oflags(uint16(stack[4]))
	rightsBase := wasi1.Rights(stack[5])
	rightsInheriting := wasi1.Rights(stack[6])
	fdFlags := wasi1.Fdflags(uint16(stack[7]))
	resultFd := uint32(stack[8])

	rel, ok := bridge.CopyInString(mem, d.arena, pathAddr, pathLen)
	if !ok {
		stack[0] = uint64(wasi1.ErrnoFault)
		return
	}
	fd, errno := d.ctx.PathOpen(dirFd, rel, oflags, rightsBase, rightsInheriting, fdFlags)
	d.ctx.TraceCall("path_open", dirFd, rel, errno)
	if errno == wasi1.ErrnoSuccess {
		if !bridge.CopyOut(mem, resultFd, le32(fd)) {
			errno = wasi1.ErrnoFault
		}
	}
	stack[0] = uint64(errno)
}

func (d *Dispatcher) pathRemoveDirectory(mem api.Memory, stack []uint64) {
	dirFd := uint32(stack[0])
	pathAddr := uint32(stack[1])
	pathLen := uint32(stack[2])

	rel, ok := bridge.CopyInString(mem, d.arena, pathAddr, pathLen)
	if !ok {
		stack[0] = uint64(wasi1.ErrnoFault)
		return
	}
	errno := d.ctx.PathRemoveDirectory(dirFd, rel)
	d.ctx.TraceCall("path_remove_directory", dirFd, rel, errno)
	stack[0] = uint64(errno)
}

func (d *Dispatcher) pathUnlinkFile(mem api.Memory, stack []uint64) {
	dirFd := uint32(stack[0])
	pathAddr := uint32(stack[1])
	pathLen := uint32(stack[2])

	rel, ok := bridge.CopyInString(mem, d.arena, pathAddr, pathLen)
	if !ok {
		stack[0] = uint64(wasi1.ErrnoFault)
		return
	}
	errno := d.ctx.PathUnlinkFile(dirFd, rel)
	d.ctx.TraceCall("path_unlink_file", dirFd, rel, errno)
	stack[0] = uint64(errno)
}

func (d *Dispatcher) pathRename(mem api.Memory, stack []uint64) {
	oldDirFd := uint32(stack[0])
	oldPathAddr := uint32(stack[1])
	oldPathLen := uint32(stack[2])
	newDirFd := uint32(stack[3])
	newPathAddr := uint32(stack[4])
	newPathLen := uint32(stack[5])

	oldRel, ok := bridge.CopyInString(mem, d.arena, oldPathAddr, oldPathLen)
	if !ok {
		stack[0] = uint64(wasi1.ErrnoFault)
		return
	}
	newRel, ok := bridge.CopyInString(mem, d.arena, newPathAddr, newPathLen)
	if !ok {
		stack[0] = uint64(wasi1.ErrnoFault)
		return
	}
	errno := d.ctx.PathRename(oldDirFd, oldRel, newDirFd, newRel)
	d.ctx.TraceCall("path_rename", oldDirFd, oldRel+" -> "+newRel, errno)
	stack[0] = uint64(errno)
}

func (d *Dispatcher) pathReadlink(mem api.Memory, stack []uint64) {
	dirFd := uint32(stack[0])
	pathAddr := uint32(stack[1])
	pathLen := uint32(stack[2])

	rel, ok := bridge.CopyInString(mem, d.arena, pathAddr, pathLen)
	if !ok {
		stack[0] = uint64(wasi1.ErrnoFault)
		return
	}
	_, errno := d.ctx.PathReadlink(dirFd, rel, nil)
	d.ctx.TraceCall("path_readlink", dirFd, rel, errno)
	stack[0] = uint64(errno)
}

func (d *Dispatcher) pathLink(mem api.Memory, stack []uint64) {
	oldDirFd := uint32(stack[0])
	oldPathAddr := uint32(stack[2])
	oldPathLen := uint32(stack[3])
	newDirFd := uint32(stack[4])
	newPathAddr := uint32(stack[5])
	newPathLen := uint32(stack[6])

	oldRel, ok := bridge.CopyInString(mem, d.arena, oldPathAddr, oldPathLen)
	if !ok {
		stack[0] = uint64(wasi1.ErrnoFault)
		return
	}
	newRel, ok := bridge.CopyInString(mem, d.arena, newPathAddr, newPathLen)
	if !ok {
		stack[0] = uint64(wasi1.ErrnoFault)
		return
	}
	errno := d.ctx.PathLink(oldDirFd, oldRel, newDirFd, newRel)
	d.ctx.TraceCall("path_link", oldDirFd, oldRel+" -> "+newRel, errno)
	stack[0] = uint64(errno)
}

func (d *Dispatcher) pathSymlink(mem api.Memory, stack []uint64) {
	oldPathAddr := uint32(stack[0])
	oldPathLen := uint32(stack[1])
	dirFd := uint32(stack[2])
	newPathAddr := uint32(stack[3])
	newPathLen := uint32(stack[4])

	oldRel, ok := bridge.CopyInString(mem, d.arena, oldPathAddr, oldPathLen)
	if !ok {
		stack[0] = uint64(wasi1.ErrnoFault)
		return
	}
	newRel, ok := bridge.CopyInString(mem, d.arena, newPathAddr, newPathLen)
	if !ok {
		stack[0] = uint64(wasi1.ErrnoFault)
		return
	}
	errno := d.ctx.PathSymlink(oldRel, dirFd, newRel)
	d.ctx.TraceCall("path_symlink", dirFd, oldRel+" -> "+newRel, errno)
	stack[0] = uint64(errno)
}
