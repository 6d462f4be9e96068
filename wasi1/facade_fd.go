package wasi1

import "io"

// FdClose implements fd_close: refuses preopens, closes the backend
// handle for the descriptor's Kind, and removes the table entry.
func (c *Context) FdClose(fd uint32) Errno {
	desc, ok := c.table.Get(fd)
	if !ok {
		return ErrnoBadf
	}
	if desc.Preopen {
		return ErrnoNotsup
	}
	if !desc.Stream {
		switch desc.Kind {
		case KindDirectory:
			if desc.Dir != nil {
				_ = desc.Dir.Close()
			}
		default:
			if desc.File != nil {
				_ = desc.File.Close()
			}
		}
	}
	return c.table.Remove(fd)
}

// FdDatasync implements fd_datasync: every write path already flushes
// synchronously (FdWrite), so this call only validates the right.
func (c *Context) FdDatasync(fd uint32) Errno {
	_, errno := c.table.Lookup(fd, LookupOpts{Required: RightFdDatasync, AllowStream: true})
	return errno
}

// FdSync implements fd_sync; see FdDatasync.
func (c *Context) FdSync(fd uint32) Errno {
	_, errno := c.table.Lookup(fd, LookupOpts{Required: RightFdSync, AllowStream: true})
	return errno
}

// FdAdvise implements fd_advise as a no-op beyond the rights check.
func (c *Context) FdAdvise(fd uint32, _ uint64, _ uint64, _ uint8) Errno {
	_, errno := c.table.Lookup(fd, LookupOpts{Required: RightFdAdvise, AllowStream: true})
	return errno
}

// FdAllocate implements fd_allocate: extends the file to off+len when
// that exceeds the current size.
func (c *Context) FdAllocate(fd uint32, off, length uint64) Errno {
	desc, errno := c.table.Lookup(fd, LookupOpts{Required: RightFdAllocate})
	if errno != ErrnoSuccess {
		return errno
	}
	want := off + length
	if want > desc.File.Size() {
		if err := desc.File.Truncate(want); err != nil {
			return ErrnoFrom(err)
		}
	}
	if err := desc.File.Sync(); err != nil {
		return ErrnoFrom(err)
	}
	return ErrnoSuccess
}

// FdFdstatGet implements fd_fdstat_get: requires no rights.
func (c *Context) FdFdstatGet(fd uint32) (Fdstat, Errno) {
	desc, ok := c.table.Get(fd)
	if !ok {
		return Fdstat{}, ErrnoBadf
	}
	ft := FiletypeFromKind(desc.Kind)
	if desc.Stream {
		ft = FiletypeSocketStream
	}
	return Fdstat{
		Filetype:   ft,
		Flags:      desc.Flags,
		BaseRights: desc.BaseRights,
		Inheriting: desc.Inheriting,
	}, ErrnoSuccess
}

// FdFdstatSetFlags implements fd_fdstat_set_flags.
func (c *Context) FdFdstatSetFlags(fd uint32, flags Fdflags) Errno {
	desc, errno := c.table.Lookup(fd, LookupOpts{Required: RightFdFdstatSetFlags, AllowStream: true})
	if errno != ErrnoSuccess {
		return errno
	}
	desc.Flags = flags
	return ErrnoSuccess
}

// FdFdstatSetRights implements fd_fdstat_set_rights: shrink-only.
func (c *Context) FdFdstatSetRights(fd uint32, base, inheriting Rights) Errno {
	desc, ok := c.table.Get(fd)
	if !ok {
		return ErrnoBadf
	}
	if !desc.BaseRights.Has(base) || !desc.Inheriting.Has(inheriting) {
		return ErrnoNotcapable
	}
	desc.BaseRights = base
	desc.Inheriting = inheriting
	return ErrnoSuccess
}

// FdFilestatGet implements fd_filestat_get. Stream descriptors answer
// before the rights check, since standard streams never hold
// RightFdFilestatGet.
func (c *Context) FdFilestatGet(fd uint32) (Filestat, Errno) {
	if sd, ok := c.table.Get(fd); ok && sd.Stream {
		return Filestat{Filetype: FiletypeSocketStream, Nlink: 1}, ErrnoSuccess
	}
	desc, errno := c.table.Lookup(fd, LookupOpts{Required: RightFdFilestatGet, AllowStream: true})
	if errno != ErrnoSuccess {
		return Filestat{}, errno
	}
	ts, err := getMetadata(c.backend, desc.Path)
	if err != nil {
		return Filestat{}, ErrnoFrom(err)
	}
	var size uint64
	if desc.Kind != KindDirectory && desc.File != nil {
		size = desc.File.Size()
	}
	return Filestat{
		Filetype: FiletypeFromKind(desc.Kind),
		Nlink:    1,
		Size:     size,
		Atim:     ts.Atim,
		Mtim:     ts.Mtim,
	}, ErrnoSuccess
}

// FdFilestatSetSize implements fd_filestat_set_size.
func (c *Context) FdFilestatSetSize(fd uint32, size uint64) Errno {
	desc, errno := c.table.Lookup(fd, LookupOpts{Required: RightFdFilestatSetSize})
	if errno != ErrnoSuccess {
		return errno
	}
	if err := desc.File.Truncate(size); err != nil {
		return ErrnoFrom(err)
	}
	if err := desc.File.Sync(); err != nil {
		return ErrnoFrom(err)
	}
	return ErrnoSuccess
}

// FdFilestatSetTimes implements fd_filestat_set_times; see setTimes.
func (c *Context) FdFilestatSetTimes(fd uint32, atim, mtim uint64, flags Fstflags) Errno {
	desc, errno := c.table.Lookup(fd, LookupOpts{Required: RightFdFilestatSetTimes, AllowStream: true})
	if errno != ErrnoSuccess {
		return errno
	}
	if desc.Stream {
		return ErrnoSuccess
	}
	return c.setTimes(desc.Path, atim, mtim, flags)
}

// FdPread implements fd_pread: positional read that leaves the
// descriptor's current position untouched.
func (c *Context) FdPread(fd uint32, iovecs [][]byte, offset uint64) (uint32, Errno) {
	desc, errno := c.table.Lookup(fd, LookupOpts{Required: RightFdRead})
	if errno != ErrnoSuccess {
		return 0, errno
	}
	p0, err := desc.File.Seek(0, ioSeekCur)
	if err != nil {
		return 0, ErrnoFrom(err)
	}
	if _, err := desc.File.Seek(int64(offset), ioSeekSet); err != nil {
		return 0, ErrnoFrom(err)
	}
	if err := desc.File.Sync(); err != nil {
		return 0, ErrnoFrom(err)
	}
	var total uint32
	for _, buf := range iovecs {
		n, err := readFull(desc.File, buf)
		total += uint32(n)
		if err != nil {
			break
		}
	}
	if _, err := desc.File.Seek(p0, ioSeekSet); err != nil {
		return total, ErrnoFrom(err)
	}
	if err := desc.File.Sync(); err != nil {
		return total, ErrnoFrom(err)
	}
	return total, ErrnoSuccess
}

// FdPwrite implements fd_pwrite: positional write that leaves the
// descriptor's current position untouched.
func (c *Context) FdPwrite(fd uint32, iovecs [][]byte, offset uint64) (uint32, Errno) {
	desc, errno := c.table.Lookup(fd, LookupOpts{Required: RightFdWrite})
	if errno != ErrnoSuccess {
		return 0, errno
	}
	p0, err := desc.File.Seek(0, ioSeekCur)
	if err != nil {
		return 0, ErrnoFrom(err)
	}
	if _, err := desc.File.Seek(int64(offset), ioSeekSet); err != nil {
		return 0, ErrnoFrom(err)
	}
	if err := desc.File.Sync(); err != nil {
		return 0, ErrnoFrom(err)
	}
	var total uint32
	for _, buf := range iovecs {
		n, err := desc.File.Write(buf)
		total += uint32(n)
		if err != nil {
			return total, ErrnoFrom(err)
		}
	}
	if _, err := desc.File.Seek(p0, ioSeekSet); err != nil {
		return total, ErrnoFrom(err)
	}
	if err := desc.File.Sync(); err != nil {
		return total, ErrnoFrom(err)
	}
	return total, ErrnoSuccess
}

// FdRead implements fd_read: scatter-read at the current position.
func (c *Context) FdRead(fd uint32, iovecs [][]byte) (uint32, Errno) {
	desc, errno := c.table.Lookup(fd, LookupOpts{Required: RightFdRead})
	if errno != ErrnoSuccess {
		return 0, errno
	}
	var total uint32
	for _, buf := range iovecs {
		n, err := readFull(desc.File, buf)
		total += uint32(n)
		if err != nil {
			break
		}
	}
	if err := desc.File.Sync(); err != nil {
		return total, ErrnoFrom(err)
	}
	return total, ErrnoSuccess
}

// FdWrite implements fd_write, including the append-mode dance of
// SPEC_FULL.md §4.E: append writes land at end-of-file without moving
// the descriptor's logical cursor.
func (c *Context) FdWrite(fd uint32, iovecs [][]byte) (uint32, Errno) {
	desc, errno := c.table.Lookup(fd, LookupOpts{Required: RightFdWrite})
	if errno != ErrnoSuccess {
		return 0, errno
	}
	if err := desc.File.Sync(); err != nil {
		return 0, ErrnoFrom(err)
	}
	p0, err := desc.File.Seek(0, ioSeekCur)
	if err != nil {
		return 0, ErrnoFrom(err)
	}
	appending := desc.Flags&FdflagsAppend != 0
	if appending {
		desc.File.SetAppend(true)
	}
	var total uint32
	for _, buf := range iovecs {
		n, werr := desc.File.Write(buf)
		total += uint32(n)
		if werr != nil {
			if appending {
				desc.File.SetAppend(false)
			}
			return total, ErrnoFrom(werr)
		}
	}
	if appending {
		desc.File.SetAppend(false)
		if _, err := desc.File.Seek(p0, ioSeekSet); err != nil {
			return total, ErrnoFrom(err)
		}
	}
	if err := desc.File.Sync(); err != nil {
		return total, ErrnoFrom(err)
	}
	return total, ErrnoSuccess
}

// FdSeek implements fd_seek. A whence=CUR,off=0 query additionally
// requires RightFdTell, matching fd_tell's delegation to this call.
// Stream descriptors report SPIPE before the rights check, since standard
// streams never hold RightFdSeek.
func (c *Context) FdSeek(fd uint32, offset int64, whence Whence) (uint64, Errno) {
	if sd, ok := c.table.Get(fd); ok && sd.Stream {
		return 0, ErrnoSpipe
	}
	required := RightFdSeek
	if offset == 0 && whence == WhenceCur {
		required |= RightFdTell
	}
	desc, errno := c.table.Lookup(fd, LookupOpts{Required: required, AllowStream: true})
	if errno != ErrnoSuccess {
		return 0, errno
	}
	var nativeWhence int
	switch whence {
	case WhenceSet:
		nativeWhence = ioSeekSet
	case WhenceCur:
		nativeWhence = ioSeekCur
	case WhenceEnd:
		nativeWhence = ioSeekEnd
	default:
		return 0, ErrnoInval
	}
	pos, err := desc.File.Seek(offset, nativeWhence)
	if err != nil {
		return 0, ErrnoFrom(err)
	}
	return uint64(pos), ErrnoSuccess
}

// FdTell implements fd_tell as fd_seek(fd, 0, CUR).
func (c *Context) FdTell(fd uint32) (uint64, Errno) {
	return c.FdSeek(fd, 0, WhenceCur)
}

// FdReaddir always returns NOSYS: directory enumeration is a non-goal.
func (c *Context) FdReaddir(uint32, []byte, uint64) (uint32, Errno) {
	return 0, ErrnoNosys
}

// FdPrestatGet implements fd_prestat_get.
func (c *Context) FdPrestatGet(fd uint32) (nameLen uint32, errno Errno) {
	if fd < 3 || int(fd-3) >= c.table.PreopenCount() {
		return 0, ErrnoBadf
	}
	desc, ok := c.table.Get(fd)
	if !ok {
		return 0, ErrnoBadf
	}
	return uint32(len(desc.Path)), ErrnoSuccess
}

// FdPrestatDirName implements fd_prestat_dir_name. bufLen is the guest's
// destination buffer size; per §4.E the guest is expected to have
// already called fd_prestat_get, so a mismatched length is treated as a
// bad argument rather than silently truncated or padded.
func (c *Context) FdPrestatDirName(fd uint32, bufLen uint32) (string, Errno) {
	if fd < 3 || int(fd-3) >= c.table.PreopenCount() {
		return "", ErrnoBadf
	}
	desc, ok := c.table.Get(fd)
	if !ok {
		return "", ErrnoBadf
	}
	if uint32(len(desc.Path)) != bufLen {
		return "", ErrnoInval
	}
	return desc.Path, ErrnoSuccess
}

// FdRenumber implements fd_renumber. The source is checked before the
// target is closed, so a refused call leaves the table unchanged.
func (c *Context) FdRenumber(from, to uint32) Errno {
	src, ok := c.table.Get(from)
	if !ok {
		return ErrnoBadf
	}
	if src.Preopen {
		return ErrnoNotsup
	}
	if desc, ok := c.table.Get(to); ok {
		if desc.Preopen {
			return ErrnoNotsup
		}
		if errno := c.FdClose(to); errno != ErrnoSuccess {
			return errno
		}
	}
	return c.table.Renumber(from, to)
}

const (
	ioSeekSet = 0
	ioSeekCur = 1
	ioSeekEnd = 2
)

// readFull reads into buf until it is full or the reader returns an
// error, and returns the bytes read together with that error (io.EOF at
// end of file included). Callers stop the scatter at the first error
// without reporting it, so later iovecs keep their unread bytes.
func readFull(r io.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}
