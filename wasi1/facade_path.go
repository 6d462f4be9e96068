package wasi1

import "strings"

var dirKind = KindDirectory

// lookupDir resolves dirFd to a directory descriptor with the given
// rights, the common first step of every path_* call.
func (c *Context) lookupDir(dirFd uint32, required Rights) (*Descriptor, Errno) {
	return c.table.Lookup(dirFd, LookupOpts{WantKind: &dirKind, Required: required})
}

// PathCreateDirectory implements path_create_directory.
func (c *Context) PathCreateDirectory(dirFd uint32, rel string) Errno {
	dir, errno := c.lookupDir(dirFd, RightPathCreateDirectory)
	if errno != ErrnoSuccess {
		return errno
	}
	path := ResolvePath(dir.Path, rel)
	return ErrnoFrom(c.backend.Mkdir(path))
}

// PathFilestatGet implements path_filestat_get.
func (c *Context) PathFilestatGet(dirFd uint32, _ uint32, rel string) (Filestat, Errno) {
	dir, errno := c.lookupDir(dirFd, RightPathFilestatGet)
	if errno != ErrnoSuccess {
		return Filestat{}, errno
	}
	path := ResolvePath(dir.Path, rel)
	st, err := c.backend.Stat(path)
	if err != nil {
		return Filestat{}, ErrnoFrom(err)
	}
	ts, err := getMetadata(c.backend, path)
	if err != nil {
		return Filestat{}, ErrnoFrom(err)
	}
	return Filestat{
		Filetype: FiletypeFromKind(st.Kind),
		Nlink:    1,
		Size:     st.Size,
		Atim:     ts.Atim,
		Mtim:     ts.Mtim,
	}, ErrnoSuccess
}

// PathFilestatSetTimes implements path_filestat_set_times.
func (c *Context) PathFilestatSetTimes(dirFd uint32, _ uint32, rel string, atim, mtim uint64, flags Fstflags) Errno {
	dir, errno := c.lookupDir(dirFd, RightPathFilestatSetTimes)
	if errno != ErrnoSuccess {
		return errno
	}
	path := ResolvePath(dir.Path, rel)
	return c.setTimes(path, atim, mtim, flags)
}

// PathOpen implements path_open: the rights-narrowing, kind-splitting
// open call described in SPEC_FULL.md §4.E / §2C.
func (c *Context) PathOpen(
	dirFd uint32,
	rel string,
	oflags Oflags,
	rightsBase, rightsInheriting Rights,
	fdFlags Fdflags,
) (uint32, Errno) {
	required := RightPathOpen
	if oflags&OflagsCreat != 0 {
		required |= RightPathCreateFile
	}
	if oflags&OflagsTrunc != 0 {
		required |= RightPathFilestatSetSize
	}
	dir, errno := c.lookupDir(dirFd, required)
	if errno != ErrnoSuccess {
		return 0, errno
	}
	path := ResolvePath(dir.Path, rel)

	base := rightsBase & dir.Inheriting
	inheriting := rightsInheriting & dir.Inheriting

	desc := &Descriptor{Path: path, Flags: fdFlags, Inheriting: inheriting}

	if oflags&OflagsDirectory != 0 {
		desc.Kind = KindDirectory
		desc.BaseRights = base &^ dirFDRights
		d, err := c.backend.OpenDir(path)
		if err != nil {
			return 0, ErrnoFrom(err)
		}
		desc.Dir = d
	} else {
		desc.Kind = KindRegular
		desc.BaseRights = base &^ pathRights
		f, err := c.backend.OpenFile(path, OpenFlagsFrom(oflags, desc.BaseRights))
		if err != nil {
			return 0, ErrnoFrom(err)
		}
		desc.File = f
	}

	if err := touchMetadata(c.backend, path); err != nil {
		return 0, ErrnoFrom(err)
	}

	handle := c.table.Insert(desc)
	return handle, ErrnoSuccess
}

// PathRemoveDirectory implements path_remove_directory.
func (c *Context) PathRemoveDirectory(dirFd uint32, rel string) Errno {
	dir, errno := c.lookupDir(dirFd, RightPathRemoveDirectory)
	if errno != ErrnoSuccess {
		return errno
	}
	path := ResolvePath(dir.Path, rel)
	if st, err := c.backend.Stat(path); err == nil && st.Kind != KindDirectory {
		return ErrnoNotdir
	}
	return ErrnoFrom(c.backend.Remove(path))
}

// PathUnlinkFile implements path_unlink_file.
func (c *Context) PathUnlinkFile(dirFd uint32, rel string) Errno {
	dir, errno := c.lookupDir(dirFd, RightPathUnlinkFile)
	if errno != ErrnoSuccess {
		return errno
	}
	path := ResolvePath(dir.Path, rel)
	st, statErr := c.backend.Stat(path)
	if statErr == nil && st.Kind == KindDirectory {
		return ErrnoIsdir
	}
	if strings.HasSuffix(path, "/") {
		return ErrnoNotdir
	}
	if statErr != nil {
		return ErrnoFrom(statErr)
	}
	return ErrnoFrom(c.backend.Remove(path))
}

// PathRename implements path_rename, including the ISDIR/NOTDIR
// remapping described in §4.E.
func (c *Context) PathRename(oldDirFd uint32, oldRel string, newDirFd uint32, newRel string) Errno {
	oldDir, errno := c.lookupDir(oldDirFd, RightPathRenameSource)
	if errno != ErrnoSuccess {
		return errno
	}
	newDir, errno := c.lookupDir(newDirFd, RightPathRenameTarget)
	if errno != ErrnoSuccess {
		return errno
	}
	oldPath := ResolvePath(oldDir.Path, oldRel)
	newPath := ResolvePath(newDir.Path, newRel)

	st, err := c.backend.Stat(oldPath)
	if err != nil {
		return ErrnoFrom(err)
	}
	if st.Kind == KindDirectory {
		newPath = strings.TrimSuffix(newPath, "/")
	} else {
		if strings.HasSuffix(oldPath, "/") || strings.HasSuffix(newPath, "/") {
			return ErrnoNotdir
		}
	}

	err = c.backend.Rename(oldPath, newPath)
	if err == nil {
		return ErrnoSuccess
	}
	be, ok := err.(*BackendError)
	if ok && be.Code == BackendIsdir {
		if dstStat, dstErr := c.backend.Stat(newPath); dstErr == nil && dstStat.Kind == KindRegular {
			return ErrnoNotdir
		}
		return ErrnoIsdir
	}
	return ErrnoFrom(err)
}

// PathReadlink, PathLink, and PathSymlink are NOSYS: symlinks and hard
// links are non-goals.
func (c *Context) PathReadlink(uint32, string, []byte) (uint32, Errno) { return 0, ErrnoNosys }
func (c *Context) PathLink(uint32, string, uint32, string) Errno       { return ErrnoNosys }
func (c *Context) PathSymlink(string, uint32, string) Errno            { return ErrnoNosys }
