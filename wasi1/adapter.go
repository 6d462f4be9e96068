package wasi1

// FiletypeFromKind maps a descriptor's backing Kind to a WASI filetype.
// A stream descriptor's filetype (SOCKET_STREAM) is decided by the
// façade, not here: streams have no Kind-bearing backing state.
func FiletypeFromKind(kind Kind) Filetype {
	if kind == KindDirectory {
		return FiletypeDirectory
	}
	return FiletypeRegularFile
}

// OpenFlagsFrom maps WASI oflags plus the rights a descriptor is about to
// hold into the backend's native open flags. Read/write is derived from
// rights (not oflags) because path_open never passes O_RDONLY/O_WRONLY
// directly; the WASI ABI expresses access mode purely through the
// requested rights_base.
func OpenFlagsFrom(oflags Oflags, rights Rights) OpenFlags {
	return OpenFlags{
		Read:   rights.Has(RightFdRead),
		Write:  rights.Has(RightFdWrite),
		Create: oflags&OflagsCreat != 0,
		Excl:   oflags&OflagsExcl != 0,
		Trunc:  oflags&OflagsTrunc != 0,
	}
}

// ErrnoFrom translates a backend error into its WASI errno. Any backend
// error this switch doesn't recognize is a programmer error: the backend
// contract (§4.A) promises only the codes listed here.
func ErrnoFrom(err error) Errno {
	if err == nil {
		return ErrnoSuccess
	}
	be, ok := err.(*BackendError)
	if !ok {
		panic("wasi1: backend returned an error outside its documented contract: " + err.Error())
	}
	switch be.Code {
	case BackendNoent:
		return ErrnoNoent
	case BackendExist:
		return ErrnoExist
	case BackendIsdir:
		return ErrnoIsdir
	case BackendNotempty:
		return ErrnoNotempty
	case BackendNotdir:
		return ErrnoNotdir
	case BackendInval:
		return ErrnoInval
	case BackendNospc:
		return ErrnoNospc
	default:
		panic("wasi1: unrecognized backend errno")
	}
}
