package wasi1

// Fdstat is the result of fd_fdstat_get: the full four-field record
// (filetype, fs_flags, and both rights masks) per SPEC_FULL.md §2C, not
// just the flags/filetype spec.md's prose singles out.
type Fdstat struct {
	Filetype   Filetype
	Flags      Fdflags
	BaseRights Rights
	Inheriting Rights
}

// Filestat is the result of fd_filestat_get / path_filestat_get.
type Filestat struct {
	Dev      uint64
	Ino      uint64
	Filetype Filetype
	Nlink    uint64
	Size     uint64
	Atim     uint64
	Mtim     uint64
}
