package wasi1

// Rights is a WASI preview-1 rights bitmask (fd_rights_base / fd_rights_inheriting).
type Rights uint64

// Rights bits actually consulted by this implementation. Bits not listed
// here are accepted (stored, echoed back by fd_fdstat_get) but never
// individually gated, matching the calls this façade implements.
const (
	RightFdDatasync Rights = 1 << iota
	RightFdRead
	RightFdSeek
	RightFdFdstatSetFlags
	RightFdSync
	RightFdTell
	RightFdWrite
	RightFdAdvise
	RightFdAllocate
	RightPathCreateDirectory
	RightPathCreateFile
	RightPathLinkSource_ // unused: link is NOSYS, kept for bit-position fidelity
	RightPathLinkTarget_ // unused: link is NOSYS, kept for bit-position fidelity
	RightPathOpen
	RightFdReaddir
	RightPathReadlink_ // unused: readlink is NOSYS
	RightPathRenameSource
	RightPathRenameTarget
	RightPathFilestatGet
	RightPathFilestatSetSize
	RightPathFilestatSetTimes
	RightFdFilestatGet
	RightFdFilestatSetSize
	RightFdFilestatSetTimes
	RightPathSymlink_ // unused: symlink is NOSYS
	RightPathRemoveDirectory
	RightPathUnlinkFile
	RightPollFdReadwrite
	RightSockShutdown_ // unused: no sockets
	RightSockAccept_   // unused: no sockets
)

// RightsAll is the union of every right this implementation recognizes.
const RightsAll Rights = (1 << 30) - 1

// dirFDRights is the subset of RightsAll that only makes sense on an
// open regular-file descriptor (fd-category I/O). path_open clears these
// from a descriptor opened as a directory.
const dirFDRights = RightFdDatasync | RightFdRead | RightFdSeek |
	RightFdFdstatSetFlags | RightFdSync | RightFdTell | RightFdWrite |
	RightFdAdvise | RightFdAllocate | RightFdReaddir | RightFdFilestatGet |
	RightFdFilestatSetSize | RightFdFilestatSetTimes | RightPollFdReadwrite

// pathRights is the subset of RightsAll that only makes sense on an open
// directory descriptor (path-category operations). path_open clears
// these from a descriptor opened as a regular file.
const pathRights = RightPathCreateDirectory | RightPathCreateFile |
	RightPathOpen | RightPathRenameSource | RightPathRenameTarget |
	RightPathFilestatGet | RightPathFilestatSetSize | RightPathFilestatSetTimes |
	RightPathRemoveDirectory | RightPathUnlinkFile

// wasiPathRights is the base_rights granted to every preopen directory
// at init: everything a directory descriptor can meaningfully hold.
const wasiPathRights = pathRights | RightFdFilestatGet | RightPollFdReadwrite

// Has reports whether r contains every bit set in want.
func (r Rights) Has(want Rights) bool {
	return r&want == want
}

// Oflags is a WASI preview-1 path_open oflags bitmask.
type Oflags uint16

const (
	OflagsCreat Oflags = 1 << iota
	OflagsDirectory
	OflagsExcl
	OflagsTrunc
)

// Fdflags is a WASI preview-1 fd_flags bitmask.
type Fdflags uint16

const (
	FdflagsAppend Fdflags = 1 << iota
	FdflagsDsync
	FdflagsNonblock
	FdflagsRsync
	FdflagsSync
)

// Fstflags selects which of atim/mtim a set_times call updates.
type Fstflags uint16

const (
	FstflagsAtim Fstflags = 1 << iota
	FstflagsAtimNow
	FstflagsMtim
	FstflagsMtimNow
)

// Whence selects the origin of an fd_seek call.
type Whence uint8

const (
	WhenceSet Whence = 0
	WhenceCur Whence = 1
	WhenceEnd Whence = 2
)

// Filetype is a WASI preview-1 file-type tag.
type Filetype uint8

const (
	FiletypeUnknown         Filetype = 0
	FiletypeBlockDevice     Filetype = 1
	FiletypeCharacterDevice Filetype = 2
	FiletypeDirectory       Filetype = 3
	FiletypeRegularFile     Filetype = 4
	FiletypeSocketDgram     Filetype = 5
	FiletypeSocketStream    Filetype = 6
	FiletypeSymbolicLink    Filetype = 7
)

// PreopenTypeDir is the only fd_prestat tag this implementation produces.
const PreopenTypeDir = 0

// Kind distinguishes a descriptor's backing shape.
type Kind uint8

const (
	KindRegular Kind = iota
	KindDirectory
)
