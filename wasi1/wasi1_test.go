package wasi1_test

import (
	"testing"

	"github.com/wasi-memfs/memfs/backend/memfs"
	"github.com/wasi-memfs/memfs/wasi1"
)

// boot builds a Context over a fresh in-memory backend from the given
// init document, using a fixed clock so ATIM_NOW/MTIM_NOW assertions are
// deterministic.
func boot(t *testing.T, initJSON string) (*wasi1.Context, wasi1.Backend) {
	t.Helper()
	backend := memfs.New(wasi1.DefaultGeometry)
	cfg := wasi1.NewConfig(wasi1.WithClock(wasi1.FixedClock(1000)))
	ctx, err := wasi1.Initialize(backend, cfg, []byte(initJSON))
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return ctx, backend
}

const basicInit = `{"preopens":["/sandbox"],"fs":{}}`

func TestInitializeInstallsStandardStreamsAndPreopens(t *testing.T) {
	ctx, _ := boot(t, basicInit)

	if got := ctx.Preopens(); len(got) != 1 || got[0] != "/sandbox" {
		t.Fatalf("preopens = %v, want [/sandbox]", got)
	}

	stdin, errno := ctx.FdFdstatGet(0)
	if errno != wasi1.ErrnoSuccess {
		t.Fatalf("fdstat(0): %v", errno)
	}
	if !stdin.BaseRights.Has(wasi1.RightFdRead) {
		t.Errorf("stdin missing RightFdRead")
	}

	stdout, errno := ctx.FdFdstatGet(1)
	if errno != wasi1.ErrnoSuccess {
		t.Fatalf("fdstat(1): %v", errno)
	}
	if !stdout.BaseRights.Has(wasi1.RightFdWrite) {
		t.Errorf("stdout missing RightFdWrite")
	}

	root, errno := ctx.FdFdstatGet(3)
	if errno != wasi1.ErrnoSuccess {
		t.Fatalf("fdstat(3): %v", errno)
	}
	if root.Filetype != wasi1.FiletypeDirectory {
		t.Errorf("preopen filetype = %v, want directory", root.Filetype)
	}
}

func TestInitializeSeedsFiles(t *testing.T) {
	ctx, _ := boot(t, `{"preopens":["/sandbox"],"fs":{"/sandbox/greeting.txt":"hello"}}`)

	fd, errno := ctx.PathOpen(3, "greeting.txt", 0, wasi1.RightFdRead, 0, 0)
	if errno != wasi1.ErrnoSuccess {
		t.Fatalf("path_open: %v", errno)
	}
	buf := make([][]byte, 1)
	buf[0] = make([]byte, 16)
	n, errno := ctx.FdRead(fd, buf)
	if errno != wasi1.ErrnoSuccess {
		t.Fatalf("fd_read: %v", errno)
	}
	if string(buf[0][:n]) != "hello" {
		t.Errorf("content = %q, want hello", buf[0][:n])
	}
}

func TestPathOpenNarrowsRightsToParentInheriting(t *testing.T) {
	ctx, _ := boot(t, basicInit)

	if errno := ctx.PathCreateDirectory(3, "sub"); errno != wasi1.ErrnoSuccess {
		t.Fatalf("path_create_directory: %v", errno)
	}
	subFd, errno := ctx.PathOpen(3, "sub", wasi1.OflagsDirectory,
		wasi1.RightPathOpen|wasi1.RightPathCreateFile, wasi1.RightFdRead, 0)
	if errno != wasi1.ErrnoSuccess {
		t.Fatalf("path_open sub: %v", errno)
	}

	fileFd, errno := ctx.PathOpen(subFd, "f", wasi1.OflagsCreat,
		wasi1.RightPathOpen|wasi1.RightPathCreateFile|wasi1.RightFdRead|wasi1.RightFdWrite, 0, 0)
	if errno != wasi1.ErrnoSuccess {
		t.Fatalf("path_open f: %v", errno)
	}

	stat, errno := ctx.FdFdstatGet(fileFd)
	if errno != wasi1.ErrnoSuccess {
		t.Fatalf("fdstat: %v", errno)
	}
	if stat.BaseRights.Has(wasi1.RightFdWrite) {
		t.Errorf("file rights = %v, should not include RightFdWrite: parent sub only inherited RightFdRead", stat.BaseRights)
	}
}

func TestPathOpenNotcapableWhenMissingRight(t *testing.T) {
	ctx, _ := boot(t, basicInit)

	// Narrow the preopen's own rights down so it can no longer create files.
	if errno := ctx.FdFdstatSetRights(3, wasi1.RightPathOpen, wasi1.RightFdRead); errno != wasi1.ErrnoSuccess {
		t.Fatalf("fd_fdstat_set_rights: %v", errno)
	}

	_, errno := ctx.PathOpen(3, "f", wasi1.OflagsCreat,
		wasi1.RightPathOpen|wasi1.RightPathCreateFile, 0, 0)
	if errno != wasi1.ErrnoNotcapable {
		t.Fatalf("path_open after narrowing = %v, want NOTCAPABLE", errno)
	}
}

func TestFdCloseRefusesPreopen(t *testing.T) {
	ctx, _ := boot(t, basicInit)
	if errno := ctx.FdClose(3); errno != wasi1.ErrnoNotsup {
		t.Fatalf("fd_close(preopen) = %v, want NOTSUP", errno)
	}
}

func TestFdCloseRemovesHandle(t *testing.T) {
	ctx, _ := boot(t, basicInit)
	fd, errno := ctx.PathOpen(3, "f", wasi1.OflagsCreat,
		wasi1.RightPathOpen|wasi1.RightPathCreateFile|wasi1.RightFdWrite, 0, 0)
	if errno != wasi1.ErrnoSuccess {
		t.Fatalf("path_open: %v", errno)
	}
	if errno := ctx.FdClose(fd); errno != wasi1.ErrnoSuccess {
		t.Fatalf("fd_close: %v", errno)
	}
	if _, errno := ctx.FdFdstatGet(fd); errno != wasi1.ErrnoBadf {
		t.Fatalf("fdstat after close = %v, want BADF", errno)
	}
}

func TestFdWriteThenReadRoundTrips(t *testing.T) {
	ctx, _ := boot(t, basicInit)
	fd, errno := ctx.PathOpen(3, "f", wasi1.OflagsCreat,
		wasi1.RightPathOpen|wasi1.RightPathCreateFile|wasi1.RightFdRead|wasi1.RightFdWrite|wasi1.RightFdSeek, 0, 0)
	if errno != wasi1.ErrnoSuccess {
		t.Fatalf("path_open: %v", errno)
	}

	n, errno := ctx.FdWrite(fd, [][]byte{[]byte("abc"), []byte("def")})
	if errno != wasi1.ErrnoSuccess || n != 6 {
		t.Fatalf("fd_write = %d, %v, want 6, SUCCESS", n, errno)
	}

	if _, errno := ctx.FdSeek(fd, 0, wasi1.WhenceSet); errno != wasi1.ErrnoSuccess {
		t.Fatalf("fd_seek: %v", errno)
	}

	bufs := [][]byte{make([]byte, 3), make([]byte, 3)}
	n, errno = ctx.FdRead(fd, bufs)
	if errno != wasi1.ErrnoSuccess || n != 6 {
		t.Fatalf("fd_read = %d, %v, want 6, SUCCESS", n, errno)
	}
	if string(bufs[0]) != "abc" || string(bufs[1]) != "def" {
		t.Errorf("scatter read = %q %q, want abc def", bufs[0], bufs[1])
	}
}

func TestFdPwriteLeavesCursorUntouched(t *testing.T) {
	ctx, _ := boot(t, basicInit)
	fd, _ := ctx.PathOpen(3, "f", wasi1.OflagsCreat,
		wasi1.RightPathOpen|wasi1.RightPathCreateFile|wasi1.RightFdRead|wasi1.RightFdWrite|
			wasi1.RightFdSeek|wasi1.RightFdTell, 0, 0)

	ctx.FdWrite(fd, [][]byte{[]byte("0123456789")})
	ctx.FdSeek(fd, 2, wasi1.WhenceSet)

	n, errno := ctx.FdPwrite(fd, [][]byte{[]byte("XY")}, 5)
	if errno != wasi1.ErrnoSuccess || n != 2 {
		t.Fatalf("fd_pwrite = %d, %v", n, errno)
	}

	pos, errno := ctx.FdTell(fd)
	if errno != wasi1.ErrnoSuccess || pos != 2 {
		t.Fatalf("cursor after pwrite = %d, %v, want 2", pos, errno)
	}

	ctx.FdSeek(fd, 0, wasi1.WhenceSet)
	buf := [][]byte{make([]byte, 10)}
	ctx.FdRead(fd, buf)
	if string(buf[0]) != "01234XY789" {
		t.Errorf("content = %q, want 01234XY789", buf[0])
	}
}

func TestFdWriteAppendIgnoresCursor(t *testing.T) {
	ctx, _ := boot(t, basicInit)
	fd, _ := ctx.PathOpen(3, "f", wasi1.OflagsCreat,
		wasi1.RightPathOpen|wasi1.RightPathCreateFile|wasi1.RightFdRead|wasi1.RightFdWrite|
			wasi1.RightFdSeek|wasi1.RightFdTell,
		0, wasi1.FdflagsAppend)

	ctx.FdWrite(fd, [][]byte{[]byte("0123456789")})
	ctx.FdSeek(fd, 0, wasi1.WhenceSet)
	ctx.FdWrite(fd, [][]byte{[]byte("Z")})

	pos, _ := ctx.FdTell(fd)
	if pos != 0 {
		t.Errorf("cursor after append write = %d, want 0 (unchanged)", pos)
	}

	ctx.FdSeek(fd, 0, wasi1.WhenceSet)
	buf := [][]byte{make([]byte, 11)}
	ctx.FdRead(fd, buf)
	if string(buf[0]) != "0123456789Z" {
		t.Errorf("content = %q, want 0123456789Z", buf[0])
	}
}

func TestFdSeekInvalidWhenceIsInval(t *testing.T) {
	ctx, _ := boot(t, basicInit)
	fd, _ := ctx.PathOpen(3, "f", wasi1.OflagsCreat,
		wasi1.RightPathOpen|wasi1.RightPathCreateFile|wasi1.RightFdWrite|wasi1.RightFdSeek, 0, 0)
	if _, errno := ctx.FdSeek(fd, 0, wasi1.Whence(99)); errno != wasi1.ErrnoInval {
		t.Fatalf("fd_seek bad whence = %v, want INVAL", errno)
	}
}

func TestFdSeekOnStreamIsSpipe(t *testing.T) {
	ctx, _ := boot(t, basicInit)
	// Standard streams never carry RightFdSeek; the stream check runs
	// before the rights check, so the call reports SPIPE.
	if _, errno := ctx.FdSeek(1, 0, wasi1.WhenceSet); errno != wasi1.ErrnoSpipe {
		t.Fatalf("fd_seek(stdout) = %v, want SPIPE", errno)
	}
}

func TestFdFdstatSetRightsShrinkOnly(t *testing.T) {
	ctx, _ := boot(t, basicInit)
	fd, _ := ctx.PathOpen(3, "f", wasi1.OflagsCreat,
		wasi1.RightPathOpen|wasi1.RightPathCreateFile|wasi1.RightFdRead|wasi1.RightFdWrite, 0, 0)

	if errno := ctx.FdFdstatSetRights(fd, wasi1.RightFdRead, 0); errno != wasi1.ErrnoSuccess {
		t.Fatalf("shrink: %v", errno)
	}
	if errno := ctx.FdFdstatSetRights(fd, wasi1.RightFdRead|wasi1.RightFdWrite, 0); errno != wasi1.ErrnoNotcapable {
		t.Fatalf("widen after shrink = %v, want NOTCAPABLE", errno)
	}
}

func TestPathUnlinkFileOnDirectoryIsIsdir(t *testing.T) {
	ctx, _ := boot(t, basicInit)
	if errno := ctx.PathCreateDirectory(3, "d"); errno != wasi1.ErrnoSuccess {
		t.Fatalf("mkdir: %v", errno)
	}
	if errno := ctx.PathUnlinkFile(3, "d"); errno != wasi1.ErrnoIsdir {
		t.Fatalf("unlink dir = %v, want ISDIR", errno)
	}
}

func TestPathUnlinkFileMissingIsNoent(t *testing.T) {
	ctx, _ := boot(t, basicInit)
	if errno := ctx.PathUnlinkFile(3, "missing"); errno != wasi1.ErrnoNoent {
		t.Fatalf("unlink missing = %v, want NOENT", errno)
	}
}

func TestPathRemoveDirectoryOnFileIsNotdir(t *testing.T) {
	ctx, _ := boot(t, basicInit)
	fd, _ := ctx.PathOpen(3, "f", wasi1.OflagsCreat,
		wasi1.RightPathOpen|wasi1.RightPathCreateFile|wasi1.RightFdWrite, 0, 0)
	ctx.FdClose(fd)

	if errno := ctx.PathRemoveDirectory(3, "f"); errno != wasi1.ErrnoNotdir {
		t.Fatalf("rmdir on file = %v, want NOTDIR", errno)
	}
}

func TestPathRenameDestinationKindRemap(t *testing.T) {
	ctx, _ := boot(t, basicInit)
	if errno := ctx.PathCreateDirectory(3, "srcdir"); errno != wasi1.ErrnoSuccess {
		t.Fatalf("mkdir srcdir: %v", errno)
	}
	fd, _ := ctx.PathOpen(3, "dstfile", wasi1.OflagsCreat,
		wasi1.RightPathOpen|wasi1.RightPathCreateFile|wasi1.RightFdWrite, 0, 0)
	ctx.FdClose(fd)

	errno := ctx.PathRename(3, "srcdir", 3, "dstfile")
	if errno != wasi1.ErrnoNotdir {
		t.Fatalf("rename dir onto file = %v, want NOTDIR", errno)
	}
}

func TestFdFilestatSetTimesConflictingFlagsIsInval(t *testing.T) {
	ctx, _ := boot(t, basicInit)
	fd, _ := ctx.PathOpen(3, "f", wasi1.OflagsCreat,
		wasi1.RightPathOpen|wasi1.RightPathCreateFile|wasi1.RightFdFilestatSetTimes, 0, 0)

	errno := ctx.FdFilestatSetTimes(fd, 0, 0, wasi1.FstflagsAtim|wasi1.FstflagsAtimNow)
	if errno != wasi1.ErrnoInval {
		t.Fatalf("conflicting ATIM flags = %v, want INVAL", errno)
	}
}

func TestFdFilestatSetTimesNowUsesClock(t *testing.T) {
	ctx, _ := boot(t, basicInit)
	fd, _ := ctx.PathOpen(3, "f", wasi1.OflagsCreat,
		wasi1.RightPathOpen|wasi1.RightPathCreateFile|wasi1.RightFdFilestatSetTimes|wasi1.RightFdFilestatGet, 0, 0)

	if errno := ctx.FdFilestatSetTimes(fd, 0, 0, wasi1.FstflagsMtimNow); errno != wasi1.ErrnoSuccess {
		t.Fatalf("set mtim now: %v", errno)
	}
	st, errno := ctx.FdFilestatGet(fd)
	if errno != wasi1.ErrnoSuccess {
		t.Fatalf("filestat_get: %v", errno)
	}
	if st.Mtim != 1000*10_000_000 {
		t.Errorf("mtim = %d, want %d", st.Mtim, uint64(1000*10_000_000))
	}
}

func TestFdPrestatDirNameLengthMismatchIsInval(t *testing.T) {
	ctx, _ := boot(t, basicInit)
	if _, errno := ctx.FdPrestatDirName(3, 999); errno != wasi1.ErrnoInval {
		t.Fatalf("length mismatch = %v, want INVAL", errno)
	}
}

func TestFdPrestatDirNameExactLength(t *testing.T) {
	ctx, _ := boot(t, basicInit)
	nameLen, errno := ctx.FdPrestatGet(3)
	if errno != wasi1.ErrnoSuccess {
		t.Fatalf("prestat_get: %v", errno)
	}
	name, errno := ctx.FdPrestatDirName(3, nameLen)
	if errno != wasi1.ErrnoSuccess {
		t.Fatalf("prestat_dir_name: %v", errno)
	}
	if name != "/sandbox" {
		t.Errorf("name = %q, want /sandbox", name)
	}
}

func TestFdPrestatGetRejectsNonPreopen(t *testing.T) {
	ctx, _ := boot(t, basicInit)
	fd, _ := ctx.PathOpen(3, "f", wasi1.OflagsCreat,
		wasi1.RightPathOpen|wasi1.RightPathCreateFile, 0, 0)
	if _, errno := ctx.FdPrestatGet(fd); errno != wasi1.ErrnoBadf {
		t.Fatalf("prestat_get on non-preopen = %v, want BADF", errno)
	}
}

func TestFdRenumberClosesTarget(t *testing.T) {
	ctx, _ := boot(t, basicInit)
	a, _ := ctx.PathOpen(3, "a", wasi1.OflagsCreat,
		wasi1.RightPathOpen|wasi1.RightPathCreateFile|wasi1.RightFdWrite, 0, 0)
	b, _ := ctx.PathOpen(3, "b", wasi1.OflagsCreat,
		wasi1.RightPathOpen|wasi1.RightPathCreateFile|wasi1.RightFdWrite, 0, 0)

	if errno := ctx.FdRenumber(a, b); errno != wasi1.ErrnoSuccess {
		t.Fatalf("fd_renumber: %v", errno)
	}
	if _, errno := ctx.FdFdstatGet(a); errno != wasi1.ErrnoBadf {
		t.Fatalf("old handle still live after renumber: %v", errno)
	}
	if _, errno := ctx.FdFdstatGet(b); errno != wasi1.ErrnoSuccess {
		t.Fatalf("new handle missing after renumber: %v", errno)
	}
}

func TestFdRenumberRefusesPreopenTarget(t *testing.T) {
	ctx, _ := boot(t, basicInit)
	fd, _ := ctx.PathOpen(3, "a", wasi1.OflagsCreat,
		wasi1.RightPathOpen|wasi1.RightPathCreateFile, 0, 0)
	if errno := ctx.FdRenumber(fd, 3); errno != wasi1.ErrnoNotsup {
		t.Fatalf("renumber onto preopen = %v, want NOTSUP", errno)
	}
}

func TestLookupMissingHandleIsBadf(t *testing.T) {
	ctx, _ := boot(t, basicInit)
	if _, errno := ctx.FdFdstatGet(9999); errno != wasi1.ErrnoBadf {
		t.Fatalf("fdstat of unknown handle = %v, want BADF", errno)
	}
}

func TestStreamDescriptorRejectsNonStreamCalls(t *testing.T) {
	ctx, _ := boot(t, basicInit)
	// fd_allocate's lookup leaves AllowStream false, so a stream descriptor
	// (stdin) is rejected before rights are even consulted.
	if errno := ctx.FdAllocate(0, 0, 10); errno != wasi1.ErrnoNotsup {
		t.Fatalf("fd_allocate on stdin stream = %v, want NOTSUP", errno)
	}
}

func TestDescriptorTableSnapshotReflectsOpenHandles(t *testing.T) {
	ctx, _ := boot(t, basicInit)
	fd, _ := ctx.PathOpen(3, "f", wasi1.OflagsCreat,
		wasi1.RightPathOpen|wasi1.RightPathCreateFile, 0, 0)

	views := ctx.Snapshot()
	found := false
	for _, v := range views {
		if v.Handle == fd {
			found = true
			if v.Path != "/sandbox/f" {
				t.Errorf("snapshot path = %q, want /sandbox/f", v.Path)
			}
		}
	}
	if !found {
		t.Errorf("snapshot missing handle %d", fd)
	}
}
