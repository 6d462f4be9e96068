package memfs_test

import (
	"io"
	"testing"

	"github.com/wasi-memfs/memfs/backend/memfs"
	"github.com/wasi-memfs/memfs/wasi1"
)

func newFS() *memfs.FS {
	return memfs.New(wasi1.DefaultGeometry)
}

func TestOpenFileCreate(t *testing.T) {
	fs := newFS()
	if err := fs.Mkdir("/a"); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	f, err := fs.OpenFile("/a/f", wasi1.OpenFlags{Write: true, Create: true})
	if err != nil {
		t.Fatalf("open create: %v", err)
	}
	if _, err := f.Write([]byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	st, err := fs.Stat("/a/f")
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Kind != wasi1.KindRegular || st.Size != 5 {
		t.Errorf("stat = %+v, want regular size 5", st)
	}
}

func TestOpenFileExclOnExisting(t *testing.T) {
	fs := newFS()
	if _, err := fs.OpenFile("/f", wasi1.OpenFlags{Write: true, Create: true}); err != nil {
		t.Fatalf("initial create: %v", err)
	}
	_, err := fs.OpenFile("/f", wasi1.OpenFlags{Write: true, Create: true, Excl: true})
	be, ok := err.(*wasi1.BackendError)
	if !ok || be.Code != wasi1.BackendExist {
		t.Fatalf("expected BackendExist, got %v", err)
	}
}

func TestOpenFileMissingWithoutCreate(t *testing.T) {
	fs := newFS()
	_, err := fs.OpenFile("/missing", wasi1.OpenFlags{Read: true})
	be, ok := err.(*wasi1.BackendError)
	if !ok || be.Code != wasi1.BackendNoent {
		t.Fatalf("expected BackendNoent, got %v", err)
	}
}

func TestOpenFileOnDirectoryIsIsdir(t *testing.T) {
	fs := newFS()
	if err := fs.Mkdir("/d"); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	_, err := fs.OpenFile("/d", wasi1.OpenFlags{Read: true})
	be, ok := err.(*wasi1.BackendError)
	if !ok || be.Code != wasi1.BackendIsdir {
		t.Fatalf("expected BackendIsdir, got %v", err)
	}
}

func TestOpenFileTruncResetsContent(t *testing.T) {
	fs := newFS()
	f, _ := fs.OpenFile("/f", wasi1.OpenFlags{Write: true, Create: true})
	f.Write([]byte("0123456789"))
	f.Close()

	f2, err := fs.OpenFile("/f", wasi1.OpenFlags{Write: true, Trunc: true})
	if err != nil {
		t.Fatalf("open trunc: %v", err)
	}
	if f2.Size() != 0 {
		t.Errorf("size after trunc open = %d, want 0", f2.Size())
	}
}

func TestMkdirRejectsDuplicate(t *testing.T) {
	fs := newFS()
	if err := fs.Mkdir("/d"); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	err := fs.Mkdir("/d")
	be, ok := err.(*wasi1.BackendError)
	if !ok || be.Code != wasi1.BackendExist {
		t.Fatalf("expected BackendExist, got %v", err)
	}
}

func TestMkdirMissingParent(t *testing.T) {
	fs := newFS()
	err := fs.Mkdir("/missing/child")
	be, ok := err.(*wasi1.BackendError)
	if !ok || be.Code != wasi1.BackendNoent {
		t.Fatalf("expected BackendNoent, got %v", err)
	}
}

func TestMkdirAllCreatesChain(t *testing.T) {
	fs := newFS()
	if err := fs.MkdirAll("/a/b/c"); err != nil {
		t.Fatalf("mkdirall: %v", err)
	}
	for _, p := range []string{"/a", "/a/b", "/a/b/c"} {
		st, err := fs.Stat(p)
		if err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
		if st.Kind != wasi1.KindDirectory {
			t.Errorf("%s kind = %v, want directory", p, st.Kind)
		}
	}
}

func TestMkdirAllThroughFileIsNotdir(t *testing.T) {
	fs := newFS()
	f, _ := fs.OpenFile("/a", wasi1.OpenFlags{Write: true, Create: true})
	f.Close()
	err := fs.MkdirAll("/a/b")
	be, ok := err.(*wasi1.BackendError)
	if !ok || be.Code != wasi1.BackendNotdir {
		t.Fatalf("expected BackendNotdir, got %v", err)
	}
}

func TestRemoveNonEmptyDirIsNotempty(t *testing.T) {
	fs := newFS()
	fs.MkdirAll("/a/b")
	err := fs.Remove("/a")
	be, ok := err.(*wasi1.BackendError)
	if !ok || be.Code != wasi1.BackendNotempty {
		t.Fatalf("expected BackendNotempty, got %v", err)
	}
}

func TestRemoveFileFreesCapacity(t *testing.T) {
	fs := newFS()
	f, _ := fs.OpenFile("/f", wasi1.OpenFlags{Write: true, Create: true})
	f.Write(make([]byte, 1024))
	f.Close()

	if err := fs.Remove("/f"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	// Full capacity should be available again for a fresh write.
	f2, _ := fs.OpenFile("/g", wasi1.OpenFlags{Write: true, Create: true})
	if _, err := f2.Write(make([]byte, int(wasi1.DefaultGeometry.Capacity()))); err != nil {
		t.Errorf("write after reclaim: %v", err)
	}
}

func TestRenameCrossKindIsIsdir(t *testing.T) {
	fs := newFS()
	f, _ := fs.OpenFile("/file", wasi1.OpenFlags{Write: true, Create: true})
	f.Close()
	fs.Mkdir("/dir")

	err := fs.Rename("/file", "/dir")
	be, ok := err.(*wasi1.BackendError)
	if !ok || be.Code != wasi1.BackendIsdir {
		t.Fatalf("expected BackendIsdir, got %v", err)
	}
}

func TestRenameOntoNonEmptyDirIsNotempty(t *testing.T) {
	fs := newFS()
	fs.MkdirAll("/src")
	fs.MkdirAll("/dst/child")

	err := fs.Rename("/src", "/dst")
	be, ok := err.(*wasi1.BackendError)
	if !ok || be.Code != wasi1.BackendNotempty {
		t.Fatalf("expected BackendNotempty, got %v", err)
	}
}

func TestRenameMovesNode(t *testing.T) {
	fs := newFS()
	f, _ := fs.OpenFile("/a", wasi1.OpenFlags{Write: true, Create: true})
	f.Write([]byte("x"))
	f.Close()

	if err := fs.Rename("/a", "/b"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, err := fs.Stat("/a"); err == nil {
		t.Errorf("old path still present after rename")
	}
	st, err := fs.Stat("/b")
	if err != nil || st.Size != 1 {
		t.Errorf("new path stat = %+v, %v", st, err)
	}
}

func TestXattrRoundTrip(t *testing.T) {
	fs := newFS()
	f, _ := fs.OpenFile("/f", wasi1.OpenFlags{Write: true, Create: true})
	f.Close()

	if err := fs.SetXattr("/f", 1, []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	data, ok, err := fs.GetXattr("/f", 1)
	if err != nil || !ok || string(data) != "v1" {
		t.Fatalf("get = %q, %v, %v", data, ok, err)
	}
}

func TestXattrUnsetIsNotOk(t *testing.T) {
	fs := newFS()
	f, _ := fs.OpenFile("/f", wasi1.OpenFlags{Write: true, Create: true})
	f.Close()

	_, ok, err := fs.GetXattr("/f", 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("expected ok=false for unset attribute")
	}
}

func TestWriteBeyondCapacityIsNospc(t *testing.T) {
	small := wasi1.Geometry{BlockSize: 16, BlockCount: 1}
	fs := memfs.New(small)
	f, _ := fs.OpenFile("/f", wasi1.OpenFlags{Write: true, Create: true})
	_, err := f.Write(make([]byte, 17))
	be, ok := err.(*wasi1.BackendError)
	if !ok || be.Code != wasi1.BackendNospc {
		t.Fatalf("expected BackendNospc, got %v", err)
	}
}

func TestAppendWriteIgnoresPosition(t *testing.T) {
	fs := newFS()
	f, _ := fs.OpenFile("/f", wasi1.OpenFlags{Write: true, Create: true})
	f.Write([]byte("0123456789"))
	f.Seek(0, io.SeekStart)

	f.SetAppend(true)
	if _, err := f.Write([]byte("X")); err != nil {
		t.Fatalf("append write: %v", err)
	}
	f.SetAppend(false)

	buf := make([]byte, 32)
	f.Seek(0, io.SeekStart)
	n, _ := f.Read(buf)
	if string(buf[:n]) != "0123456789X" {
		t.Errorf("content = %q, want %q", buf[:n], "0123456789X")
	}
}

func TestIndependentCursorsOverSharedData(t *testing.T) {
	fs := newFS()
	w, _ := fs.OpenFile("/f", wasi1.OpenFlags{Write: true, Create: true})
	w.Write([]byte("abcdef"))

	r1, _ := fs.OpenFile("/f", wasi1.OpenFlags{Read: true})
	r2, _ := fs.OpenFile("/f", wasi1.OpenFlags{Read: true})

	buf1 := make([]byte, 3)
	n1, _ := r1.Read(buf1)
	buf2 := make([]byte, 6)
	n2, _ := r2.Read(buf2)

	if string(buf1[:n1]) != "abc" {
		t.Errorf("r1 = %q, want abc", buf1[:n1])
	}
	if string(buf2[:n2]) != "abcdef" {
		t.Errorf("r2 = %q, want abcdef", buf2[:n2])
	}
}

func TestTruncateGrowsWithZeros(t *testing.T) {
	fs := newFS()
	f, _ := fs.OpenFile("/f", wasi1.OpenFlags{Write: true, Create: true})
	f.Write([]byte("ab"))
	if err := f.Truncate(5); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	buf := make([]byte, 5)
	f.Seek(0, io.SeekStart)
	n, _ := f.Read(buf)
	want := []byte{'a', 'b', 0, 0, 0}
	if n != 5 || string(buf) != string(want) {
		t.Errorf("content = %v, want %v", buf[:n], want)
	}
}

func TestTruncateShrinkReclaims(t *testing.T) {
	small := wasi1.Geometry{BlockSize: 16, BlockCount: 1}
	fs := memfs.New(small)
	f, _ := fs.OpenFile("/f", wasi1.OpenFlags{Write: true, Create: true})
	f.Write(make([]byte, 16))

	if err := f.Truncate(4); err != nil {
		t.Fatalf("truncate shrink: %v", err)
	}

	f2, _ := fs.OpenFile("/g", wasi1.OpenFlags{Write: true, Create: true})
	if _, err := f2.Write(make([]byte, 12)); err != nil {
		t.Errorf("write after shrink reclaim: %v", err)
	}
}

func TestSeekNegativeIsInval(t *testing.T) {
	fs := newFS()
	f, _ := fs.OpenFile("/f", wasi1.OpenFlags{Write: true, Create: true})
	_, err := f.Seek(-1, io.SeekStart)
	be, ok := err.(*wasi1.BackendError)
	if !ok || be.Code != wasi1.BackendInval {
		t.Fatalf("expected BackendInval, got %v", err)
	}
}

func TestWalkThroughFileIsNotdir(t *testing.T) {
	fs := newFS()
	f, _ := fs.OpenFile("/f", wasi1.OpenFlags{Write: true, Create: true})
	f.Close()
	_, err := fs.OpenFile("/f/child", wasi1.OpenFlags{Read: true})
	be, ok := err.(*wasi1.BackendError)
	if !ok || be.Code != wasi1.BackendNotdir {
		t.Fatalf("expected BackendNotdir, got %v", err)
	}
}
