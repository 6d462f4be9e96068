package dispatch

import "github.com/wasi-memfs/memfs/wasi1"

// fdstatSize is sizeof(__wasi_fdstat_t): filetype(u8) + pad + fs_flags(u16)
// + pad to 8 + rights_base(u64) + rights_inheriting(u64).
const fdstatSize = 24

func encodeFdstat(st wasi1.Fdstat) []byte {
	buf := make([]byte, fdstatSize)
	buf[0] = byte(st.Filetype)
	le.PutUint16(buf[2:], uint16(st.Flags))
	le.PutUint64(buf[8:], uint64(st.BaseRights))
	le.PutUint64(buf[16:], uint64(st.Inheriting))
	return buf
}

// filestatSize is sizeof(__wasi_filestat_t): dev, ino, filetype(+pad),
// nlink, size, atim, mtim, ctim — all 8-byte-aligned fields, 64 bytes.
const filestatSize = 64

func encodeFilestat(st wasi1.Filestat) []byte {
	buf := make([]byte, filestatSize)
	le.PutUint64(buf[0:], st.Dev)
	le.PutUint64(buf[8:], st.Ino)
	buf[16] = byte(st.Filetype)
	le.PutUint64(buf[24:], st.Nlink)
	le.PutUint64(buf[32:], st.Size)
	le.PutUint64(buf[40:], st.Atim)
	le.PutUint64(buf[48:], st.Mtim)
	le.PutUint64(buf[56:], st.Mtim) // ctim: this façade tracks no separate change time
	return buf
}

// prestatSize is sizeof(__wasi_prestat_t) for the only tag this
// implementation produces (preopen type "dir"): tag(u32) + pr_name_len(u32).
const prestatSize = 8

func encodePrestatDir(nameLen uint32) []byte {
	buf := make([]byte, prestatSize)
	le.PutUint32(buf[0:], wasi1.PreopenTypeDir)
	le.PutUint32(buf[4:], nameLen)
	return buf
}
