package wasi1

// Errno is a WASI preview-1 error code. Zero is success.
type Errno uint16

// Errno codepoints, exactly WASI preview-1's errno numbering.
const (
	ErrnoSuccess Errno = 0
	ErrnoBadf    Errno = 8
	ErrnoExist   Errno = 20
	ErrnoFault   Errno = 21
	ErrnoInval   Errno = 28
	ErrnoIsdir   Errno = 31
	ErrnoNoent   Errno = 44
	ErrnoNosys   Errno = 52
	ErrnoNotdir  Errno = 54
	ErrnoNotsup  Errno = 58

	// Note: NOTEMPTY, NOTCAPABLE, NOSPC, and SPIPE do not have
	// unambiguous, universally-agreed-upon numeric values across every
	// WASI snapshot; this implementation assigns them the snapshot-01
	// values used by wasi-libc and wasmtime.
	ErrnoNotempty   Errno = 55
	ErrnoNospc      Errno = 51
	ErrnoSpipe      Errno = 70
	ErrnoNotcapable Errno = 76
)

func (e Errno) String() string {
	switch e {
	case ErrnoSuccess:
		return "SUCCESS"
	case ErrnoBadf:
		return "BADF"
	case ErrnoExist:
		return "EXIST"
	case ErrnoFault:
		return "FAULT"
	case ErrnoInval:
		return "INVAL"
	case ErrnoIsdir:
		return "ISDIR"
	case ErrnoNoent:
		return "NOENT"
	case ErrnoNosys:
		return "NOSYS"
	case ErrnoNotdir:
		return "NOTDIR"
	case ErrnoNotsup:
		return "NOTSUP"
	case ErrnoNotempty:
		return "NOTEMPTY"
	case ErrnoNospc:
		return "NOSPC"
	case ErrnoSpipe:
		return "SPIPE"
	case ErrnoNotcapable:
		return "NOTCAPABLE"
	default:
		return "UNKNOWN"
	}
}
