package dispatch

import (
	"context"
	"encoding/binary"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wasi-memfs/memfs/bridge"
	"github.com/wasi-memfs/memfs/wasi1"
)

const moduleName = "wasi_snapshot_preview1"

const (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
)

var le = binary.LittleEndian

// Dispatcher owns one call-scoped arena shared across every entry point.
// Per §5 the façade serves one call at a time, so a single arena (reset
// at the top of every entry) is sufficient; it is not safe to drive two
// concurrent calls through the same Dispatcher.
type Dispatcher struct {
	ctx   *wasi1.Context
	arena *bridge.Arena
}

// New builds a Dispatcher over an already-initialized façade, sized to
// cfg's scratch arena.
func New(ctx *wasi1.Context, cfg wasi1.Config) *Dispatcher {
	size := int(cfg.ArenaSize)
	if size == 0 {
		size = bridge.DefaultArenaSize
	}
	return &Dispatcher{ctx: ctx, arena: bridge.NewArena(size)}
}

// Instantiate registers every WASI fs/path call as a wazero host function
// and instantiates the resulting module.
func (d *Dispatcher) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	b := r.NewHostModuleBuilder(moduleName)

	b = d.export(b, "fd_close", []api.ValueType{i32}, []api.ValueType{i32}, d.fdClose)
	b = d.export(b, "fd_datasync", []api.ValueType{i32}, []api.ValueType{i32}, d.fdDatasync)
	b = d.export(b, "fd_sync", []api.ValueType{i32}, []api.ValueType{i32}, d.fdSync)
	b = d.export(b, "fd_advise", []api.ValueType{i32, i64, i64, i32}, []api.ValueType{i32}, d.fdAdvise)
	b = d.export(b, "fd_allocate", []api.ValueType{i32, i64, i64}, []api.ValueType{i32}, d.fdAllocate)
	b = d.export(b, "fd_fdstat_get", []api.ValueType{i32, i32}, []api.ValueType{i32}, d.fdFdstatGet)
	b = d.export(b, "fd_fdstat_set_flags", []api.ValueType{i32, i32}, []api.ValueType{i32}, d.fdFdstatSetFlags)
	b = d.export(b, "fd_fdstat_set_rights", []api.ValueType{i32, i64, i64}, []api.ValueType{i32}, d.fdFdstatSetRights)
	b = d.export(b, "fd_filestat_get", []api.ValueType{i32, i32}, []api.ValueType{i32}, d.fdFilestatGet)
	b = d.export(b, "fd_filestat_set_size", []api.ValueType{i32, i64}, []api.ValueType{i32}, d.fdFilestatSetSize)
	b = d.export(b, "fd_filestat_set_times", []api.ValueType{i32, i64, i64, i32}, []api.ValueType{i32}, d.fdFilestatSetTimes)
	b = d.export(b, "fd_pread", []api.ValueType{i32, i32, i32, i64, i32}, []api.ValueType{i32}, d.fdPread)
	b = d.export(b, "fd_pwrite", []api.ValueType{i32, i32, i32, i64, i32}, []api.ValueType{i32}, d.fdPwrite)
	b = d.export(b, "fd_read", []api.ValueType{i32, i32, i32, i32}, []api.ValueType{i32}, d.fdRead)
	b = d.export(b, "fd_write", []api.ValueType{i32, i32, i32, i32}, []api.ValueType{i32}, d.fdWrite)
	b = d.export(b, "fd_seek", []api.ValueType{i32, i64, i32, i32}, []api.ValueType{i32}, d.fdSeek)
	b = d.export(b, "fd_tell", []api.ValueType{i32, i32}, []api.ValueType{i32}, d.fdTell)
	b = d.export(b, "fd_readdir", []api.ValueType{i32, i32, i32, i64, i32}, []api.ValueType{i32}, d.fdReaddir)
	b = d.export(b, "fd_prestat_get", []api.ValueType{i32, i32}, []api.ValueType{i32}, d.fdPrestatGet)
	b = d.export(b, "fd_prestat_dir_name", []api.ValueType{i32, i32, i32}, []api.ValueType{i32}, d.fdPrestatDirName)
	b = d.export(b, "fd_renumber", []api.ValueType{i32, i32}, []api.ValueType{i32}, d.fdRenumber)

	b = d.export(b, "path_create_directory", []api.ValueType{i32, i32, i32}, []api.ValueType{i32}, d.pathCreateDirectory)
	b = d.export(b, "path_filestat_get", []api.ValueType{i32, i32, i32, i32, i32}, []api.ValueType{i32}, d.pathFilestatGet)
	b = d.export(b, "path_filestat_set_times", []api.ValueType{i32, i32, i32, i32, i64, i64, i32}, []api.ValueType{i32}, d.pathFilestatSetTimes)
	b = d.export(b, "path_open", []api.ValueType{i32, i32, i32, i32, i32, i64, i64, i32, i32}, []api.ValueType{i32}, d.pathOpen)
	b = d.export(b, "path_remove_directory", []api.ValueType{i32, i32, i32}, []api.ValueType{i32}, d.pathRemoveDirectory)
	b = d.export(b, "path_unlink_file", []api.ValueType{i32, i32, i32}, []api.ValueType{i32}, d.pathUnlinkFile)
	b = d.export(b, "path_rename", []api.ValueType{i32, i32, i32, i32, i32, i32}, []api.ValueType{i32}, d.pathRename)
	b = d.export(b, "path_readlink", []api.ValueType{i32, i32, i32, i32, i32, i32}, []api.ValueType{i32}, d.pathReadlink)
	b = d.export(b, "path_link", []api.ValueType{i32, i32, i32, i32, i32, i32, i32}, []api.ValueType{i32}, d.pathLink)
	b = d.export(b, "path_symlink", []api.ValueType{i32, i32, i32, i32, i32}, []api.ValueType{i32}, d.pathSymlink)

	return b.Instantiate(ctx)
}

// export registers one entry point under its exact WASI name.
func (d *Dispatcher) export(b wazero.HostModuleBuilder, name string, params, results []api.ValueType, fn func(mem api.Memory, stack []uint64)) wazero.HostModuleBuilder {
	return b.NewFunctionBuilder().
		WithGoModuleFunction(d.entry(name, fn), params, results).
		Export(name)
}

// entry wraps a handler with arena reset and the fail-fast panic recovery
// §4.F requires for scratch-arena overflow and other internal invariant
// violations: the fault is logged as fatal and the process exits instead
// of returning a fabricated result to the guest.
func (d *Dispatcher) entry(name string, fn func(mem api.Memory, stack []uint64)) api.GoModuleFunction {
	return api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
		d.arena.Reset()
		defer func() {
			if r := recover(); r != nil {
				d.ctx.Logger().Fatal("wasi1: internal fault", zap.String("call", name), zap.Any("panic", r))
			}
		}()
		fn(mod.Memory(), stack)
	})
}
