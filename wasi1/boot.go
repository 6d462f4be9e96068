package wasi1

import (
	"encoding/json"
	"fmt"
	stdpath "path"
)

// InitDocument is the init payload's JSON schema (§6):
//
//	{ "preopens": ["/a", "/b", ...],
//	  "fs": { "/abs/path/to/file": "file contents", ... } }
//
// JSON parsing itself is an out-of-scope external collaborator (§1); the
// standard library's encoding/json is used here only because no
// third-party JSON library appears anywhere in this module's retrieval
// pack (see DESIGN.md) — it is the pass-through, not a domain choice.
type InitDocument struct {
	Preopens []string          `json:"preopens"`
	Fs       map[string]string `json:"fs"`
}

// Initialize runs the initialization protocol of §4.H against a
// caller-supplied, already-constructed Backend: it seeds the preopen
// list, recursively creates and writes every seeded file, and installs
// the three standard stream descriptors. The returned Context is ready
// to serve dispatcher calls.
func Initialize(backend Backend, cfg Config, raw []byte) (*Context, error) {
	var doc InitDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("wasi1: decode init document: %w", err)
	}

	ctx := NewContext(backend, cfg)
	ctx.table = NewTable(len(doc.Preopens))
	ctx.preopens = append([]string(nil), doc.Preopens...)

	for i, p := range doc.Preopens {
		if err := backend.MkdirAll(p); err != nil {
			return nil, fmt.Errorf("wasi1: seed preopen %q: %w", p, err)
		}
		dir, err := backend.OpenDir(p)
		if err != nil {
			return nil, fmt.Errorf("wasi1: open preopen %q: %w", p, err)
		}
		ctx.table.InsertAt(uint32(3+i), &Descriptor{
			Path:       p,
			BaseRights: wasiPathRights,
			Inheriting: RightsAll,
			Kind:       KindDirectory,
			Preopen:    true,
			Dir:        dir,
		})
	}

	for path, contents := range doc.Fs {
		parent := stdpath.Dir(path)
		if err := backend.MkdirAll(parent); err != nil {
			return nil, fmt.Errorf("wasi1: seed file %q: %w", path, err)
		}
		f, err := backend.OpenFile(path, OpenFlags{Write: true, Create: true, Excl: true})
		if err != nil {
			return nil, fmt.Errorf("wasi1: create seeded file %q: %w", path, err)
		}
		if _, err := f.Write([]byte(contents)); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("wasi1: write seeded file %q: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("wasi1: close seeded file %q: %w", path, err)
		}
	}

	ctx.table.InsertAt(0, &Descriptor{
		Stream:     true,
		Kind:       KindRegular,
		BaseRights: RightPollFdReadwrite | RightFdRead,
		Inheriting: RightsAll,
	})
	ctx.table.InsertAt(1, &Descriptor{
		Stream:     true,
		Kind:       KindRegular,
		BaseRights: RightPollFdReadwrite | RightFdWrite,
		Inheriting: RightsAll,
	})
	ctx.table.InsertAt(2, &Descriptor{
		Stream:     true,
		Kind:       KindRegular,
		BaseRights: RightPollFdReadwrite | RightFdWrite,
		Inheriting: RightsAll,
	})

	return ctx, nil
}
