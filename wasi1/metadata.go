package wasi1

// metadataXattrID is the extended attribute id the metadata sidecar is
// stored under.
const metadataXattrID = 1

// defaultTimestamp is the sentinel atim/mtim value reported for a path
// that has never had its sidecar record written. The conformance suite
// this implementation targets depends on this exact literal.
const defaultTimestamp uint64 = 100

// Timestamps is the metadata sidecar's per-path record.
type Timestamps struct {
	Atim uint64
	Mtim uint64
}

func encodeTimestamps(t Timestamps) []byte {
	buf := make([]byte, 16)
	putU64(buf[0:8], t.Atim)
	putU64(buf[8:16], t.Mtim)
	return buf
}

func decodeTimestamps(data []byte) (Timestamps, bool) {
	if len(data) != 16 {
		return Timestamps{}, false
	}
	return Timestamps{
		Atim: getU64(data[0:8]),
		Mtim: getU64(data[8:16]),
	}, true
}

func putU64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getU64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

// getMetadata reads the sidecar record for path, defaulting to {100, 100}
// when unset.
func getMetadata(backend Backend, path string) (Timestamps, error) {
	data, ok, err := backend.GetXattr(path, metadataXattrID)
	if err != nil {
		return Timestamps{}, err
	}
	if !ok {
		return Timestamps{Atim: defaultTimestamp, Mtim: defaultTimestamp}, nil
	}
	ts, valid := decodeTimestamps(data)
	if !valid {
		return Timestamps{Atim: defaultTimestamp, Mtim: defaultTimestamp}, nil
	}
	return ts, nil
}

// setMetadata writes the sidecar record for path.
func setMetadata(backend Backend, path string, ts Timestamps) error {
	return backend.SetXattr(path, metadataXattrID, encodeTimestamps(ts))
}

// touchMetadata performs the read-then-write the spec requires right
// after a successful path_open, so the sidecar always exists for a path
// once it has been opened through the façade.
func touchMetadata(backend Backend, path string) error {
	ts, err := getMetadata(backend, path)
	if err != nil {
		return err
	}
	return setMetadata(backend, path, ts)
}

// nowTicks converts a millisecond clock reading into the sidecar's
// timestamp value. The multiplier is ten million, not one million: this
// preserves the exact conformance-sentinel behavior the spec calls out
// (SPEC_FULL.md §4.D), even though it means one unit is 100 ps rather
// than one nanosecond.
func nowTicks(nowMs uint32) uint64 {
	return uint64(nowMs) * 10_000_000
}
