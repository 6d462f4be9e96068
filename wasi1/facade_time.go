package wasi1

// setTimes implements the set_times semantics shared by fd_filestat_set_times
// and path_filestat_set_times (§4.E "set_times semantics"): ATIM/ATIM_NOW
// and MTIM/MTIM_NOW are each mutually exclusive, *_NOW reads the clock
// and converts it through nowTicks, and the result is persisted to the
// metadata sidecar unconditionally on success (even a no-op call with no
// flags set still round-trips the existing record).
func (c *Context) setTimes(path string, atim, mtim uint64, flags Fstflags) Errno {
	if flags&FstflagsAtim != 0 && flags&FstflagsAtimNow != 0 {
		return ErrnoInval
	}
	if flags&FstflagsMtim != 0 && flags&FstflagsMtimNow != 0 {
		return ErrnoInval
	}

	ts, err := getMetadata(c.backend, path)
	if err != nil {
		return ErrnoFrom(err)
	}

	switch {
	case flags&FstflagsAtim != 0:
		ts.Atim = atim
	case flags&FstflagsAtimNow != 0:
		ts.Atim = nowTicks(c.clock.NowMs())
	}
	switch {
	case flags&FstflagsMtim != 0:
		ts.Mtim = mtim
	case flags&FstflagsMtimNow != 0:
		ts.Mtim = nowTicks(c.clock.NowMs())
	}

	if err := setMetadata(c.backend, path, ts); err != nil {
		return ErrnoFrom(err)
	}
	return ErrnoSuccess
}
