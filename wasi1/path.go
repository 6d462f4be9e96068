package wasi1

// ResolvePath joins a directory-rooted absolute path with a guest-supplied
// relative path the way the original memfs host does it: plain string
// concatenation, no dot-segment collapsing, no symlink following, and no
// check that the result stays under dirAbs.
//
// This is a known sandbox-correctness gap (a guest sending "../../etc"
// can escape its preopen root) preserved verbatim from the source this
// implementation is grounded on; see SPEC_FULL.md §9.
func ResolvePath(dirAbs, relative string) string {
	if relative == "." {
		return dirAbs
	}
	return dirAbs + "/" + relative
}
