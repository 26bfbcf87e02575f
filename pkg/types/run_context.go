package types

import "path/filepath"

// RunContext carries the per-invocation state every component needs: the
// working root that relative paths resolve against, the dry-run switch, and
// the filesystem to act on. It is passed explicitly instead of living in
// package globals.
type RunContext struct {
	Root   string
	DryRun bool
	FS     FS
}

// Abs resolves p against the run root. Absolute paths are returned cleaned.
func (rc RunContext) Abs(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(rc.Root, p)
}
