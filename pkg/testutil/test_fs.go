package testutil

import (
	"github.com/davidkims/friendly-octo-lamp/pkg/filesystem"
	"github.com/davidkims/friendly-octo-lamp/pkg/types"
	"github.com/spf13/afero"
)

// NewTestFS creates a new in-memory filesystem for testing.
func NewTestFS() types.FS {
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}

// NewMemoryRun returns a run context over a fresh in-memory filesystem
// rooted at /work, which already exists.
func NewMemoryRun(dryRun bool) types.RunContext {
	fsys := NewTestFS()
	_ = fsys.MkdirAll("/work", 0755)
	return types.RunContext{Root: "/work", DryRun: dryRun, FS: fsys}
}

// NewOSRun returns a run context over the real filesystem rooted at root
func NewOSRun(root string, dryRun bool) types.RunContext {
	return types.RunContext{Root: root, DryRun: dryRun, FS: filesystem.NewOS()}
}
