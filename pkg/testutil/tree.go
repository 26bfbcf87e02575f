package testutil

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davidkims/friendly-octo-lamp/pkg/types"
	"github.com/stretchr/testify/require"
)

// CreateTree creates files and directories under root. Entries ending in "/"
// are directories; everything else is a file whose parent is created as
// needed. Files are written with mode 0600 so permission changes are visible.
func CreateTree(t *testing.T, fsys types.FS, root string, entries ...string) {
	t.Helper()

	for _, entry := range entries {
		full := filepath.Join(root, entry)
		if strings.HasSuffix(entry, "/") {
			require.NoError(t, fsys.MkdirAll(full, 0700))
			continue
		}
		require.NoError(t, fsys.MkdirAll(filepath.Dir(full), 0700))
		require.NoError(t, fsys.WriteFile(full, []byte("content of "+entry), 0600))
	}
}

// ModeOf returns the permission bits of path, failing the test if it is missing
func ModeOf(t *testing.T, fsys types.FS, path string) fs.FileMode {
	t.Helper()

	info, err := fsys.Stat(path)
	require.NoError(t, err, "stat %s", path)
	return info.Mode().Perm()
}

// Exists reports whether path is present on fsys
func Exists(fsys types.FS, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}
