// Package walker enumerates the descendants of a directory over types.FS.
package walker

import (
	"io/fs"
	"path/filepath"

	"github.com/davidkims/friendly-octo-lamp/pkg/types"
)

// Entry is one visited filesystem entry
type Entry struct {
	Path  string
	IsDir bool
	// Symlink entries are visited but never descended into
	Symlink bool
	Depth   int
}

// VisitFunc is called once per descendant
type VisitFunc func(Entry)

// ErrorFunc receives directories that could not be listed. The walk goes on
// without that subtree.
type ErrorFunc func(path string, err error)

// Walk visits every descendant of root exactly once. A directory's entries
// are visited in name order before any of its subdirectories is entered, and
// subdirectories are then walked depth first in the same order. The root
// itself is not visited, and a root that is a file has no descendants.
func Walk(fsys types.FS, root string, visit VisitFunc, onErr ErrorFunc) {
	type frame struct {
		path  string
		depth int
	}

	info, err := fsys.Stat(root)
	if err != nil {
		if onErr != nil {
			onErr(root, err)
		}
		return
	}
	if !info.IsDir() {
		return
	}

	stack := []frame{{path: root, depth: 0}}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := fsys.ReadDir(dir.path)
		if err != nil {
			if onErr != nil {
				onErr(dir.path, err)
			}
			continue
		}

		// Visit in order, then push subdirectories reversed so the first
		// one is popped next
		var subdirs []frame
		for _, de := range entries {
			e := Entry{
				Path:  filepath.Join(dir.path, de.Name()),
				IsDir: de.IsDir(),
				Depth: dir.depth + 1,
			}
			if de.Type()&fs.ModeSymlink != 0 {
				e.Symlink = true
				if info, err := fsys.Stat(e.Path); err == nil {
					e.IsDir = info.IsDir()
				}
			}
			visit(e)
			if e.IsDir && !e.Symlink {
				subdirs = append(subdirs, frame{path: e.Path, depth: e.Depth})
			}
		}
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, subdirs[i])
		}
	}
}

// Exists reports whether root is present. Missing roots are not errors for
// callers that tolerate absent targets.
func Exists(fsys types.FS, root string) bool {
	_, err := fsys.Stat(root)
	return err == nil
}
