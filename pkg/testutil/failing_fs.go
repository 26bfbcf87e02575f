package testutil

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/davidkims/friendly-octo-lamp/pkg/types"
)

// FailingFS wraps a types.FS and returns injected errors for chosen paths.
// Paths are compared after filepath.Clean.
type FailingFS struct {
	types.FS

	ChmodErrors   map[string]error
	MkdirErrors   map[string]error
	ReadDirErrors map[string]error
	RenameErrors  map[string]error
	StatErrors    map[string]error
	WriteErrors   map[string]error

	// ChmodCalls records every path Chmod was asked to change
	ChmodCalls []string
}

// NewFailingFS wraps base with no injected errors
func NewFailingFS(base types.FS) *FailingFS {
	return &FailingFS{
		FS:            base,
		ChmodErrors:   make(map[string]error),
		MkdirErrors:   make(map[string]error),
		ReadDirErrors: make(map[string]error),
		RenameErrors:  make(map[string]error),
		StatErrors:    make(map[string]error),
		WriteErrors:   make(map[string]error),
	}
}

func (f *FailingFS) Chmod(name string, mode fs.FileMode) error {
	name = filepath.Clean(name)
	f.ChmodCalls = append(f.ChmodCalls, name)
	if err, ok := f.ChmodErrors[name]; ok {
		return &fs.PathError{Op: "chmod", Path: name, Err: err}
	}
	return f.FS.Chmod(name, mode)
}

func (f *FailingFS) MkdirAll(path string, perm fs.FileMode) error {
	if err, ok := f.MkdirErrors[filepath.Clean(path)]; ok {
		return &fs.PathError{Op: "mkdir", Path: path, Err: err}
	}
	return f.FS.MkdirAll(path, perm)
}

func (f *FailingFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err, ok := f.ReadDirErrors[filepath.Clean(name)]; ok {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: err}
	}
	return f.FS.ReadDir(name)
}

func (f *FailingFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err, ok := f.WriteErrors[filepath.Clean(name)]; ok {
		return &fs.PathError{Op: "write", Path: name, Err: err}
	}
	return f.FS.WriteFile(name, data, perm)
}

// Rename fails when the destination has an injected error
func (f *FailingFS) Rename(oldpath, newpath string) error {
	if err, ok := f.RenameErrors[filepath.Clean(newpath)]; ok {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: err}
	}
	return f.FS.Rename(oldpath, newpath)
}

func (f *FailingFS) Stat(name string) (fs.FileInfo, error) {
	if err, ok := f.StatErrors[filepath.Clean(name)]; ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
	}
	return f.FS.Stat(name)
}
