package types

import (
	"io/fs"
)

// FS is the filesystem interface required by the provisioning and permission
// components. Production code uses the OS implementation; tests use afero.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Remove(name string) error
	Rename(oldpath, newpath string) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Permission bits
	Chmod(name string, mode fs.FileMode) error

	// Lstat may fall back to Stat on filesystems without symlinks
	Lstat(name string) (fs.FileInfo, error)
}
