// Package filesystem provides the types.FS implementations: the OS
// filesystem used for real runs and an afero-backed one for in-memory use.
package filesystem
