package synthfs

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/core"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/arthur-debert/synthfs/pkg/synthfs/operations"
	"github.com/rs/zerolog"

	"github.com/davidkims/friendly-octo-lamp/pkg/errors"
	"github.com/davidkims/friendly-octo-lamp/pkg/logging"
	"github.com/davidkims/friendly-octo-lamp/pkg/types"
)

// FileWrite is one file to produce. Path is absolute.
type FileWrite struct {
	Path    string
	Content []byte
	Mode    fs.FileMode
}

// Executor writes batches of files through a synthfs pipeline. Every target
// must live under the executor's root. Existing targets are only replaced
// once the whole batch has been written, so a failed batch leaves each
// target either untouched or fully rewritten.
type Executor struct {
	logger     zerolog.Logger
	root       string
	fs         types.FS
	filesystem synthfs.FileSystem
}

// NewExecutor creates an executor confined to root. fsys is used to prepare
// parent directories and swap staged files into place.
func NewExecutor(root string, fsys types.FS) *Executor {
	return &Executor{
		logger:     logging.GetLogger("synthfs"),
		root:       filepath.Clean(root),
		fs:         fsys,
		filesystem: filesystem.NewOSFileSystem("/"),
	}
}

// Execute writes all files or returns the first failure
func (e *Executor) Execute(ctx context.Context, writes []FileWrite) error {
	if len(writes) == 0 {
		e.logger.Debug().Msg("No files to write")
		return nil
	}

	for _, w := range writes {
		if !isPathWithin(w.Path, e.root) {
			return errors.Newf(errors.ErrInvalidInput, "refusing to write %s outside %s", w.Path, e.root).
				WithDetail("path", w.Path)
		}
	}

	for _, w := range writes {
		if err := e.fs.MkdirAll(filepath.Dir(w.Path), 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(w.Path))
		}
	}

	// synthfs refuses to create over existing files, so new content goes to
	// staging siblings and is renamed over the targets once all are written
	staged := make([]FileWrite, len(writes))
	for i, w := range writes {
		staged[i] = FileWrite{Path: stagingPath(w.Path), Content: w.Content, Mode: w.Mode}
	}
	defer e.cleanup(staged)

	for _, w := range staged {
		if _, err := e.fs.Lstat(w.Path); err == nil {
			if err := e.fs.Remove(w.Path); err != nil {
				return errors.Wrapf(err, errors.ErrFileWrite, "failed to clear stale %s", w.Path)
			}
		}
	}

	pipeline := synthfs.NewMemPipeline()
	for _, w := range staged {
		op, err := e.convertWriteFile(w)
		if err != nil {
			return err
		}
		if err := pipeline.Add(op); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "failed to add %s to pipeline", w.Path)
		}
	}

	e.logger.Info().Int("fileCount", len(writes)).Msg("Writing files")

	result := synthfs.NewExecutor().Run(ctx, pipeline, e.filesystem)
	if result.GetError() != nil {
		e.logger.Error().Err(result.GetError()).Msg("Pipeline execution failed")
		return errors.Wrap(result.GetError(), errors.ErrFileWrite, "failed to write files")
	}

	for i, w := range writes {
		if err := e.fs.Rename(staged[i].Path, w.Path); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "failed to replace %s", w.Path)
		}
		e.logger.Debug().Str("target", w.Path).Msg("Replaced file")
	}

	return nil
}

// cleanup removes staging files left behind by a failed run
func (e *Executor) cleanup(staged []FileWrite) {
	for _, w := range staged {
		if _, err := e.fs.Lstat(w.Path); err != nil {
			continue
		}
		if err := e.fs.Remove(w.Path); err != nil {
			e.logger.Warn().Err(err).Str("path", w.Path).Msg("Failed to remove staging file")
		}
	}
}

// stagingPath is the hidden sibling new content is written to before the swap
func stagingPath(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".bulkops-tmp")
}

func (e *Executor) convertWriteFile(w FileWrite) (synthfs.Operation, error) {
	mode := w.Mode
	if mode == 0 {
		mode = 0644
	}

	// synthfs works on paths relative to its own root
	relPath, err := filepath.Rel("/", w.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to convert path: %s", w.Path)
	}

	e.logger.Debug().
		Str("target", w.Path).
		Str("mode", mode.String()).
		Int("contentLen", len(w.Content)).
		Msg("Creating write file operation")

	opID := core.OperationID(fmt.Sprintf("write-file-%s", w.Path))
	createOp := operations.NewCreateFileOperation(opID, relPath)
	createOp.SetItem(&fileItem{
		path:    relPath,
		content: w.Content,
		mode:    mode,
	})

	return synthfs.NewOperationsPackageAdapter(createOp), nil
}

// isPathWithin checks if path is within parent directory
func isPathWithin(path, parent string) bool {
	if !filepath.IsAbs(path) {
		return false
	}
	rel, err := filepath.Rel(parent, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// fileItem implements the interface needed for file operations
type fileItem struct {
	path    string
	content []byte
	mode    fs.FileMode
}

func (f *fileItem) Path() string       { return f.path }
func (f *fileItem) Type() string       { return "file" }
func (f *fileItem) Content() []byte    { return f.content }
func (f *fileItem) Mode() fs.FileMode  { return f.mode }
func (f *fileItem) IsDir() bool        { return false }
func (f *fileItem) ModTime() time.Time { return time.Now() }
func (f *fileItem) Size() int64        { return int64(len(f.content)) }
