// Package scaffold emits the auxiliary repository files that accompany a
// bulk setup: .gitattributes, a .gitignore block and .github/CODEOWNERS.
package scaffold

import (
	"context"
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/davidkims/friendly-octo-lamp/pkg/errors"
	"github.com/davidkims/friendly-octo-lamp/pkg/logging"
	"github.com/davidkims/friendly-octo-lamp/pkg/synthfs"
	"github.com/davidkims/friendly-octo-lamp/pkg/types"
)

// Relative locations of the generated files, in the order they are reported
const (
	GitattributesFile = ".gitattributes"
	GitignoreFile     = ".gitignore"
	CodeownersFile    = ".github/CODEOWNERS"
)

// Files lists the generated files relative to the root
func Files() []string {
	return []string{GitattributesFile, GitignoreFile, CodeownersFile}
}

// Writer executes a batch of file writes
type Writer interface {
	Execute(ctx context.Context, writes []synthfs.FileWrite) error
}

// Options controls file generation
type Options struct {
	// Owner is the CODEOWNERS owner, e.g. "@team"
	Owner string
}

// CreateFiles overwrites .gitattributes and CODEOWNERS and appends the
// bulk-ops block to .gitignore. Under dry-run nothing is read or written.
func CreateFiles(ctx context.Context, rc types.RunContext, w Writer, opts Options) (*types.ScaffoldResult, error) {
	logger := logging.GetLogger("scaffold")

	result := &types.ScaffoldResult{Files: Files(), DryRun: rc.DryRun}

	codeowners, err := Codeowners(opts.Owner)
	if err != nil {
		return result, errors.Wrap(err, errors.ErrConfigInvalid, "cannot render CODEOWNERS")
	}

	if rc.DryRun {
		logger.Info().Strs("files", result.Files).
			Msg("[DRY RUN] Would create .gitattributes, update .gitignore, and create CODEOWNERS")
		return result, nil
	}

	gitignorePath := rc.Abs(GitignoreFile)
	gitignore, err := existing(rc.FS, gitignorePath)
	if err != nil {
		return result, err
	}

	writes := []synthfs.FileWrite{
		{Path: rc.Abs(GitattributesFile), Content: []byte(Gitattributes()), Mode: 0644},
		{Path: gitignorePath, Content: append(gitignore, GitignoreBlock()...), Mode: 0644},
		{Path: rc.Abs(filepath.FromSlash(CodeownersFile)), Content: []byte(codeowners), Mode: 0644},
	}

	if err := w.Execute(ctx, writes); err != nil {
		logger.Error().Err(err).Msg("Failed to create permission files")
		return result, err
	}

	logger.Info().Strs("files", result.Files).Msg("Created permission and configuration files")
	return result, nil
}

// existing returns the current content of path, or nil if it does not exist
func existing(fsys types.FS, path string) ([]byte, error) {
	if _, err := fsys.Stat(path); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", path)
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}
	return data, nil
}
