// Package permissions applies a permission profile to file trees.
package permissions

import (
	"path/filepath"

	"github.com/davidkims/friendly-octo-lamp/pkg/errors"
	"github.com/davidkims/friendly-octo-lamp/pkg/logging"
	"github.com/davidkims/friendly-octo-lamp/pkg/rules"
	"github.com/davidkims/friendly-octo-lamp/pkg/types"
	"github.com/davidkims/friendly-octo-lamp/pkg/walker"
)

// Apply walks every root and sets each descendant's mode as resolved from
// profile and patterns. Roots are resolved against rc.Root; missing roots are
// skipped. A failure on one entry is recorded and the walk continues.
func Apply(rc types.RunContext, roots []string, profile types.PermissionProfile, patterns types.PatternRules) *types.PermissionResult {
	logger := logging.GetLogger("permissions")

	result := &types.PermissionResult{
		Level:  profile.Name,
		Roots:  roots,
		DryRun: rc.DryRun,
	}

	for _, root := range roots {
		absRoot := rc.Abs(root)
		if !walker.Exists(rc.FS, absRoot) {
			logger.Debug().Str("root", absRoot).Msg("Target does not exist, skipping")
			result.Missing = append(result.Missing, root)
			continue
		}

		walker.Walk(rc.FS, absRoot, func(entry walker.Entry) {
			change := applyOne(rc, root, absRoot, entry, profile, patterns)
			result.Changes = append(result.Changes, change)
		}, func(path string, err error) {
			logger.Error().Err(err).Str("path", path).Msg("Failed to list directory")
			result.Changes = append(result.Changes, types.PermissionChange{
				Path:  path,
				IsDir: true,
				Err:   errors.Wrapf(err, errors.ErrDirRead, "failed to list %s", path),
			})
		})
	}

	return result
}

func applyOne(rc types.RunContext, root, absRoot string, entry walker.Entry, profile types.PermissionProfile, patterns types.PatternRules) types.PermissionChange {
	logger := logging.GetLogger("permissions")

	change := types.PermissionChange{Path: entry.Path, IsDir: entry.IsDir}

	res, err := rules.ResolveMode(displayPath(root, absRoot, entry.Path), entry.IsDir, profile, patterns)
	if err != nil {
		logger.Error().Err(err).Str("path", entry.Path).Msg("Failed to resolve permission")
		change.Err = err
		return change
	}
	change.Mode = res.Mode
	change.Category = res.Category

	mode, err := rules.ParseMode(res.Mode)
	if err != nil {
		logger.Error().Err(err).Str("path", entry.Path).Msg("Failed to set permission")
		change.Err = err
		return change
	}

	if rc.DryRun {
		logger.Info().
			Str("path", entry.Path).
			Str("mode", res.Mode).
			Msg("[DRY RUN] Would set permission")
		return change
	}

	if err := rc.FS.Chmod(entry.Path, mode); err != nil {
		logger.Error().Err(err).Str("path", entry.Path).Str("mode", res.Mode).Msg("Failed to set permission")
		change.Err = errors.Wrapf(err, errors.ErrChmod, "failed to set %s on %s", res.Mode, entry.Path).
			WithDetail("path", entry.Path)
		return change
	}

	logger.Debug().Str("path", entry.Path).Str("mode", res.Mode).Msg("Set permission")
	change.Applied = true
	return change
}

// displayPath is the path as the caller addressed it: the root exactly as
// given joined with the entry's position below it. Patterns are matched
// against this string.
func displayPath(root, absRoot, path string) string {
	rel, err := filepath.Rel(absRoot, path)
	if err != nil {
		return path
	}
	return filepath.Join(root, rel)
}
