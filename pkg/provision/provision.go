// Package provision materialises directory templates on disk.
package provision

import (
	"path/filepath"
	"strings"

	"github.com/davidkims/friendly-octo-lamp/pkg/errors"
	"github.com/davidkims/friendly-octo-lamp/pkg/logging"
	"github.com/davidkims/friendly-octo-lamp/pkg/types"
)

// DefaultMarker is the placeholder written into empty directories so version
// control keeps them
const DefaultMarker = ".gitkeep"

// DirMode is used for every directory the provisioner creates
const DirMode = 0755

// Options controls a provisioning run
type Options struct {
	// Template names the directory template to use
	Template string
	// CustomDirs is a comma separated list appended after the template's
	// directories
	CustomDirs string
	// Marker overrides DefaultMarker; "-" disables markers
	Marker string
}

// CreateDirectories creates the template's directories followed by the
// custom ones, in order. An unknown template is an error and nothing is
// touched. Individual failures are logged and left out of Created.
func CreateDirectories(rc types.RunContext, opts Options, templates types.TemplateConfig) (*types.ProvisionResult, error) {
	logger := logging.GetLogger("provision")

	result := &types.ProvisionResult{Template: opts.Template, DryRun: rc.DryRun}

	tmpl, ok := templates.Template(opts.Template)
	if !ok {
		logger.Error().Str("template", opts.Template).Msg("Template not found")
		return result, errors.Newf(errors.ErrTemplateNotFound, "template %q not found", opts.Template).
			WithDetail("template", opts.Template).
			WithDetail("available", templates.Names())
	}

	result.Requested = Resolve(tmpl, opts.CustomDirs)

	marker := opts.Marker
	if marker == "" {
		marker = DefaultMarker
	}

	for _, rel := range result.Requested {
		path := rc.Abs(rel)

		if rc.DryRun {
			logger.Info().Str("path", path).Msg("[DRY RUN] Would create directory")
			result.Created = append(result.Created, path)
			continue
		}

		if err := rc.FS.MkdirAll(path, DirMode); err != nil {
			logger.Error().
				Err(errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", path)).
				Str("path", path).
				Msg("Failed to create directory")
			result.Failed = append(result.Failed, path)
			continue
		}

		if marker != "-" {
			addMarker(rc.FS, path, marker)
		}

		logger.Debug().Str("path", path).Msg("Created directory")
		result.Created = append(result.Created, path)
	}

	logger.Info().
		Str("template", opts.Template).
		Int("created", len(result.Created)).
		Int("failed", len(result.Failed)).
		Msg("Directory provisioning finished")

	return result, nil
}

// Resolve returns the template's directories followed by the trimmed,
// non-empty entries of customDirs
func Resolve(tmpl types.DirectoryTemplate, customDirs string) []string {
	dirs := make([]string, 0, len(tmpl.Directories))
	for _, d := range tmpl.Directories {
		if d = strings.TrimSpace(d); d != "" {
			dirs = append(dirs, d)
		}
	}
	return append(dirs, SplitCustom(customDirs)...)
}

// SplitCustom splits a comma separated directory list, dropping blanks
func SplitCustom(customDirs string) []string {
	if strings.TrimSpace(customDirs) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(customDirs, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// addMarker writes an empty marker file when dir has no entries. A failure
// here does not undo the directory.
func addMarker(fsys types.FS, dir, marker string) {
	logger := logging.GetLogger("provision")

	entries, err := fsys.ReadDir(dir)
	if err != nil {
		logger.Warn().Err(err).Str("path", dir).Msg("Could not inspect directory for marker")
		return
	}
	if len(entries) > 0 {
		return
	}

	markerPath := filepath.Join(dir, marker)
	if err := fsys.WriteFile(markerPath, nil, 0644); err != nil {
		logger.Warn().Err(err).Str("path", markerPath).Msg("Failed to write marker file")
	}
}
