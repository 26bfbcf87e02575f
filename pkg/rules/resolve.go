package rules

import (
	"io/fs"
	"strconv"

	"github.com/davidkims/friendly-octo-lamp/pkg/errors"
	"github.com/davidkims/friendly-octo-lamp/pkg/types"
)

// Resolution is the outcome of resolving one entry's mode
type Resolution struct {
	Mode string
	// Category is the matched pattern category, empty for directories and
	// for files that fell through to default_file
	Category string
}

// ResolveMode picks the mode string for an entry. Directories always get the
// profile's default_dir (755 if absent). Files get the mode of the first
// matching category when the profile defines it, otherwise default_file.
func ResolveMode(path string, isDir bool, profile types.PermissionProfile, patterns types.PatternRules) (Resolution, error) {
	if isDir {
		return Resolution{Mode: profile.DefaultDir()}, nil
	}

	defaultFile, ok := profile.DefaultFile()
	if !ok {
		return Resolution{}, errors.Newf(errors.ErrConfigInvalid,
			"permission level %q has no %s entry", profile.Name, types.DefaultFileKey).
			WithDetail("level", profile.Name)
	}

	if category, matched := Classify(path, patterns); matched {
		if mode, ok := profile.Mode(category); ok {
			return Resolution{Mode: mode, Category: category}, nil
		}
	}
	return Resolution{Mode: defaultFile}, nil
}

// ParseMode converts an octal mode string such as "755" or "0640" into
// permission bits. Only the rwx triplets are accepted.
func ParseMode(mode string) (fs.FileMode, error) {
	if mode == "" {
		return 0, errors.New(errors.ErrInvalidMode, "empty mode")
	}
	v, err := strconv.ParseUint(mode, 8, 32)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrInvalidMode, "mode %q is not an octal number", mode)
	}
	if v > 0o777 {
		return 0, errors.Newf(errors.ErrInvalidMode, "mode %q is outside 000-777", mode)
	}
	return fs.FileMode(v), nil
}

// FormatMode renders permission bits the way configuration spells them
func FormatMode(mode fs.FileMode) string {
	return strconv.FormatUint(uint64(mode.Perm()), 8)
}
