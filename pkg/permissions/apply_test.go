// TEST TYPE: Unit Tests
// DEPENDENCIES: testutil in-memory and OS filesystems
// PURPOSE: Recursive permission assignment, dry-run and partial failures

package permissions_test

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	ferrors "github.com/davidkims/friendly-octo-lamp/pkg/errors"
	"github.com/davidkims/friendly-octo-lamp/pkg/permissions"
	"github.com/davidkims/friendly-octo-lamp/pkg/testutil"
	"github.com/davidkims/friendly-octo-lamp/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profile() types.PermissionProfile {
	return types.PermissionProfile{
		Name: "standard",
		Modes: types.ModeTable{
			"default_file": "644",
			"default_dir":  "755",
			"scripts":      "755",
			"secrets":      "600",
		},
	}
}

func patterns() types.PatternRules {
	return types.PatternRules{
		{Name: "scripts", Patterns: []string{"*.sh"}},
		{Name: "secrets", Patterns: []string{"*.key", ".env"}},
	}
}

func TestApply_SetsModesRecursively(t *testing.T) {
	rc := testutil.NewMemoryRun(false)
	testutil.CreateTree(t, rc.FS, rc.Root,
		"src/run.sh",
		"src/lib/util.go",
		"config/.env",
		"config/tls/server.key",
		"docs/",
	)

	result := permissions.Apply(rc, []string{"."}, profile(), patterns())

	assert.Empty(t, result.Failures())
	assert.Equal(t, 9, len(result.Changes))

	expect := map[string]fs.FileMode{
		"src":                   0o755,
		"src/lib":               0o755,
		"config":                0o755,
		"config/tls":            0o755,
		"docs":                  0o755,
		"src/run.sh":            0o755,
		"src/lib/util.go":       0o644,
		"config/.env":           0o600,
		"config/tls/server.key": 0o600,
	}
	for rel, want := range expect {
		assert.Equal(t, want, testutil.ModeOf(t, rc.FS, filepath.Join(rc.Root, rel)), rel)
	}

	// The root itself is never touched
	assert.Equal(t, fs.FileMode(0o755), testutil.ModeOf(t, rc.FS, rc.Root))
}

func TestApply_MatchesAgainstPathAsGiven(t *testing.T) {
	// The working root's own name contains ".key"; a relative target must
	// not let that leak into classification.
	fsys := testutil.NewTestFS()
	rc := types.RunContext{Root: "/srv/my.key-store", FS: fsys}
	testutil.CreateTree(t, fsys, rc.Root, "notes.txt")

	result := permissions.Apply(rc, []string{"."}, profile(), patterns())
	require.Len(t, result.Changes, 1)
	assert.Equal(t, "644", result.Changes[0].Mode)

	// An absolute target is matched as an absolute path
	result = permissions.Apply(rc, []string{rc.Root}, profile(), patterns())
	require.Len(t, result.Changes, 1)
	assert.Equal(t, "600", result.Changes[0].Mode)
	assert.Equal(t, "secrets", result.Changes[0].Category)
}

func TestApply_DryRunChangesNothing(t *testing.T) {
	rc := testutil.NewMemoryRun(true)
	testutil.CreateTree(t, rc.FS, rc.Root, "src/run.sh", "readme.txt")

	result := permissions.Apply(rc, nil, profile(), patterns())
	assert.Empty(t, result.Changes, "no roots means nothing to do")

	result = permissions.Apply(rc, []string{"."}, profile(), patterns())
	require.Len(t, result.Changes, 3)
	assert.True(t, result.DryRun)
	for _, c := range result.Changes {
		assert.False(t, c.Applied, c.Path)
		assert.NoError(t, c.Err)
		assert.NotEmpty(t, c.Mode)
	}
	assert.Equal(t, 3, result.Succeeded())

	// Modes are untouched
	assert.Equal(t, fs.FileMode(0o600), testutil.ModeOf(t, rc.FS, filepath.Join(rc.Root, "src/run.sh")))
	assert.Equal(t, fs.FileMode(0o700), testutil.ModeOf(t, rc.FS, filepath.Join(rc.Root, "src")))
}

func TestApply_MissingRootsAreSkipped(t *testing.T) {
	rc := testutil.NewMemoryRun(false)
	testutil.CreateTree(t, rc.FS, rc.Root, "present/file.txt")

	result := permissions.Apply(rc, []string{"absent", "present"}, profile(), patterns())

	assert.Equal(t, []string{"absent"}, result.Missing)
	require.Len(t, result.Changes, 1)
	assert.Empty(t, result.Failures())
	assert.Equal(t, fs.FileMode(0o644), testutil.ModeOf(t, rc.FS, "/work/present/file.txt"))
}

func TestApply_PartialFailureContinues(t *testing.T) {
	base := testutil.NewMemoryRun(false)
	failing := testutil.NewFailingFS(base.FS)
	rc := types.RunContext{Root: base.Root, FS: failing}

	testutil.CreateTree(t, failing, rc.Root, "batch/a.txt", "batch/b.txt", "batch/c.txt", "batch/d.txt", "batch/e.txt")
	failing.ChmodErrors["/work/batch/c.txt"] = errors.New("operation not permitted")

	result := permissions.Apply(rc, []string{"batch"}, profile(), patterns())

	require.Len(t, result.Changes, 5)
	failures := result.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "/work/batch/c.txt", failures[0].Path)
	assert.True(t, ferrors.IsErrorCode(failures[0].Err, ferrors.ErrChmod))
	assert.False(t, failures[0].Applied)

	for _, name := range []string{"a", "b", "d", "e"} {
		p := "/work/batch/" + name + ".txt"
		assert.Equal(t, fs.FileMode(0o644), testutil.ModeOf(t, failing, p), p)
	}
	assert.Equal(t, fs.FileMode(0o600), testutil.ModeOf(t, failing, "/work/batch/c.txt"))
	assert.Len(t, failing.ChmodCalls, 5)
}

func TestApply_InvalidModeIsPerEntry(t *testing.T) {
	rc := testutil.NewMemoryRun(false)
	testutil.CreateTree(t, rc.FS, rc.Root, "run.sh", "notes.txt")

	broken := profile()
	broken.Modes = types.ModeTable{"default_file": "644", "scripts": "rwx"}

	result := permissions.Apply(rc, []string{"."}, broken, patterns())

	failures := result.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "/work/run.sh", failures[0].Path)
	assert.True(t, ferrors.IsErrorCode(failures[0].Err, ferrors.ErrInvalidMode))
	assert.Equal(t, fs.FileMode(0o644), testutil.ModeOf(t, rc.FS, "/work/notes.txt"))
}

func TestApply_OnDisk(t *testing.T) {
	root := t.TempDir()
	rc := testutil.NewOSRun(root, false)
	testutil.CreateTree(t, rc.FS, root, "bin/deploy.sh", "keys/id.key", "README")

	result := permissions.Apply(rc, []string{"."}, profile(), patterns())
	require.Empty(t, result.Failures())

	assert.Equal(t, fs.FileMode(0o755), testutil.ModeOf(t, rc.FS, filepath.Join(root, "bin/deploy.sh")))
	assert.Equal(t, fs.FileMode(0o600), testutil.ModeOf(t, rc.FS, filepath.Join(root, "keys/id.key")))
	assert.Equal(t, fs.FileMode(0o644), testutil.ModeOf(t, rc.FS, filepath.Join(root, "README")))
	assert.Equal(t, fs.FileMode(0o755), testutil.ModeOf(t, rc.FS, filepath.Join(root, "keys")))
}
