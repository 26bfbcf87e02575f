// Test Type: Integration Test
// Description: Manager sequencing, operation records and dry-run behaviour

package core_test

import (
	"context"
	"io/fs"
	"testing"
	"time"

	"github.com/davidkims/friendly-octo-lamp/pkg/core"
	"github.com/davidkims/friendly-octo-lamp/pkg/errors"
	"github.com/davidkims/friendly-octo-lamp/pkg/oplog"
	"github.com/davidkims/friendly-octo-lamp/pkg/synthfs"
	"github.com/davidkims/friendly-octo-lamp/pkg/testutil"
	"github.com/davidkims/friendly-octo-lamp/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopWriter struct{ calls int }

func (w *nopWriter) Execute(context.Context, []synthfs.FileWrite) error {
	w.calls++
	return nil
}

var fixedTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func newManager(t *testing.T, dryRun bool) (*core.Manager, types.RunContext, *oplog.FileStore, *nopWriter) {
	t.Helper()
	rc := testutil.NewMemoryRun(dryRun)
	store := oplog.NewFileStore(rc.FS, "/work/.github/bulk-ops/logs/operation-log.json")
	w := &nopWriter{}

	m := core.NewManager(core.Options{
		Run: rc,
		Templates: types.TemplateConfig{Templates: map[string]types.TemplateSpec{
			"standard": {Directories: []string{"src", "docs"}},
		}},
		Permissions: types.PermissionConfig{
			Levels: map[string]types.ModeTable{
				"standard": {"default_file": "644", "default_dir": "755", "scripts": "755"},
			},
			Patterns: types.PatternRules{{Name: "scripts", Patterns: []string{"*.sh"}}},
		},
		Store:  store,
		Writer: w,
		Marker: ".gitkeep",
		Owner:  "@davidkims",
		Clock:  func() time.Time { return fixedTime },
	})
	return m, rc, store, w
}

func TestManager_StandardScenario(t *testing.T) {
	m, rc, store, _ := newManager(t, false)

	_, err := m.CreateDirectories("standard", "")
	require.NoError(t, err)

	testutil.CreateTree(t, rc.FS, rc.Root, "src/run.sh", "docs/readme.txt")

	result, err := m.ApplyPermissions("standard", nil)
	require.NoError(t, err)
	assert.Empty(t, result.Failures())
	assert.Equal(t, []string{"."}, result.Roots)

	assert.Equal(t, fs.FileMode(0o755), testutil.ModeOf(t, rc.FS, "/work/src/run.sh"))
	assert.Equal(t, fs.FileMode(0o644), testutil.ModeOf(t, rc.FS, "/work/docs/readme.txt"))
	assert.Equal(t, fs.FileMode(0o755), testutil.ModeOf(t, rc.FS, "/work/src"))
	assert.Equal(t, fs.FileMode(0o755), testutil.ModeOf(t, rc.FS, "/work/docs"))

	records := m.Records()
	require.Len(t, records, 2)
	assert.Equal(t, types.OperationCreateDirectories, records[0].Operation)
	assert.Equal(t, []string{"/work/src", "/work/docs"}, records[0].Created)
	assert.Equal(t, types.OperationApplyPermissions, records[1].Operation)
	assert.Equal(t, "standard", records[1].PermissionLevel)
	assert.Equal(t, []string{"."}, records[1].TargetDirs)
	assert.Equal(t, fixedTime, records[1].Timestamp)

	require.NoError(t, m.SaveOperationLog())
	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, records, saved)
}

func TestManager_LookupFailuresAppendNothing(t *testing.T) {
	m, rc, _, _ := newManager(t, false)

	_, err := m.CreateDirectories("nonexistent", "x")
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateNotFound))

	_, err = m.ApplyPermissions("paranoid", nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPermissionLevelNotFound))
	assert.True(t, errors.IsLookupFailure(err))

	assert.Empty(t, m.Records())
	assert.False(t, testutil.Exists(rc.FS, "/work/x"))
}

func TestManager_BulkSetupContinuesAfterLookupFailure(t *testing.T) {
	m, _, _, w := newManager(t, false)

	out, err := m.BulkSetup(context.Background(), core.BulkRequest{
		Template:        "missing",
		PermissionLevel: "standard",
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateNotFound))

	require.NotNil(t, out.Permissions)
	require.NotNil(t, out.Files)
	assert.Equal(t, 1, w.calls)

	records := m.Records()
	require.Len(t, records, 2)
	assert.Equal(t, types.OperationApplyPermissions, records[0].Operation)
	assert.Equal(t, types.OperationCreatePermissionFiles, records[1].Operation)
	assert.Equal(t, []string{".gitattributes", ".gitignore", ".github/CODEOWNERS"}, records[1].Files)
}

func TestManager_BulkSetupOrder(t *testing.T) {
	m, _, _, _ := newManager(t, false)

	_, err := m.BulkSetup(context.Background(), core.BulkRequest{
		Template:        "standard",
		CustomDirs:      "extra",
		PermissionLevel: "standard",
	})
	require.NoError(t, err)

	records := m.Records()
	require.Len(t, records, 3)
	assert.Equal(t, types.OperationCreateDirectories, records[0].Operation)
	assert.Equal(t, []string{"extra"}, records[0].CustomDirs)
	assert.Equal(t, types.OperationApplyPermissions, records[1].Operation)
	assert.Equal(t, types.OperationCreatePermissionFiles, records[2].Operation)
}

func TestManager_DryRunPersistsNothing(t *testing.T) {
	m, rc, store, w := newManager(t, true)
	testutil.CreateTree(t, rc.FS, rc.Root, "tool.sh")

	_, err := m.BulkSetup(context.Background(), core.BulkRequest{
		Template:        "standard",
		PermissionLevel: "standard",
	})
	require.NoError(t, err)
	require.NoError(t, m.SaveOperationLog())

	assert.False(t, testutil.Exists(rc.FS, store.Path))
	assert.False(t, testutil.Exists(rc.FS, "/work/src"))
	assert.Equal(t, fs.FileMode(0o600), testutil.ModeOf(t, rc.FS, "/work/tool.sh"))
	assert.Equal(t, 0, w.calls)

	for _, rec := range m.Records() {
		assert.True(t, rec.DryRun, rec.Operation)
	}
}
