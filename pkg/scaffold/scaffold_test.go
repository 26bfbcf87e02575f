package scaffold_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ferrors "github.com/davidkims/friendly-octo-lamp/pkg/errors"
	"github.com/davidkims/friendly-octo-lamp/pkg/scaffold"
	"github.com/davidkims/friendly-octo-lamp/pkg/synthfs"
	"github.com/davidkims/friendly-octo-lamp/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	writes []synthfs.FileWrite
	err    error
}

func (r *recordingWriter) Execute(_ context.Context, writes []synthfs.FileWrite) error {
	r.writes = append(r.writes, writes...)
	return r.err
}

func TestCodeowners(t *testing.T) {
	tests := []struct {
		name    string
		owner   string
		want    string
		wantErr bool
	}{
		{"handle", "@davidkims", "* @davidkims\n", false},
		{"bare_name", "octocat", "* @octocat\n", false},
		{"team", "@org/team", "* @org/team\n", false},
		{"email", "dev@example.com", "* dev@example.com\n", false},
		{"empty", "  ", "", true},
		{"spaces", "@a b", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scaffold.Codeowners(tt.owner)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, got, tt.want)
			assert.NotContains(t, got, "{{owner}}")
		})
	}
}

func TestCreateFiles_DryRun(t *testing.T) {
	rc := testutil.NewMemoryRun(true)
	w := &recordingWriter{}

	result, err := scaffold.CreateFiles(context.Background(), rc, w, scaffold.Options{Owner: "@me"})
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Equal(t, []string{".gitattributes", ".gitignore", ".github/CODEOWNERS"}, result.Files)
	assert.Empty(t, w.writes)
}

func TestCreateFiles_AppendsToGitignore(t *testing.T) {
	rc := testutil.NewMemoryRun(false)
	require.NoError(t, rc.FS.WriteFile("/work/.gitignore", []byte("node_modules/\n"), 0644))
	w := &recordingWriter{}

	_, err := scaffold.CreateFiles(context.Background(), rc, w, scaffold.Options{Owner: "@me"})
	require.NoError(t, err)

	require.Len(t, w.writes, 3)
	assert.Equal(t, "/work/.gitattributes", w.writes[0].Path)
	assert.Equal(t, "/work/.gitignore", w.writes[1].Path)
	assert.Equal(t, "/work/.github/CODEOWNERS", w.writes[2].Path)

	gitignore := string(w.writes[1].Content)
	assert.True(t, strings.HasPrefix(gitignore, "node_modules/\n\n\n# Bulk Operations\n"))
	assert.Contains(t, string(w.writes[2].Content), "* @me")
}

func TestCreateFiles_WriterError(t *testing.T) {
	rc := testutil.NewMemoryRun(false)
	w := &recordingWriter{err: ferrors.New(ferrors.ErrFileWrite, "disk full")}

	_, err := scaffold.CreateFiles(context.Background(), rc, w, scaffold.Options{Owner: "@me"})
	assert.True(t, ferrors.IsErrorCode(err, ferrors.ErrFileWrite))
}

func TestCreateFiles_InvalidOwner(t *testing.T) {
	rc := testutil.NewMemoryRun(false)
	w := &recordingWriter{}

	_, err := scaffold.CreateFiles(context.Background(), rc, w, scaffold.Options{})
	assert.True(t, ferrors.IsErrorCode(err, ferrors.ErrConfigInvalid))
	assert.Empty(t, w.writes)
}

func TestCreateFiles_OnDisk(t *testing.T) {
	root := t.TempDir()
	rc := testutil.NewOSRun(root, false)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitattributes"), []byte("old"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("bin/\n"), 0644))

	w := synthfs.NewExecutor(root, rc.FS)
	_, err := scaffold.CreateFiles(context.Background(), rc, w, scaffold.Options{Owner: "@davidkims"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, ".gitattributes"))
	require.NoError(t, err)
	assert.Equal(t, scaffold.Gitattributes(), string(data))

	data, err = os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "bin/\n"+scaffold.GitignoreBlock(), string(data))

	data, err = os.ReadFile(filepath.Join(root, ".github", "CODEOWNERS"))
	require.NoError(t, err)
	assert.Contains(t, string(data), ".github/ @davidkims")

	// A second run appends the block again
	_, err = scaffold.CreateFiles(context.Background(), rc, w, scaffold.Options{Owner: "@davidkims"})
	require.NoError(t, err)
	data, err = os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "# Bulk Operations"))
}


func TestCreateFiles_FailureKeepsUserFiles(t *testing.T) {
	root := t.TempDir()
	rc := testutil.NewOSRun(root, false)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("secret-stuff/\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitattributes"), []byte("keep me\n"), 0644))
	// .github is a regular file, so CODEOWNERS cannot be created
	require.NoError(t, os.WriteFile(filepath.Join(root, ".github"), []byte("not a dir"), 0644))

	w := synthfs.NewExecutor(root, rc.FS)
	_, err := scaffold.CreateFiles(context.Background(), rc, w, scaffold.Options{Owner: "@me"})
	require.Error(t, err)

	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "secret-stuff/\n", string(data))

	data, err = os.ReadFile(filepath.Join(root, ".gitattributes"))
	require.NoError(t, err)
	assert.Equal(t, "keep me\n", string(data))
}

func TestCreateFiles_UnreadableGitignoreIsNotReplaced(t *testing.T) {
	rc := testutil.NewMemoryRun(false)
	failing := testutil.NewFailingFS(rc.FS)
	failing.StatErrors["/work/.gitignore"] = fs.ErrPermission
	rc.FS = failing
	w := &recordingWriter{}

	_, err := scaffold.CreateFiles(context.Background(), rc, w, scaffold.Options{Owner: "@me"})
	assert.True(t, ferrors.IsErrorCode(err, ferrors.ErrFileAccess))
	assert.Empty(t, w.writes)
}
