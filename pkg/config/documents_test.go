package config

import (
	"testing"

	"github.com/davidkims/friendly-octo-lamp/pkg/errors"
	"github.com/davidkims/friendly-octo-lamp/pkg/testutil"
	"github.com/davidkims/friendly-octo-lamp/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const templatesYAML = `
templates:
  standard:
    directories:
      - src
      - docs
      - tests
  minimal:
    directories: [src]
`

const permissionsYAML = `
permission_levels:
  standard:
    default_file: "644"
    default_dir: 755
    scripts: "755"
    secrets: "600"
  strict:
    default_file: "600"
    default_dir: "700"
file_patterns:
  secrets:
    - "*.key"
    - ".env"
  scripts: ["*.sh"]
  docs: "*.md"
`

func writeDocs(t *testing.T, fsys types.FS, templates, permissions string) *Settings {
	t.Helper()
	s := &Settings{Paths: Paths{
		ConfigsDir:      ".github/bulk-ops/configs",
		TemplatesFile:   "directory-templates.yml",
		PermissionsFile: "permission-templates.yml",
	}}
	require.NoError(t, fsys.MkdirAll("/repo/.github/bulk-ops/configs", 0755))
	if templates != "" {
		require.NoError(t, fsys.WriteFile(s.TemplatesPath("/repo"), []byte(templates), 0644))
	}
	if permissions != "" {
		require.NoError(t, fsys.WriteFile(s.PermissionsPath("/repo"), []byte(permissions), 0644))
	}
	return s
}

func TestLoadDocuments(t *testing.T) {
	fsys := testutil.NewTestFS()
	s := writeDocs(t, fsys, templatesYAML, permissionsYAML)

	docs := LoadDocuments(fsys, "/repo", s)
	require.Empty(t, docs.Errors)

	assert.Equal(t, []string{"minimal", "standard"}, docs.Templates.Names())
	tmpl, ok := docs.Templates.Template("standard")
	require.True(t, ok)
	assert.Equal(t, []string{"src", "docs", "tests"}, tmpl.Directories)

	assert.Equal(t, []string{"standard", "strict"}, docs.Permissions.Names())
	profile, ok := docs.Permissions.Profile("standard")
	require.True(t, ok)
	assert.Equal(t, "755", profile.DefaultDir(), "unquoted scalar keeps its text")

	assert.Equal(t, []string{"secrets", "scripts", "docs"}, docs.Permissions.Patterns.Categories())
	assert.Equal(t, []string{"*.md"}, docs.Permissions.Patterns[2].Patterns)
}

func TestLoadDocuments_MissingFiles(t *testing.T) {
	fsys := testutil.NewTestFS()
	s := writeDocs(t, fsys, "", "")

	docs := LoadDocuments(fsys, "/repo", s)
	require.Len(t, docs.Errors, 2)
	assert.True(t, errors.IsErrorCode(docs.Errors[0], errors.ErrConfigLoad))
	assert.Empty(t, docs.Templates.Names())
	assert.Empty(t, docs.Permissions.Names())
}

func TestLoadPermissions_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.ErrorCode
	}{
		{
			name:    "missing_default_file",
			content: "permission_levels:\n  standard:\n    default_dir: \"755\"\n",
			code:    errors.ErrConfigInvalid,
		},
		{
			name:    "malformed_yaml",
			content: "permission_levels: [unclosed",
			code:    errors.ErrConfigParse,
		},
		{
			name:    "level_not_a_mapping",
			content: "permission_levels:\n  standard: \"644\"\n",
			code:    errors.ErrConfigParse,
		},
		{
			name:    "patterns_not_a_mapping",
			content: "file_patterns: [a, b]\n",
			code:    errors.ErrConfigParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := testutil.NewTestFS()
			s := writeDocs(t, fsys, "", tt.content)

			cfg, err := LoadPermissions(fsys, s.PermissionsPath("/repo"))
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
			assert.Empty(t, cfg.Names())
		})
	}
}

func TestParseTemplates_Empty(t *testing.T) {
	cfg, err := ParseTemplates([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, cfg.Names())

	_, err = ParseTemplates([]byte("templates: ["))
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestValidate(t *testing.T) {
	fsys := testutil.NewTestFS()
	s := writeDocs(t, fsys, `
templates:
  empty:
    directories: []
  standard:
    directories: [src]
`, `
permission_levels:
  standard:
    default_file: "644"
    scripts: "9z9"
    orphan: "600"
file_patterns:
  scripts: ["*.sh"]
  unused: []
`)

	findings := Validate(LoadDocuments(fsys, "/repo", s))
	require.True(t, HasErrors(findings))

	var messages []string
	for _, f := range findings {
		messages = append(messages, f.String())
	}
	assert.Contains(t, messages, "warning: template empty: has no directories")
	assert.Contains(t, messages, "warning: pattern unused: has no patterns")
	assert.Contains(t, messages, "warning: level standard: orphan is not a file pattern category and is never used")

	var modeErr bool
	for _, f := range findings {
		if f.Severity == SeverityError && f.Subject == "level standard" {
			modeErr = true
		}
	}
	assert.True(t, modeErr, "invalid mode is an error")
}

func TestValidate_Clean(t *testing.T) {
	fsys := testutil.NewTestFS()
	s := writeDocs(t, fsys, templatesYAML, permissionsYAML)

	findings := Validate(LoadDocuments(fsys, "/repo", s))
	assert.False(t, HasErrors(findings))
}
