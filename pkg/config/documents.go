package config

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/davidkims/friendly-octo-lamp/pkg/errors"
	"github.com/davidkims/friendly-octo-lamp/pkg/logging"
	"github.com/davidkims/friendly-octo-lamp/pkg/types"
)

// Documents bundles the two YAML documents a run needs
type Documents struct {
	Templates   types.TemplateConfig
	Permissions types.PermissionConfig
	// Errors holds the load problems that caused a document to be replaced
	// by an empty one
	Errors []error
}

// LoadDocuments reads both documents from the locations in s. Failures are
// logged and recorded; the affected document is left empty.
func LoadDocuments(fsys types.FS, root string, s *Settings) *Documents {
	logger := logging.GetLogger("config")
	docs := &Documents{}

	templates, err := LoadTemplates(fsys, s.TemplatesPath(root))
	if err != nil {
		logger.Error().Err(err).Msg("Template config unusable")
		docs.Errors = append(docs.Errors, err)
	}
	docs.Templates = templates

	permissions, err := LoadPermissions(fsys, s.PermissionsPath(root))
	if err != nil {
		logger.Error().Err(err).Msg("Permission config unusable")
		docs.Errors = append(docs.Errors, err)
	}
	docs.Permissions = permissions

	return docs
}

// LoadTemplates reads a directory-templates document. On any error the
// returned config is empty.
func LoadTemplates(fsys types.FS, path string) (types.TemplateConfig, error) {
	var cfg types.TemplateConfig
	if err := readYAML(fsys, path, &cfg); err != nil {
		return types.TemplateConfig{}, err
	}
	return cfg, nil
}

// LoadPermissions reads a permission-templates document. Every permission
// level must define default_file; otherwise the whole document is rejected.
func LoadPermissions(fsys types.FS, path string) (types.PermissionConfig, error) {
	var cfg types.PermissionConfig
	if err := readYAML(fsys, path, &cfg); err != nil {
		return types.PermissionConfig{}, err
	}

	for _, name := range cfg.Names() {
		if _, ok := cfg.Levels[name][types.DefaultFileKey]; !ok {
			return types.PermissionConfig{}, errors.Newf(errors.ErrConfigInvalid,
				"permission level %q in %s has no %s", name, path, types.DefaultFileKey).
				WithDetail("path", path).
				WithDetail("level", name)
		}
	}
	return cfg, nil
}

// ParseTemplates decodes a directory-templates document from memory
func ParseTemplates(data []byte) (types.TemplateConfig, error) {
	var cfg types.TemplateConfig
	if err := decodeYAML(data, &cfg); err != nil {
		return types.TemplateConfig{}, errors.Wrap(err, errors.ErrConfigParse, "invalid template document")
	}
	return cfg, nil
}

func readYAML(fsys types.FS, path string, out interface{}) error {
	if _, err := fsys.Stat(path); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "config not found: %s", path).
			WithDetail("path", path)
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to read %s", path).
			WithDetail("path", path)
	}

	if err := decodeYAML(data, out); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path).
			WithDetail("path", path)
	}
	return nil
}

// decodeYAML treats an empty document as an empty config
func decodeYAML(data []byte, out interface{}) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(out); err != nil && err != io.EOF {
		return err
	}
	return nil
}
