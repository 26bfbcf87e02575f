package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/davidkims/friendly-octo-lamp/pkg/errors"
)

const (
	// AppName names the user config directory under the XDG config home
	AppName = "bulkops"

	// EnvPrefix is the prefix of environment overrides
	EnvPrefix = "BULKOPS_"

	// RepoConfigFile is the repository settings file, relative to the root
	RepoConfigFile = ".github/bulk-ops/bulkops.toml"
)

// Paths holds the locations of documents and logs, relative to the root
// unless absolute
type Paths struct {
	ConfigsDir      string `koanf:"configs_dir" toml:"configs_dir"`
	TemplatesFile   string `koanf:"templates_file" toml:"templates_file"`
	PermissionsFile string `koanf:"permissions_file" toml:"permissions_file"`
	LogsDir         string `koanf:"logs_dir" toml:"logs_dir"`
	ExecutionLog    string `koanf:"execution_log" toml:"execution_log"`
	OperationLog    string `koanf:"operation_log" toml:"operation_log"`
}

// Provision holds directory provisioning settings
type Provision struct {
	DefaultTemplate string `koanf:"default_template" toml:"default_template"`
	Marker          string `koanf:"marker" toml:"marker"`
}

// Permissions holds permission assignment settings
type Permissions struct {
	DefaultLevel string `koanf:"default_level" toml:"default_level"`
}

// Scaffold holds settings for the auxiliary repository files
type Scaffold struct {
	CodeownersOwner string `koanf:"codeowners_owner" toml:"codeowners_owner"`
}

// Settings is the merged bulkops configuration
type Settings struct {
	Paths       Paths       `koanf:"paths" toml:"paths"`
	Provision   Provision   `koanf:"provision" toml:"provision"`
	Permissions Permissions `koanf:"permissions" toml:"permissions"`
	Scaffold    Scaffold    `koanf:"scaffold" toml:"scaffold"`
}

// TemplatesPath returns the directory-templates document location under root
func (s *Settings) TemplatesPath(root string) string {
	return resolve(root, filepath.Join(s.Paths.ConfigsDir, s.Paths.TemplatesFile))
}

// PermissionsPath returns the permission-templates document location under root
func (s *Settings) PermissionsPath(root string) string {
	return resolve(root, filepath.Join(s.Paths.ConfigsDir, s.Paths.PermissionsFile))
}

// ExecutionLogPath returns the execution log location under root
func (s *Settings) ExecutionLogPath(root string) string {
	return resolve(root, filepath.Join(s.Paths.LogsDir, s.Paths.ExecutionLog))
}

// OperationLogPath returns the operation log location under root
func (s *Settings) OperationLogPath(root string) string {
	return resolve(root, filepath.Join(s.Paths.LogsDir, s.Paths.OperationLog))
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// UserConfigPath returns the per-user settings file location
func UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.toml")
}

// LoadSettings merges all settings layers. configFile replaces the
// repository file when set and must exist. overrides uses dotted keys such
// as "provision.marker" and wins over everything else.
func LoadSettings(root, configFile string, overrides map[string]interface{}) (*Settings, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User settings
	if err := loadOptional(k, UserConfigPath()); err != nil {
		return nil, err
	}

	// 3. Repository settings or an explicit file
	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", configFile)
		}
		if err := loadOptional(k, configFile); err != nil {
			return nil, err
		}
	} else if err := loadOptional(k, filepath.Join(root, RepoConfigFile)); err != nil {
		return nil, err
	}

	// 4. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 5. Flags
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal settings")
	}

	return &s, nil
}

func loadOptional(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to load settings from %s", path).
			WithDetail("path", path)
	}
	return nil
}

// envKey maps BULKOPS_PROVISION__DEFAULT_TEMPLATE to provision.default_template
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Describe returns a one-line summary of where settings came from, for debug logs
func Describe(root, configFile string) string {
	repo := configFile
	if repo == "" {
		repo = filepath.Join(root, RepoConfigFile)
	}
	return fmt.Sprintf("defaults < %s < %s < %s* < flags", UserConfigPath(), repo, EnvPrefix)
}
