package types

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Well-known keys of a permission profile
const (
	DefaultFileKey = "default_file"
	DefaultDirKey  = "default_dir"

	// FallbackDirMode applies when a profile has no default_dir entry
	FallbackDirMode = "755"
)

// DirectoryTemplate is a named, ordered list of relative directories to provision
type DirectoryTemplate struct {
	Name        string
	Directories []string
}

// TemplateSpec is the on-disk shape of a single template
type TemplateSpec struct {
	Directories []string `yaml:"directories"`
}

// TemplateConfig is the parsed directory-templates configuration
type TemplateConfig struct {
	Templates map[string]TemplateSpec `yaml:"templates"`
}

// Template looks up a template by name
func (c TemplateConfig) Template(name string) (DirectoryTemplate, bool) {
	spec, ok := c.Templates[name]
	if !ok {
		return DirectoryTemplate{}, false
	}
	dirs := make([]string, len(spec.Directories))
	copy(dirs, spec.Directories)
	return DirectoryTemplate{Name: name, Directories: dirs}, true
}

// Names returns the template names in sorted order
func (c TemplateConfig) Names() []string {
	return sortedKeys(c.Templates)
}

// ModeTable maps a rule name (default_file, default_dir or a pattern
// category) to an octal mode string such as "755". Values are kept as the
// literal text from the configuration so unquoted 755 and quoted "755" are
// equivalent.
type ModeTable map[string]string

// UnmarshalYAML keeps the scalar text of every value
func (m *ModeTable) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: permission level must be a mapping of rule name to mode", value.Line)
	}
	out := make(ModeTable, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: mode for %q must be a scalar", val.Line, key.Value)
		}
		out[key.Value] = val.Value
	}
	*m = out
	return nil
}

// PermissionProfile is a named permission level
type PermissionProfile struct {
	Name  string
	Modes ModeTable
}

// DefaultDir returns the directory mode, falling back to 755
func (p PermissionProfile) DefaultDir() string {
	if mode, ok := p.Modes[DefaultDirKey]; ok && mode != "" {
		return mode
	}
	return FallbackDirMode
}

// DefaultFile returns the mode for files no pattern claims. A valid profile
// always has one.
func (p PermissionProfile) DefaultFile() (string, bool) {
	mode, ok := p.Modes[DefaultFileKey]
	return mode, ok
}

// Mode returns the mode configured for a rule name
func (p PermissionProfile) Mode(rule string) (string, bool) {
	mode, ok := p.Modes[rule]
	return mode, ok
}

// PatternCategory groups patterns that share a target mode
type PatternCategory struct {
	Name     string
	Patterns []string
}

// PatternRules is the ordered list of pattern categories. Order follows the
// configuration document and decides which category wins.
type PatternRules []PatternCategory

// UnmarshalYAML decodes a mapping while keeping document order
func (r *PatternRules) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: file_patterns must be a mapping of category to pattern list", value.Line)
	}
	out := make(PatternRules, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		var patterns []string
		switch val.Kind {
		case yaml.SequenceNode:
			for _, item := range val.Content {
				if item.Kind != yaml.ScalarNode {
					return fmt.Errorf("line %d: pattern in %q must be a string", item.Line, key.Value)
				}
				patterns = append(patterns, item.Value)
			}
		case yaml.ScalarNode:
			// A bare scalar is a single pattern; null means none
			if val.Tag != "!!null" {
				patterns = []string{val.Value}
			}
		default:
			return fmt.Errorf("line %d: patterns for %q must be a list", val.Line, key.Value)
		}
		out = append(out, PatternCategory{Name: key.Value, Patterns: patterns})
	}
	*r = out
	return nil
}

// Categories returns category names in evaluation order
func (r PatternRules) Categories() []string {
	names := make([]string, len(r))
	for i, c := range r {
		names[i] = c.Name
	}
	return names
}

// PermissionConfig is the parsed permission-templates configuration
type PermissionConfig struct {
	Levels   map[string]ModeTable `yaml:"permission_levels"`
	Patterns PatternRules         `yaml:"file_patterns"`
}

// Profile looks up a permission level by name
func (c PermissionConfig) Profile(name string) (PermissionProfile, bool) {
	modes, ok := c.Levels[name]
	if !ok {
		return PermissionProfile{}, false
	}
	return PermissionProfile{Name: name, Modes: modes}, true
}

// Names returns the permission level names in sorted order
func (c PermissionConfig) Names() []string {
	return sortedKeys(c.Levels)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
