// Package config loads bulkops settings and the YAML template documents.
//
// Settings are layered with koanf: embedded defaults, the user file under
// the XDG config home, the repository file (or --config), BULKOPS_*
// environment variables and finally flag overrides. Keys in environment
// variables use a double underscore between section and key, so
// BULKOPS_PROVISION__MARKER sets provision.marker.
//
// The directory-templates and permission-templates documents are plain YAML
// decoded into types.TemplateConfig and types.PermissionConfig. A document
// that cannot be read or parsed is reported and replaced by an empty one, so
// later lookups fail with a not-found error instead of aborting the run.
package config
