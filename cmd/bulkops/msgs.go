package bulkops

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort                  = "Bulk directory and permission management"
	MsgCreateDirectoriesShort     = "Create the directories of a template"
	MsgCreatePermissionFilesShort = "Write .gitattributes, extend .gitignore and write CODEOWNERS"
	MsgUpdatePermissionsShort     = "Apply a permission level to file trees"
	MsgBulkSetupShort             = "Create directories, apply permissions and write repository files"
	MsgListShort                  = "List directory templates and permission levels"
	MsgValidateShort              = "Check the template and permission configuration"
	MsgConfigShort                = "Print the effective settings as TOML"
	MsgVersionShort               = "Print version information"

	// Error messages
	MsgErrRoot          = "failed to resolve root: %w"
	MsgErrSettings      = "failed to load settings: %w"
	MsgErrInvalidConfig = "configuration has errors"

	// Flag descriptions
	MsgFlagVerbose         = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun          = "Preview changes without executing them"
	MsgFlagRoot            = "Repository root to operate on (default: current directory)"
	MsgFlagConfig          = "Settings file to use instead of .github/bulk-ops/bulkops.toml"
	MsgFlagTemplate        = "Directory template (default from settings, \"standard\")"
	MsgFlagCustomDirs      = "Extra directories, comma separated"
	MsgFlagPermissionLevel = "Permission level (default from settings, \"standard\")"
	MsgFlagOwner           = "CODEOWNERS owner (default from settings)"
	MsgFlagMarker          = "Marker file for empty directories, \"-\" for none (default from settings)"

	MsgVersionFormat = "bulkops version %s\n  commit: %s\n  built:  %s\n"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/update-permissions-long.txt
	msgUpdatePermissionsLongRaw string
	MsgUpdatePermissionsLong    = strings.TrimSpace(msgUpdatePermissionsLongRaw)

	//go:embed msgs/update-permissions-example.txt
	msgUpdatePermissionsExampleRaw string
	MsgUpdatePermissionsExample    = strings.TrimSpace(msgUpdatePermissionsExampleRaw)

	//go:embed msgs/bulk-setup-example.txt
	msgBulkSetupExampleRaw string
	MsgBulkSetupExample    = strings.TrimSpace(msgBulkSetupExampleRaw)
)

var (
	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
