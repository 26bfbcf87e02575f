package bulkops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/davidkims/friendly-octo-lamp/internal/version"
	"github.com/davidkims/friendly-octo-lamp/pkg/config"
	"github.com/davidkims/friendly-octo-lamp/pkg/core"
	"github.com/davidkims/friendly-octo-lamp/pkg/errors"
	"github.com/davidkims/friendly-octo-lamp/pkg/filesystem"
	"github.com/davidkims/friendly-octo-lamp/pkg/logging"
	"github.com/davidkims/friendly-octo-lamp/pkg/oplog"
	"github.com/davidkims/friendly-octo-lamp/pkg/output"
	"github.com/davidkims/friendly-octo-lamp/pkg/synthfs"
	"github.com/davidkims/friendly-octo-lamp/pkg/types"
)

// app holds the global flags and what PersistentPreRunE derives from them
type app struct {
	verbosity  int
	dryRun     bool
	root       string
	configFile string

	settings *config.Settings
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "bulkops",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&a.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVar(&a.root, "root", "", MsgFlagRoot)
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", MsgFlagConfig)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newCreateDirectoriesCmd(a))
	rootCmd.AddCommand(newCreatePermissionFilesCmd(a))
	rootCmd.AddCommand(newUpdatePermissionsCmd(a))
	rootCmd.AddCommand(newBulkSetupCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newValidateCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// setup resolves the root, loads settings and configures logging. The
// execution log file is only written on real runs.
func (a *app) setup(cmd *cobra.Command) error {
	root := a.root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			logging.SetupLogger(a.verbosity, "")
			return fmt.Errorf(MsgErrRoot, err)
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		logging.SetupLogger(a.verbosity, "")
		return fmt.Errorf(MsgErrRoot, err)
	}
	a.root = root

	settings, err := config.LoadSettings(root, a.configFile, flagOverrides(cmd))
	if err != nil {
		logging.SetupLogger(a.verbosity, "")
		return fmt.Errorf(MsgErrSettings, err)
	}
	a.settings = settings

	logFile := ""
	if !a.dryRun {
		logFile = settings.ExecutionLogPath(root)
	}
	logging.SetupLogger(a.verbosity, logFile)

	log.Debug().
		Str("command", cmd.Name()).
		Str("root", root).
		Bool("dryRun", a.dryRun).
		Str("settings", config.Describe(root, a.configFile)).
		Msg("Command started")
	return nil
}

// settingFlags maps command flags onto the settings keys they override
var settingFlags = map[string]string{
	"template":         "provision.default_template",
	"marker":           "provision.marker",
	"permission-level": "permissions.default_level",
	"owner":            "scaffold.codeowners_owner",
}

// flagOverrides collects the setting flags given on the command line. Empty
// values leave the setting alone.
func flagOverrides(cmd *cobra.Command) map[string]interface{} {
	overrides := make(map[string]interface{})
	for name, key := range settingFlags {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed || f.Value.String() == "" {
			continue
		}
		overrides[key] = f.Value.String()
	}
	return overrides
}

func (a *app) runContext() types.RunContext {
	return types.RunContext{Root: a.root, DryRun: a.dryRun, FS: filesystem.NewOS()}
}

func (a *app) documents(rc types.RunContext) *config.Documents {
	return config.LoadDocuments(rc.FS, rc.Root, a.settings)
}

// manager builds a Manager over freshly loaded documents
func (a *app) manager() *core.Manager {
	rc := a.runContext()
	docs := a.documents(rc)

	return core.NewManager(core.Options{
		Run:         rc,
		Templates:   docs.Templates,
		Permissions: docs.Permissions,
		Store:       oplog.NewFileStore(rc.FS, a.settings.OperationLogPath(rc.Root)),
		Writer:      synthfs.NewExecutor(rc.Root, rc.FS),
		Marker:      a.settings.Provision.Marker,
		Owner:       a.settings.Scaffold.CodeownersOwner,
	})
}

func (a *app) renderer(cmd *cobra.Command) *output.Renderer {
	noColor := os.Getenv("NO_COLOR") != "" || !output.IsTerminal(os.Stdout)
	return output.NewRenderer(cmd.OutOrStdout(), noColor)
}

// finish saves the operation log, prints the summary and returns runErr.
// Only a failed lookup or an unusable configuration ends the run in error.
func (a *app) finish(cmd *cobra.Command, m *core.Manager, summary output.Summary, runErr error) error {
	if err := m.SaveOperationLog(); err != nil {
		log.Error().Err(err).Msg("Failed to save operation log")
	}

	summary.DryRun = a.dryRun
	if err := a.renderer(cmd).RenderSummary(summary); err != nil {
		return err
	}

	if runErr != nil {
		return runErr
	}
	log.Info().Msg("Bulk operations completed successfully")
	return nil
}


func newCreateDirectoriesCmd(a *app) *cobra.Command {
	var customDirs string

	cmd := &cobra.Command{
		Use:     "create-directories",
		Short:   MsgCreateDirectoriesShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := a.manager()
			result, err := m.CreateDirectories(a.settings.Provision.DefaultTemplate, customDirs)
			return a.finish(cmd, m, output.Summary{Directories: presentProvision(result, err)}, err)
		},
	}
	cmd.Flags().String("template", "", MsgFlagTemplate)
	cmd.Flags().StringVar(&customDirs, "custom-dirs", "", MsgFlagCustomDirs)
	cmd.Flags().String("marker", "", MsgFlagMarker)
	return cmd
}

func newCreatePermissionFilesCmd(a *app) *cobra.Command {

	cmd := &cobra.Command{
		Use:     "create-permission-files",
		Short:   MsgCreatePermissionFilesShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := a.manager()
			result, err := m.CreatePermissionFiles(cmd.Context())
			if err != nil {
				result = nil
			}
			return a.finish(cmd, m, output.Summary{Files: result}, err)
		},
	}
	cmd.Flags().String("owner", "", MsgFlagOwner)
	return cmd
}

func newUpdatePermissionsCmd(a *app) *cobra.Command {

	cmd := &cobra.Command{
		Use:     "update-permissions [targets...]",
		Short:   MsgUpdatePermissionsShort,
		Long:    MsgUpdatePermissionsLong,
		Example: MsgUpdatePermissionsExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := a.manager()
			result, err := m.ApplyPermissions(a.settings.Permissions.DefaultLevel, args)
			if err != nil {
				result = nil
			}
			return a.finish(cmd, m, output.Summary{Permissions: result}, err)
		},
	}
	cmd.Flags().String("permission-level", "", MsgFlagPermissionLevel)
	return cmd
}

func newBulkSetupCmd(a *app) *cobra.Command {
	var customDirs string

	cmd := &cobra.Command{
		Use:     "bulk-setup",
		Short:   MsgBulkSetupShort,
		Example: MsgBulkSetupExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := a.manager()
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			out, err := m.BulkSetup(ctx, core.BulkRequest{
				Template:        a.settings.Provision.DefaultTemplate,
				CustomDirs:      customDirs,
				PermissionLevel: a.settings.Permissions.DefaultLevel,
			})

			summary := output.Summary{Files: out.Files}
			summary.Directories = presentProvision(out.Directories, nil)
			if out.Permissions != nil && len(out.Permissions.Roots) > 0 {
				summary.Permissions = out.Permissions
			}
			return a.finish(cmd, m, summary, err)
		},
	}
	cmd.Flags().String("template", "", MsgFlagTemplate)
	cmd.Flags().StringVar(&customDirs, "custom-dirs", "", MsgFlagCustomDirs)
	cmd.Flags().String("marker", "", MsgFlagMarker)
	cmd.Flags().String("permission-level", "", MsgFlagPermissionLevel)
	cmd.Flags().String("owner", "", MsgFlagOwner)
	return cmd
}

// presentProvision hides the result of a provisioning run that never started
func presentProvision(result *types.ProvisionResult, err error) *types.ProvisionResult {
	if err != nil || result == nil || result.Requested == nil {
		return nil
	}
	return result
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			docs := a.documents(a.runContext())
			return a.renderer(cmd).RenderList(docs.Templates, docs.Permissions)
		},
	}
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "validate",
		Short:   MsgValidateShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			findings := config.Validate(a.documents(a.runContext()))
			if err := a.renderer(cmd).RenderFindings(findings); err != nil {
				return err
			}
			if config.HasErrors(findings) {
				return errors.New(errors.ErrConfigInvalid, MsgErrInvalidConfig)
			}
			return nil
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := config.DumpTOML(a.settings)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		// Skip settings and logging setup
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}
