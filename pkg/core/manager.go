package core

import (
	"context"
	"time"

	"github.com/davidkims/friendly-octo-lamp/pkg/errors"
	"github.com/davidkims/friendly-octo-lamp/pkg/logging"
	"github.com/davidkims/friendly-octo-lamp/pkg/oplog"
	"github.com/davidkims/friendly-octo-lamp/pkg/permissions"
	"github.com/davidkims/friendly-octo-lamp/pkg/provision"
	"github.com/davidkims/friendly-octo-lamp/pkg/scaffold"
	"github.com/davidkims/friendly-octo-lamp/pkg/types"
)

// DefaultTarget is used when ApplyPermissions gets no targets
const DefaultTarget = "."

// Options configures a Manager
type Options struct {
	Run         types.RunContext
	Templates   types.TemplateConfig
	Permissions types.PermissionConfig

	// Store persists the operation log (required unless every run is dry)
	Store oplog.Store
	// Writer produces the auxiliary files (required for CreatePermissionFiles)
	Writer scaffold.Writer

	// Marker is the placeholder file name for empty directories
	Marker string
	// Owner is the CODEOWNERS owner
	Owner string

	// Clock stamps records; defaults to time.Now
	Clock func() time.Time
}

// Manager runs bulk operations against one root
type Manager struct {
	opts Options
	log  *oplog.Log
}

// NewManager creates a manager with an empty operation log
func NewManager(opts Options) *Manager {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Manager{opts: opts, log: oplog.New()}
}

// Run returns the run context the manager acts on
func (m *Manager) Run() types.RunContext {
	return m.opts.Run
}

// Records returns the operation log so far
func (m *Manager) Records() []types.OperationRecord {
	return m.log.Records()
}

// CreateDirectories provisions template followed by customDirs
func (m *Manager) CreateDirectories(template, customDirs string) (*types.ProvisionResult, error) {
	logger := logging.GetLogger("core")
	logger.Info().Str("template", template).Msg("Creating directories for template")

	result, err := provision.CreateDirectories(m.opts.Run, provision.Options{
		Template:   template,
		CustomDirs: customDirs,
		Marker:     m.opts.Marker,
	}, m.opts.Templates)
	if err != nil {
		return result, err
	}

	created := result.Created
	if created == nil {
		created = []string{}
	}
	m.log.Append(types.OperationRecord{
		Operation:  types.OperationCreateDirectories,
		Template:   template,
		CustomDirs: provision.SplitCustom(customDirs),
		Created:    created,
		Failed:     result.Failed,
		DryRun:     result.DryRun,
		Timestamp:  m.opts.Clock(),
	})
	return result, nil
}

// ApplyPermissions applies the named level to every target, "." if none
func (m *Manager) ApplyPermissions(level string, targets []string) (*types.PermissionResult, error) {
	logger := logging.GetLogger("core")

	profile, ok := m.opts.Permissions.Profile(level)
	if !ok {
		logger.Error().Str("level", level).Msg("Permission level not found")
		return &types.PermissionResult{Level: level, DryRun: m.opts.Run.DryRun},
			errors.Newf(errors.ErrPermissionLevelNotFound, "permission level %q not found", level).
				WithDetail("level", level).
				WithDetail("available", m.opts.Permissions.Names())
	}

	if len(targets) == 0 {
		targets = []string{DefaultTarget}
	}

	logger.Info().Str("level", level).Strs("targets", targets).Msg("Applying permissions")
	result := permissions.Apply(m.opts.Run, targets, profile, m.opts.Permissions.Patterns)

	var failed []string
	for _, c := range result.Failures() {
		failed = append(failed, c.Path)
	}

	m.log.Append(types.OperationRecord{
		Operation:       types.OperationApplyPermissions,
		PermissionLevel: level,
		TargetDirs:      targets,
		Changed:         result.Succeeded(),
		Failed:          failed,
		DryRun:          result.DryRun,
		Timestamp:       m.opts.Clock(),
	})
	return result, nil
}

// CreatePermissionFiles writes the auxiliary repository files. A write
// failure is logged and recorded, not returned.
func (m *Manager) CreatePermissionFiles(ctx context.Context) (*types.ScaffoldResult, error) {
	logger := logging.GetLogger("core")
	logger.Info().Msg("Creating permission and configuration files")

	result, err := scaffold.CreateFiles(ctx, m.opts.Run, m.opts.Writer, scaffold.Options{Owner: m.opts.Owner})
	if errors.IsErrorCode(err, errors.ErrConfigInvalid) {
		return result, err
	}

	rec := types.OperationRecord{
		Operation: types.OperationCreatePermissionFiles,
		Files:     result.Files,
		DryRun:    result.DryRun,
		Timestamp: m.opts.Clock(),
	}
	if err != nil {
		result.Err = err
		rec.Failed = result.Files
	}
	m.log.Append(rec)
	return result, nil
}

// BulkRequest selects what BulkSetup provisions
type BulkRequest struct {
	Template        string
	CustomDirs      string
	PermissionLevel string
	Targets         []string
}

// BulkResult collects the results of every step that ran
type BulkResult struct {
	Directories *types.ProvisionResult
	Permissions *types.PermissionResult
	Files       *types.ScaffoldResult
}

// BulkSetup creates directories, applies permissions and writes the
// auxiliary files, returning the first error once all three have run
func (m *Manager) BulkSetup(ctx context.Context, req BulkRequest) (*BulkResult, error) {
	done := logging.LogOperationStart(logging.GetLogger("core"), "bulk-setup")
	defer done()

	var (
		out      BulkResult
		firstErr error
	)
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	var err error
	out.Directories, err = m.CreateDirectories(req.Template, req.CustomDirs)
	keep(err)
	out.Permissions, err = m.ApplyPermissions(req.PermissionLevel, req.Targets)
	keep(err)
	out.Files, err = m.CreatePermissionFiles(ctx)
	keep(err)

	return &out, firstErr
}

// SaveOperationLog persists the log, or only reports it under dry-run
func (m *Manager) SaveOperationLog() error {
	return oplog.Persist(m.log, m.opts.Store, m.opts.Run.DryRun)
}
