package types

// ProvisionResult reports what CreateDirectories did
type ProvisionResult struct {
	Template string
	// Requested is the resolved relative directory list, template first
	Requested []string
	// Created holds absolute paths, in request order
	Created []string
	// Failed holds absolute paths whose creation raised an error
	Failed []string
	DryRun bool
}

// PermissionChange is the outcome for one visited entry
type PermissionChange struct {
	Path     string
	IsDir    bool
	Mode     string
	Category string
	// Applied is false under dry-run and when Err is set
	Applied bool
	Err     error
}

// PermissionResult reports what ApplyPermissions did
type PermissionResult struct {
	Level   string
	Roots   []string
	Missing []string
	Changes []PermissionChange
	DryRun  bool
}

// Failures returns the changes that could not be applied
func (r *PermissionResult) Failures() []PermissionChange {
	var failed []PermissionChange
	for _, c := range r.Changes {
		if c.Err != nil {
			failed = append(failed, c)
		}
	}
	return failed
}

// Succeeded counts entries that were (or, under dry-run, would be) updated
func (r *PermissionResult) Succeeded() int {
	n := 0
	for _, c := range r.Changes {
		if c.Err == nil {
			n++
		}
	}
	return n
}

// ScaffoldResult reports the auxiliary repository files handled
type ScaffoldResult struct {
	Files  []string
	DryRun bool
	// Err is set when the files could not be written
	Err error
}
