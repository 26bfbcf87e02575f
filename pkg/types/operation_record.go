package types

import (
	"encoding/json"
	"time"
)

// OperationKind names a sub-operation recorded in the operation log
type OperationKind string

const (
	OperationCreateDirectories     OperationKind = "create_directories"
	OperationApplyPermissions      OperationKind = "apply_permissions"
	OperationCreatePermissionFiles OperationKind = "create_permission_files"
)

// OperationRecord is one entry of the audit trail written at the end of a run
type OperationRecord struct {
	Operation       OperationKind `json:"operation"`
	Template        string        `json:"template,omitempty"`
	CustomDirs      []string      `json:"custom_dirs,omitempty"`
	PermissionLevel string        `json:"permission_level,omitempty"`
	TargetDirs      []string      `json:"target_dirs,omitempty"`
	Created         []string      `json:"created,omitempty"`
	Files           []string      `json:"files,omitempty"`
	Changed         int           `json:"changed,omitempty"`
	Failed          []string      `json:"failed,omitempty"`
	DryRun          bool          `json:"dry_run,omitempty"`
	Timestamp       time.Time     `json:"timestamp"`
}

// MarshalJSON always writes the created list for directory records, as []
// when nothing was created
func (r OperationRecord) MarshalJSON() ([]byte, error) {
	type plain OperationRecord
	if r.Operation != OperationCreateDirectories {
		return json.Marshal(plain(r))
	}
	created := r.Created
	if created == nil {
		created = []string{}
	}
	return json.Marshal(struct {
		plain
		Created []string `json:"created"`
	}{plain(r), created})
}
