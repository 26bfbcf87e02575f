// Package core sequences the bulk operations of a run.
//
// A Manager owns one run: the run context (root, dry-run switch and
// filesystem), the parsed template documents and the operation log. Each
// verb it exposes delegates the actual work:
//
//   - CreateDirectories to package provision
//   - ApplyPermissions to package permissions, which walks the targets and
//     resolves modes through package rules
//   - CreatePermissionFiles to package scaffold
//
// # Operation log
//
// Every sub-operation that runs appends exactly one record to the log, in
// execution order. A verb that cannot start because its template or
// permission level does not exist appends nothing and returns an error
// carrying ErrTemplateNotFound or ErrPermissionLevelNotFound. Failures on
// individual paths never surface as errors; they are logged and listed in
// the record and in the returned result.
//
// The log is written once, by SaveOperationLog, at the end of the run. Under
// dry-run it is not written at all.
//
// # Bulk setup
//
// BulkSetup runs all three verbs in the order directories, permissions,
// files. A lookup failure in one step does not stop the later steps; the
// first such error is returned once all steps have run.
package core
