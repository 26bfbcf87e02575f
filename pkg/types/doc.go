// Package types defines the core types and interfaces shared by the bulkops
// packages: the filesystem seam, the run context, the parsed template and
// permission configuration, operation log records and per-operation results.
package types
