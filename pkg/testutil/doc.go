// Package testutil provides filesystem fixtures for bulkops tests: in-memory
// run contexts, tree builders and an error-injecting FS wrapper.
package testutil
