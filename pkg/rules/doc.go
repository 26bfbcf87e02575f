// Package rules decides which permission mode a path receives.
//
// # Pattern Conventions
//
// Patterns are grouped into named categories, evaluated in configuration
// order. A pattern is reduced to a literal by removing every '*', and it
// matches when that literal is a suffix of the path or appears anywhere in
// it:
//
//   - `*.sh` - matches "run.sh" and also "run.sh.bak"
//   - `.env` - plain substring, matches ".env.local"
//   - `secrets/` - matches anything under a "secrets/" path segment
//
// This is looser than glob matching. Existing configurations rely on it.
//
// # Resolution
//
// Directories always receive the profile's default_dir (755 when absent).
// Files receive the mode of the first matching category if the profile has an
// entry with that category's name, otherwise default_file.
package rules
