// Package output renders run summaries, listings and validation findings
// for the terminal using pterm tables and lipgloss styles.
package output
