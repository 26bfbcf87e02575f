package config

import (
	"fmt"
	"sort"

	"github.com/davidkims/friendly-octo-lamp/pkg/rules"
	"github.com/davidkims/friendly-octo-lamp/pkg/types"
)

// Severity of a validation finding
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one validation result
type Finding struct {
	Severity Severity
	Subject  string
	Message  string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s: %s", f.Severity, f.Subject, f.Message)
}

// Validate checks the documents for problems that would surface during a
// run. Errors make a level or template unusable; warnings point at
// configuration that has no effect.
func Validate(docs *Documents) []Finding {
	var findings []Finding

	for _, err := range docs.Errors {
		findings = append(findings, Finding{SeverityError, "config", err.Error()})
	}

	for _, name := range docs.Templates.Names() {
		tmpl, _ := docs.Templates.Template(name)
		if len(tmpl.Directories) == 0 {
			findings = append(findings, Finding{SeverityWarning, "template " + name, "has no directories"})
		}
	}

	categories := make(map[string]bool)
	for _, c := range docs.Permissions.Patterns {
		categories[c.Name] = true
		if len(c.Patterns) == 0 {
			findings = append(findings, Finding{SeverityWarning, "pattern " + c.Name, "has no patterns"})
		}
	}

	for _, name := range docs.Permissions.Names() {
		profile, _ := docs.Permissions.Profile(name)
		subject := "level " + name

		if _, ok := profile.DefaultFile(); !ok {
			findings = append(findings, Finding{SeverityError, subject, "missing " + types.DefaultFileKey})
		}

		keys := make([]string, 0, len(profile.Modes))
		for k := range profile.Modes {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, key := range keys {
			if _, err := rules.ParseMode(profile.Modes[key]); err != nil {
				findings = append(findings, Finding{SeverityError, subject, fmt.Sprintf("%s: %v", key, err)})
			}
			if key != types.DefaultFileKey && key != types.DefaultDirKey && !categories[key] {
				findings = append(findings, Finding{SeverityWarning, subject,
					fmt.Sprintf("%s is not a file pattern category and is never used", key)})
			}
		}
	}

	return findings
}

// HasErrors reports whether any finding is an error
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}
