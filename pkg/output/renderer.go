package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/davidkims/friendly-octo-lamp/pkg/config"
	"github.com/davidkims/friendly-octo-lamp/pkg/output/styles"
	"github.com/davidkims/friendly-octo-lamp/pkg/types"
)

// Summary is everything a run produced, any part may be nil
type Summary struct {
	Directories *types.ProvisionResult
	Permissions *types.PermissionResult
	Files       *types.ScaffoldResult
	DryRun      bool
}

// Renderer writes human readable results
type Renderer struct {
	writer  io.Writer
	noColor bool
}

// NewRenderer creates a renderer. With noColor all styling is dropped.
func NewRenderer(w io.Writer, noColor bool) *Renderer {
	if noColor {
		pterm.DisableStyling()
	}
	return &Renderer{writer: w, noColor: noColor}
}

// IsTerminal reports whether f is an interactive terminal
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *Renderer) style(name, s string) string {
	if r.noColor {
		return s
	}
	return styles.GetStyle(name).Render(s)
}

func (r *Renderer) println(s string) error {
	_, err := fmt.Fprintln(r.writer, s)
	return err
}

// RenderSummary prints one table row per operation that ran, followed by
// the paths that failed
func (r *Renderer) RenderSummary(s Summary) error {
	if s.DryRun {
		if err := r.println(r.style("DryRunBanner", "DRY RUN - nothing was changed")); err != nil {
			return err
		}
	}

	data := pterm.TableData{{"Operation", "Done", "Failed", "Detail"}}
	var failures []string

	if d := s.Directories; d != nil {
		data = append(data, []string{
			string(types.OperationCreateDirectories),
			strconv.Itoa(len(d.Created)),
			strconv.Itoa(len(d.Failed)),
			"template " + d.Template,
		})
		failures = append(failures, d.Failed...)
	}
	if p := s.Permissions; p != nil {
		failed := p.Failures()
		detail := "level " + p.Level
		if len(p.Missing) > 0 {
			detail += ", skipped " + strings.Join(p.Missing, ", ")
		}
		data = append(data, []string{
			string(types.OperationApplyPermissions),
			strconv.Itoa(p.Succeeded()),
			strconv.Itoa(len(failed)),
			detail,
		})
		for _, c := range failed {
			failures = append(failures, fmt.Sprintf("%s: %v", c.Path, c.Err))
		}
	}
	if f := s.Files; f != nil {
		done, failed := len(f.Files), 0
		if f.Err != nil {
			done, failed = 0, len(f.Files)
			failures = append(failures, f.Err.Error())
		}
		data = append(data, []string{
			string(types.OperationCreatePermissionFiles),
			strconv.Itoa(done),
			strconv.Itoa(failed),
			strings.Join(f.Files, ", "),
		})
	}

	if len(data) == 1 {
		return r.println(r.style("Muted", "Nothing to do"))
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	if err := r.println(table); err != nil {
		return err
	}

	if len(failures) == 0 {
		return r.println(r.style("Success", "Done"))
	}
	if err := r.println(r.style("Error", fmt.Sprintf("%d failure(s):", len(failures)))); err != nil {
		return err
	}
	for _, f := range failures {
		if err := r.println("  " + r.style("FilePath", f)); err != nil {
			return err
		}
	}
	return nil
}

// RenderList prints the available templates and permission levels
func (r *Renderer) RenderList(templates types.TemplateConfig, permissions types.PermissionConfig) error {
	if err := r.println(r.style("Header", "Directory templates")); err != nil {
		return err
	}
	if len(templates.Names()) == 0 {
		if err := r.println(r.style("Muted", "  (none)")); err != nil {
			return err
		}
	}
	for _, name := range templates.Names() {
		tmpl, _ := templates.Template(name)
		if err := r.println(fmt.Sprintf("  %s: %s", name, strings.Join(tmpl.Directories, ", "))); err != nil {
			return err
		}
	}

	if err := r.println(r.style("Header", "Permission levels")); err != nil {
		return err
	}
	if len(permissions.Names()) == 0 {
		return r.println(r.style("Muted", "  (none)"))
	}

	data := pterm.TableData{append([]string{"Level", types.DefaultFileKey, types.DefaultDirKey}, permissions.Patterns.Categories()...)}
	for _, name := range permissions.Names() {
		profile, _ := permissions.Profile(name)
		defaultFile, _ := profile.DefaultFile()
		row := []string{name, defaultFile, profile.DefaultDir()}
		for _, category := range permissions.Patterns.Categories() {
			mode, ok := profile.Mode(category)
			if !ok {
				mode = "-"
			}
			row = append(row, mode)
		}
		data = append(data, row)
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	return r.println(table)
}

// RenderFindings prints validation results
func (r *Renderer) RenderFindings(findings []config.Finding) error {
	if len(findings) == 0 {
		return r.println(r.style("Success", "Configuration is valid"))
	}
	for _, f := range findings {
		name := "Warning"
		if f.Severity == config.SeverityError {
			name = "Error"
		}
		line := fmt.Sprintf("%s %s: %s", r.style(name, string(f.Severity)), f.Subject, f.Message)
		if err := r.println(line); err != nil {
			return err
		}
	}
	return nil
}

// RenderError renders an error message with appropriate styling
func (r *Renderer) RenderError(err error) error {
	return r.println(r.style("Error", "Error:") + " " + err.Error())
}
