package display

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/arthur-debert/dotinstall/pkg/core"
	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/plan"
	"github.com/arthur-debert/dotinstall/pkg/style"
	"github.com/arthur-debert/dotinstall/pkg/types"
	"github.com/pterm/pterm"
)

// Renderer writes human output
type Renderer struct {
	w io.Writer
}

// New creates a renderer writing to w
func New(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

func (r *Renderer) println(s string) {
	_, _ = fmt.Fprintln(r.w, s)
}

// Header prints the run banner: platform, profile and mode
func (r *Renderer) Header(p *plan.Plan, dryRun bool) {
	tmpl := "Installing for [bold]{{platform}}[/bold]"
	if !p.Selector.IsEmpty() {
		tmpl += " [muted]({{selector}})[/muted]"
	}
	if dryRun {
		tmpl += " [warning][dry run][/warning]"
	}
	r.println(style.RenderTemplate(tmpl, map[string]string{
		"platform": p.Platform.String(),
		"selector": p.Selector.String(),
	}))
}

// Start prints the line announcing a step
func (r *Renderer) Start(step plan.Step) {
	r.println(fmt.Sprintf("%s %s", style.InfoStyle.Render(style.ProgressMark), Label(step)))
}

// Result prints how a step ended
func (r *Renderer) Result(res core.Result) {
	st := style.OutcomeStyle(res.Outcome)
	mark := st.Render(style.OutcomeMark(res.Outcome))

	var detail string
	switch res.Outcome {
	case types.OutcomeSkipped:
		detail = style.MutedStyle.Render(res.Step.SkipReason)
	case types.OutcomeFailed:
		detail = style.ErrorStyle.Render(errorLine(res.Err))
	case types.OutcomeInstalled:
		if res.Version != "" {
			detail = style.MutedStyle.Render(res.Version)
		}
		if res.Duration >= time.Second {
			detail = strings.TrimSpace(detail + " " + style.MutedStyle.Render(res.Duration.Round(time.Second).String()))
		}
	}

	line := fmt.Sprintf("  %s %s %s", mark, res.Step.Key, st.Render(string(res.Outcome)))
	if detail != "" {
		line += ": " + detail
	}
	r.println(line)
}

// Summary prints the totals and repeats failures at the end
func (r *Renderer) Summary(s *core.Summary) {
	parts := []string{}
	for _, o := range []types.Outcome{
		types.OutcomeInstalled, types.OutcomePlanned, types.OutcomePresent,
		types.OutcomeSkipped, types.OutcomeFailed,
	} {
		if n := s.Count(o); n > 0 {
			parts = append(parts, style.OutcomeStyle(o).Render(fmt.Sprintf("%d %s", n, o)))
		}
	}
	if len(parts) == 0 {
		r.println(style.MutedStyle.Render("Nothing to install"))
		return
	}
	r.println("")
	r.println(strings.Join(parts, ", "))

	failed := s.Failed()
	if len(failed) == 0 {
		return
	}
	r.println(style.RenderTemplate("[error]{{count}} package(s) failed:[/error]", map[string]string{
		"count": strconv.Itoa(len(failed)),
	}))
	for _, f := range failed {
		r.println(fmt.Sprintf("  %s %s: %s", style.ErrorStyle.Render(style.ErrorMark), f.Step.Key, errorLine(f.Err)))
	}
}

// Plan prints the resolved plan as a table
func (r *Renderer) Plan(p *plan.Plan) error {
	data := pterm.TableData{{"Package", "Name", "Method", "Tags", "Notes"}}
	for _, s := range p.Steps {
		method := style.MethodStyle(s.Method).Render(string(s.Method))
		var notes []string
		if s.Skip {
			method = style.MutedStyle.Render("skip")
			notes = append(notes, s.SkipReason)
		}
		if s.Dependency {
			notes = append(notes, "dependency")
		}
		if s.Platform != "" {
			notes = append(notes, "via "+s.Platform)
		}
		data = append(data, []string{s.Key, s.Name, method, strings.Join(s.Tags, ","), strings.Join(notes, "; ")})
	}

	if err := r.table(data); err != nil {
		return err
	}
	if len(p.Filtered) > 0 {
		r.println(style.RenderTemplate("[muted]{{count}} package(s) not in profile: {{keys}}[/muted]", map[string]string{
			"count": strconv.Itoa(len(p.Filtered)),
			"keys":  strings.Join(p.Filtered, ", "),
		}))
	}
	return nil
}

// Status prints the status table
func (r *Renderer) Status(statuses []core.PackageStatus) error {
	data := pterm.TableData{{"Package", "Method", "State", "Version", "Installed"}}
	for _, s := range statuses {
		state := style.StateStyle(string(s.State)).Sprint(string(s.State))
		if s.Outdated {
			state += style.MutedStyle.Render(" (changed)")
		}
		installed := ""
		if !s.InstalledAt.IsZero() {
			installed = s.InstalledAt.Local().Format("2006-01-02 15:04")
		}
		method := string(s.Step.Method)
		if s.Step.Skip {
			method = "-"
		}
		data = append(data, []string{s.Step.Key, method, state, s.Version, installed})
	}
	return r.table(data)
}

// Methods prints registered methods with their descriptions
func (r *Renderer) Methods(descriptions map[types.Method]string) error {
	methods := make([]types.Method, 0, len(descriptions))
	for m := range descriptions {
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i] < methods[j] })

	data := pterm.TableData{{"Method", "Description"}}
	for _, m := range methods {
		data = append(data, []string{style.MethodStyle(m).Render(string(m)), descriptions[m]})
	}
	return r.table(data)
}

// Error prints a fatal error with its details
func (r *Renderer) Error(err error) {
	problems, _ := errors.GetErrorDetails(err)["problems"].([]string)
	if len(problems) == 0 {
		r.println(style.ErrorStyle.Render("Error: ") + errors.Message(err))
		return
	}

	r.println(style.ErrorStyle.Render("Error: ") + errorLine(err))
	for _, p := range problems {
		r.println("  " + style.MutedStyle.Render(style.InfoMark) + " " + p)
	}
}

func (r *Renderer) table(data pterm.TableData) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	r.println(out)
	return nil
}

// Label names a step the way progress lines show it
func Label(step plan.Step) string {
	return fmt.Sprintf("%s %s", style.Bold(step.Key), style.MethodStyle(step.Method).Render("("+labelDetail(step)+")"))
}

func labelDetail(step plan.Step) string {
	if step.Name != "" && step.Name != step.Key {
		return fmt.Sprintf("%s via %s", step.Name, step.Method)
	}
	return string(step.Method)
}

// errorLine keeps the first line of an error; command output is in the log
func errorLine(err error) string {
	if err == nil {
		return "unknown error"
	}
	line, _, _ := strings.Cut(errors.Message(err), "\n")
	return line
}
