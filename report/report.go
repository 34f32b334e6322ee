// Package report surfaces verdicts as they are produced. Three policies
// share one printer: verbose prints everything and never aborts, grouped
// adds lazy directory headers and trims passing output, fail-fast aborts
// the run at the first non-passing verdict.
package report

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cosec-lang/ctest/model"
)

// ErrAbort is returned by the fail-fast policy when a verdict other than
// Passed is reported. The driver stops launching tests and exits non-zero.
var ErrAbort = errors.New("aborting on first failure")

// Mode selects a reporting policy.
type Mode uint8

const (
	ModeVerbose Mode = iota
	ModeGrouped
	ModeFailFast
)

// ParseMode maps the --mode flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "verbose":
		return ModeVerbose, nil
	case "grouped":
		return ModeGrouped, nil
	case "fail-fast":
		return ModeFailFast, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want verbose, grouped or fail-fast)", s)
	}
}

// Policy consumes verdicts in discovery order. Report returns ErrAbort when
// the run must stop immediately.
type Policy interface {
	Report(v model.Verdict) error
	Summary() model.Summary
}

// New builds the policy for mode, writing result lines to out. Styling is
// disabled when color is false.
func New(mode Mode, out io.Writer, color bool) Policy {
	p := printer{out: out, styles: newStyles(color)}
	switch mode {
	case ModeGrouped:
		return &groupedPolicy{printer: p}
	case ModeFailFast:
		return &failFastPolicy{printer: p}
	default:
		return &verbosePolicy{printer: p}
	}
}

type styles struct {
	pass   lipgloss.Style
	fail   lipgloss.Style
	header lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{pass: plain, fail: plain, header: plain}
	}
	return styles{
		pass:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		fail:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		header: lipgloss.NewStyle().Bold(true),
	}
}

// printer holds the state shared by all policies.
type printer struct {
	out     io.Writer
	styles  styles
	summary model.Summary
	lastDir string
}

func (p *printer) Summary() model.Summary {
	return p.summary
}

// headerFor prints a directory header the first time a directory yields a
// verdict. Depth-first discovery order guarantees each directory's tests
// arrive contiguously, so a change of directory is a new group.
func (p *printer) headerFor(v model.Verdict) {
	dir := filepath.Dir(v.Path)
	if dir == p.lastDir {
		return
	}
	p.lastDir = dir
	fmt.Fprintf(p.out, "%s\n", p.styles.header.Render(dir+":"))
}

// line prints the per-test result line and, on failure, the failure detail.
func (p *printer) line(v model.Verdict) {
	p.summary.Add(v)
	marker := p.styles.pass.Render("PASSED")
	if !v.Passed() {
		marker = p.styles.fail.Render("FAILED")
	}
	fmt.Fprintf(p.out, "Test '%s': %s\n", v.Path, marker)
	if !v.Passed() {
		p.detail(v)
	}
}

func (p *printer) detail(v model.Verdict) {
	switch v.Kind {
	case model.VerdictMissingExpectation:
		fmt.Fprintf(p.out, "\t%s\n", v.Detail)
	case model.VerdictStageFailed:
		fmt.Fprintf(p.out, "\tFailed to %s: %s\n", v.Stage, v.Detail)
		p.output(v.Output)
	case model.VerdictStatusMismatch:
		fmt.Fprintf(p.out, "\tExpected return code: %d\n", v.Expected)
		fmt.Fprintf(p.out, "\tGot return code: %d\n", v.Actual)
		p.output(v.Output)
	}
}

func (p *printer) output(text string) {
	if text == "" {
		return
	}
	fmt.Fprintf(p.out, "\tOutput:\n")
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintf(p.out, "\t%s\n", line)
	}
}

type verbosePolicy struct {
	printer
}

func (p *verbosePolicy) Report(v model.Verdict) error {
	p.line(v)
	if v.Passed() {
		p.output(v.Output)
	}
	return nil
}

type groupedPolicy struct {
	printer
}

func (p *groupedPolicy) Report(v model.Verdict) error {
	p.headerFor(v)
	p.line(v)
	return nil
}

type failFastPolicy struct {
	printer
}

func (p *failFastPolicy) Report(v model.Verdict) error {
	p.headerFor(v)
	p.line(v)
	if !v.Passed() {
		return ErrAbort
	}
	return nil
}
