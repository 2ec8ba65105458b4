package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"croissant/internal/batch"
)

// styles holds the lipgloss styles for human output. With color disabled
// every style renders plain text.
type styles struct {
	header lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
	fail   lipgloss.Style
	dim    lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	return styles{
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		ok:     r.NewStyle().Foreground(lipgloss.Color("10")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("11")),
		fail:   r.NewStyle().Foreground(lipgloss.Color("9")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// useColor resolves a color mode for w. "auto" colors only terminals and
// honors NO_COLOR.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// formatReportHuman renders a batch report for the terminal.
func formatReportHuman(report *batch.Report, st styles) string {
	var b strings.Builder

	title := "Batch report"
	if report.Source != "" {
		title += "  " + report.Source
	}
	b.WriteString(st.header.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString(st.dim.Render(fmt.Sprintf("Run:    %s", report.RunID)) + "\n")
	b.WriteString(fmt.Sprintf("Chain:  %s\n", chainLabel(report.Chain)))
	b.WriteString(fmt.Sprintf("Style:  %s", report.Style))
	if report.Strict {
		b.WriteString(" (strict)")
	}
	b.WriteString("\n\n")

	width := 0
	for _, l := range report.Results {
		if len(l.Expr) > width {
			width = len(l.Expr)
		}
	}

	for _, l := range report.Results {
		prefix := fmt.Sprintf("  %4d  %-*s  ", l.Line, width, l.Expr)
		switch l.Status {
		case batch.StatusHandled:
			b.WriteString(prefix + st.ok.Render(l.Output) + "\n")
		case batch.StatusUnhandled:
			b.WriteString(prefix + st.warn.Render("unhandled") + "\n")
		default:
			b.WriteString(prefix + st.fail.Render(l.Code+": "+l.Error) + "\n")
		}
	}
	if len(report.Results) > 0 {
		b.WriteString("\n")
	}

	summary := report.Stats.Summary()
	switch {
	case report.Stats.Failed > 0:
		summary = st.fail.Render(summary)
	case report.Stats.Unhandled > 0:
		summary = st.warn.Render(summary)
	default:
		summary = st.ok.Render(summary)
	}
	b.WriteString(summary + "\n")

	return b.String()
}

func chainLabel(ops []string) string {
	if len(ops) == 0 {
		return "(empty)"
	}
	return strings.Join(ops, " ")
}
