package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	debugStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Output handles styled terminal output.
type Output struct {
	out     io.Writer
	err     io.Writer
	noColor bool
	debug   bool
}

// NewOutput creates an Output writing to stdout and stderr.
func NewOutput() *Output {
	return NewOutputTo(os.Stdout, os.Stderr)
}

// NewOutputTo creates an Output writing to the given streams.
func NewOutputTo(out, err io.Writer) *Output {
	return &Output{out: out, err: err}
}

// SetNoColor disables colored output.
func (o *Output) SetNoColor(v bool) {
	o.noColor = v
}

// SetDebug enables debug lines.
func (o *Output) SetDebug(v bool) {
	o.debug = v
}

// Writer returns the stdout stream.
func (o *Output) Writer() io.Writer {
	return o.out
}

func (o *Output) render(s lipgloss.Style, text string) string {
	if o.noColor {
		return text
	}
	return s.Render(text)
}

// Success prints a success message with a green checkmark.
func (o *Output) Success(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if o.noColor {
		fmt.Fprintf(o.out, "OK %s\n", msg)
		return
	}
	fmt.Fprintf(o.out, "%s %s\n", successStyle.Render("✓"), msg)
}

// Error prints an error message with a red X.
func (o *Output) Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if o.noColor {
		fmt.Fprintf(o.err, "FAIL %s\n", msg)
		return
	}
	fmt.Fprintf(o.err, "%s %s\n", errorStyle.Render("✗"), msg)
}

// Warning prints a warning message with a yellow exclamation.
func (o *Output) Warning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if o.noColor {
		fmt.Fprintf(o.err, "WARN %s\n", msg)
		return
	}
	fmt.Fprintf(o.err, "%s %s\n", warningStyle.Render("!"), msg)
}

// Step prints a progress line.
func (o *Output) Step(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if o.noColor {
		fmt.Fprintf(o.out, "> %s\n", msg)
		return
	}
	fmt.Fprintf(o.out, "%s %s\n", stepStyle.Render("→"), msg)
}

// Info prints an informational message.
func (o *Output) Info(format string, args ...any) {
	fmt.Fprintf(o.out, format+"\n", args...)
}

// Println prints a line to stdout.
func (o *Output) Println(format string, args ...any) {
	fmt.Fprintf(o.out, format+"\n", args...)
}

// Debug prints a debug message to stderr when debug output is enabled.
func (o *Output) Debug(format string, args ...any) {
	if !o.debug {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if o.noColor {
		fmt.Fprintf(o.err, "DEBUG %s\n", msg)
		return
	}
	fmt.Fprintf(o.err, "%s %s\n", debugStyle.Render("[debug]"), msg)
}

// Bold renders s in bold.
func (o *Output) Bold(s string) string { return o.render(boldStyle, s) }

// Dim renders s in a muted color.
func (o *Output) Dim(s string) string { return o.render(dimStyle, s) }

// Accent renders s in the highlight color.
func (o *Output) Accent(s string) string { return o.render(accentStyle, s) }

// Green renders s in the success color.
func (o *Output) Green(s string) string { return o.render(successStyle, s) }

// Table prints a simple aligned table.
func (o *Output) Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = fmt.Sprintf("%-*s", widths[i], h)
	}
	fmt.Fprintln(o.out, o.render(headerStyle, strings.TrimRight(strings.Join(cells, "  "), " ")))

	for _, row := range rows {
		cells = cells[:0]
		for i, cell := range row {
			if i < len(widths) {
				cells = append(cells, fmt.Sprintf("%-*s", widths[i], cell))
			}
		}
		fmt.Fprintln(o.out, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}
