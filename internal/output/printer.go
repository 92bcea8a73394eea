package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles holds the lipgloss styles used for summaries.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Label   lipgloss.Style
	Dim     lipgloss.Style
}

// ColorStyles returns styles for a color terminal.
func ColorStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A3E635")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#A3E635")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#FACC15")),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("#4B5563")),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Label:   lipgloss.NewStyle(),
		Dim:     lipgloss.NewStyle(),
	}
}

// Printer writes human-readable summaries. Write errors are ignored, as
// this is console output.
type Printer struct {
	out    io.Writer
	styles Styles
	color  bool
}

// NewPrinter returns a Printer that colors output only when out is a
// terminal and NO_COLOR is unset.
func NewPrinter(out io.Writer) *Printer {
	color := IsTTY(out) && os.Getenv("NO_COLOR") == ""
	styles := PlainStyles()
	if color {
		styles = ColorStyles()
	}
	return &Printer{out: out, styles: styles, color: color}
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Line prints a plain line.
func (p *Printer) Line(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

// Dim prints a de-emphasised line.
func (p *Printer) Dim(format string, args ...any) {
	p.render(p.styles.Dim, format, args...)
}

// Header prints a section header preceded by a blank line.
func (p *Printer) Header(format string, args ...any) {
	_, _ = fmt.Fprintln(p.out)
	p.render(p.styles.Header, format, args...)
}

// Success prints a success line.
func (p *Printer) Success(format string, args ...any) {
	p.render(p.styles.Success, format, args...)
}

// Warning prints a warning line.
func (p *Printer) Warning(format string, args ...any) {
	p.render(p.styles.Warning, "warning: "+format, args...)
}

// KeyValue prints "label: value" with the label styled.
func (p *Printer) KeyValue(label string, value any) {
	label += ":"
	if p.color {
		label = p.styles.Label.Render(label)
	}
	_, _ = fmt.Fprintf(p.out, "%s %v\n", label, value)
}

func (p *Printer) render(style lipgloss.Style, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.color {
		msg = style.Render(msg)
	}
	_, _ = fmt.Fprintln(p.out, msg)
}
