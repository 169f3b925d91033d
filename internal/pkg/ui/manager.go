// Package ui renders notices, progress and the setup wizard for llm-commit.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// styles holds the lipgloss styles for UI rendering.
type styles struct {
	title      lipgloss.Style
	success    lipgloss.Style
	warning    lipgloss.Style
	errorStyle lipgloss.Style
	info       lipgloss.Style
	muted      lipgloss.Style
}

func newStyles(colorEnabled bool) *styles {
	if !colorEnabled {
		return &styles{
			title:      lipgloss.NewStyle(),
			success:    lipgloss.NewStyle(),
			warning:    lipgloss.NewStyle(),
			errorStyle: lipgloss.NewStyle(),
			info:       lipgloss.NewStyle(),
			muted:      lipgloss.NewStyle(),
		}
	}

	return &styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")),
		warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")),
		errorStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),
		muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
	}
}

// Console shows user notices on a terminal stream.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	styles *styles
}

// NewConsole creates a Console writing to out.
func NewConsole(out io.Writer, colorEnabled bool) *Console {
	return &Console{
		out:    out,
		styles: newStyles(colorEnabled),
	}
}

// Info shows an information notice.
func (c *Console) Info(message string) {
	c.print(c.styles.success, "[OK] ", message)
}

// Warn shows a warning notice.
func (c *Console) Warn(message string) {
	c.print(c.styles.warning, "Warning: ", message)
}

// Error shows an error notice. Messages that already start with "Error:"
// are not prefixed again.
func (c *Console) Error(message string) {
	prefix := "Error: "
	if strings.HasPrefix(message, "Error:") {
		prefix = ""
	}
	c.print(c.styles.errorStyle, prefix, message)
}

// Title prints a heading, used by listings such as `providers`.
func (c *Console) Title(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, c.styles.title.Render(text))
}

// Muted prints secondary text.
func (c *Console) Muted(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, c.styles.muted.Render(text))
}

func (c *Console) print(style lipgloss.Style, prefix, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, style.Render(prefix+message))
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
