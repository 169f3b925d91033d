package ui

import (
	"bytes"
	"os"
	"testing"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/stretchr/testify/assert"
)

func TestConsoleNotices(t *testing.T) {
	tests := []struct {
		name     string
		show     func(c *Console)
		expected string
	}{
		{
			name:     "info",
			show:     func(c *Console) { c.Info("LLM commit message generated.") },
			expected: "[OK] LLM commit message generated.\n",
		},
		{
			name:     "warning",
			show:     func(c *Console) { c.Warn("No staged changes found.") },
			expected: "Warning: No staged changes found.\n",
		},
		{
			name:     "error",
			show:     func(c *Console) { c.Error("Git is not available.") },
			expected: "Error: Git is not available.\n",
		},
		{
			name:     "error already labelled",
			show:     func(c *Console) { c.Error("Error: backend exploded") },
			expected: "Error: backend exploded\n",
		},
		{
			name:     "title",
			show:     func(c *Console) { c.Title("Providers") },
			expected: "Providers\n",
		},
		{
			name:     "muted",
			show:     func(c *Console) { c.Muted("model: gpt-4.1") },
			expected: "model: gpt-4.1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			c := NewConsole(&buf, false)
			tt.show(c)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestConsoleWithColorKeepsText(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, true)
	c.Error("boom")
	assert.Contains(t, buf.String(), "Error: boom")
}

// current reads the accumulated progress of p.
func current(p *ProgressBar) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func TestFraction(t *testing.T) {
	tests := []struct {
		current  int
		expected float64
	}{
		{-5, 0},
		{0, 0},
		{10, 0.1},
		{40, 0.4},
		{100, 1},
		{150, 1},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, fraction(tt.current), 1e-9, "current=%d", tt.current)
	}
}

func newTestModel() progressModel {
	return progressModel{
		spinner:  spinner.New(),
		progress: progress.New(progress.WithoutPercentage()),
		title:    "Generating commit message",
	}
}

func TestProgressModelUpdate(t *testing.T) {
	m := newTestModel()

	updated, cmd := m.Update(progressUpdateMsg{current: 40})
	assert.Nil(t, cmd)
	assert.Equal(t, 40, updated.(progressModel).current)
	assert.Contains(t, updated.View(), "Generating commit message")

	quit, cmd := updated.Update(progressQuitMsg{})
	assert.NotNil(t, cmd)
	assert.True(t, quit.(progressModel).quitting)
	assert.Empty(t, quit.View())
}

func TestProgressBarAccumulates(t *testing.T) {
	p := NewProgressBar(&bytes.Buffer{})

	// Reports before Start are tracked but not rendered.
	p.Report(10)
	p.Report(30)
	assert.Equal(t, 40, current(p))

	p.Report(100)
	assert.Equal(t, ProgressTotal, current(p))
}

func TestProgressBarStartStop(t *testing.T) {
	p := NewProgressBar(&bytes.Buffer{})

	p.Start("Generating commit message")
	assert.Equal(t, 0, current(p))
	p.Start("ignored while running")

	p.Report(10)
	p.Report(30)
	p.Report(50)
	p.Report(10)
	assert.Equal(t, 100, current(p))

	p.Stop()
	// Stopping twice is harmless.
	p.Stop()
}

func TestStopWithoutStart(t *testing.T) {
	p := NewProgressBar(&bytes.Buffer{})
	p.Stop()
	assert.Equal(t, 0, current(p))
}

func TestNoopProgress(t *testing.T) {
	var p NoopProgress
	p.Start("title")
	p.Report(50)
	p.Stop()
}

func TestIsTerminalOnRegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	assert.False(t, IsTerminal(f))
}
