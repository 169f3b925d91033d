package ui

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ProgressTotal is the amount a finished run reports.
const ProgressTotal = 100

// stopTimeout bounds how long Stop waits for the program to exit.
const stopTimeout = time.Second

// ProgressBar shows a titled spinner and bar while a run is in flight.
type ProgressBar struct {
	mu      sync.Mutex
	out     io.Writer
	current int
	program *tea.Program
	done    chan struct{}
}

// progressModel is the Bubble Tea model for the progress bar.
type progressModel struct {
	spinner  spinner.Model
	progress progress.Model
	title    string
	current  int
	quitting bool
}

// progressUpdateMsg updates progress state.
type progressUpdateMsg struct {
	current int
}

// progressQuitMsg signals quit.
type progressQuitMsg struct{}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressUpdateMsg:
		m.current = msg.current
		return m, nil
	case progressQuitMsg:
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.spinner.View())
	sb.WriteString(" ")
	sb.WriteString(m.progress.ViewAs(fraction(m.current)))
	sb.WriteString(" ")
	sb.WriteString(m.title)
	return sb.String()
}

func fraction(current int) float64 {
	if current <= 0 {
		return 0
	}
	if current >= ProgressTotal {
		return 1
	}
	return float64(current) / ProgressTotal
}

// NewProgressBar creates a bar that renders to out once started.
func NewProgressBar(out io.Writer) *ProgressBar {
	return &ProgressBar{out: out}
}

// Start shows the bar with title. A bar that is already running is left alone.
func (p *ProgressBar) Start(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.program != nil {
		return
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	prog := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(20),
		progress.WithoutPercentage(),
	)

	model := progressModel{
		spinner:  sp,
		progress: prog,
		title:    title,
	}

	p.current = 0
	p.done = make(chan struct{})
	p.program = tea.NewProgram(model,
		tea.WithOutput(p.out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	program, done := p.program, p.done
	go func() {
		defer close(done)
		_, _ = program.Run()
	}()
}

// Report advances the bar by increment, capped at ProgressTotal.
func (p *ProgressBar) Report(increment int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current += increment
	if p.current > ProgressTotal {
		p.current = ProgressTotal
	}
	if p.program != nil {
		p.program.Send(progressUpdateMsg{current: p.current})
	}
}

// Stop removes the bar and waits for its program to exit.
func (p *ProgressBar) Stop() {
	p.mu.Lock()
	program, done := p.program, p.done
	p.program, p.done = nil, nil
	p.mu.Unlock()

	if program == nil {
		return
	}

	program.Send(progressQuitMsg{})
	select {
	case <-done:
	case <-time.After(stopTimeout):
		program.Kill()
		<-done
	}
}

// NoopProgress discards progress; used with --no-progress or when stderr is
// not a terminal.
type NoopProgress struct{}

func (NoopProgress) Start(string) {}
func (NoopProgress) Report(int)   {}
func (NoopProgress) Stop()        {}
