package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/chronos/clock"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			Width(12)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type watchKeys struct {
	Pause key.Binding
	Reset key.Binding
	Quit  key.Binding
}

func (k watchKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Reset, k.Quit}
}

func (k watchKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultWatchKeys = watchKeys{
	Pause: key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause")),
	Reset: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type tickMsg time.Time

type watchModel struct {
	err      error
	reader   *clock.Reader
	keys     watchKeys
	help     help.Model
	spinner  spinner.Model
	interval time.Duration
	start    clock.Timestamp
	last     clock.Timestamp
	samples  int
	paused   bool
}

func newWatchModel(reader *clock.Reader, interval time.Duration) *watchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = valueStyle

	m := &watchModel{
		reader:   reader,
		keys:     defaultWatchKeys,
		help:     help.New(),
		spinner:  s,
		interval: interval,
	}
	m.reset()
	return m
}

func (m *watchModel) reset() {
	m.samples = 0
	m.start, m.err = m.reader.Now()
	m.last = m.start
}

func (m *watchModel) sample() {
	ts, err := m.reader.Now()
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.last = ts
	m.samples++
}

func (m *watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.tick())
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Reset):
			m.reset()
		}
		return m, nil

	case tickMsg:
		if !m.paused {
			m.sample()
		}
		return m, m.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *watchModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("chronos"))
	b.WriteString(" CLOCK_MONOTONIC ")
	if m.paused {
		b.WriteString(pausedStyle.Render("paused"))
	} else {
		b.WriteString(m.spinner.View())
	}
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteByte('\n')
	}
	row("now", fmt.Sprintf("%.9f s", m.last.Seconds()))
	row("elapsed", m.last.Sub(m.start).String())
	row("samples", fmt.Sprintf("%d", m.samples))
	row("resolution", fmt.Sprintf("%d ns", m.reader.Resolution()))
	row("multiplier", fmt.Sprintf("%g", m.reader.Multiplier()))

	if m.err != nil {
		b.WriteByte('\n')
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func newWatchCmd() *cobra.Command {
	var (
		interval time.Duration
		count    int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Continuously sample the monotonic clock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if interval <= 0 {
				return fmt.Errorf("interval must be positive, got %v", interval)
			}
			reader := clock.Default()
			if !isTerminal(cmd.OutOrStdout()) {
				return watchPlain(cmd, reader, interval, count)
			}
			p := tea.NewProgram(newWatchModel(reader, interval),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()))
			_, err := p.Run()
			return watchExitErr(cmd.Context(), err)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 100*time.Millisecond, "Sampling interval")
	cmd.Flags().IntVar(&count, "count", 10, "Samples to print when stdout is not a terminal (0 = until interrupted)")
	return cmd
}

// watchExitErr treats a program killed by context cancellation (SIGINT,
// SIGTERM) as a clean exit, matching watchPlain.
func watchExitErr(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// watchPlain prints one line per sample: reading and elapsed seconds.
func watchPlain(cmd *cobra.Command, reader *clock.Reader, interval time.Duration, count int) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	start, err := reader.Now()
	if err != nil {
		return err
	}
	printSample(out, start, start)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := 1; count == 0 || n < count; n++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		ts, err := reader.Now()
		if err != nil {
			return err
		}
		printSample(out, ts, start)
	}
	return nil
}

func printSample(w io.Writer, ts, start clock.Timestamp) {
	fmt.Fprintf(w, "%.9f\t%.9f\n", ts.Seconds(), ts.Sub(start).Seconds())
}
