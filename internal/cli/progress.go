package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/raphaelgruber/erdscan/internal/service"
)

// errScanCancelled is returned when the user aborts the progress UI.
var errScanCancelled = errors.New("scan cancelled")

// Theme holds the color scheme for terminal output.
type Theme struct {
	Status  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
	Header  lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Status:  lipgloss.Color("#5FAFD7"), // light blue
	Success: lipgloss.Color("#00D787"), // green
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
	Header:  lipgloss.Color("#D7AF5F"), // sand
}

func (t Theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Status)
}

func (t Theme) completedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

func (t Theme) headerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Header).Bold(true)
}

// fileParsedMsg reports one parsed file.
type fileParsedMsg struct {
	done  int
	total int
	path  string
}

// scanDoneMsg carries the scan outcome.
type scanDoneMsg struct {
	result *service.ScanResult
	err    error
}

// scanProgressModel is the bubbletea model for a running scan.
type scanProgressModel struct {
	dir      string
	done     int
	total    int
	current  string
	progress progress.Model
	theme    Theme
	finished bool
	quitting bool
	result   *service.ScanResult
	err      error
}

func newScanProgressModel(dir string) scanProgressModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)

	return scanProgressModel{
		dir:      dir,
		progress: prog,
		theme:    defaultTheme,
	}
}

// Init returns the initial command.
func (m scanProgressModel) Init() tea.Cmd {
	return m.progress.Init()
}

// Update handles messages and returns the updated model.
func (m scanProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case fileParsedMsg:
		// parsers finish out of order
		if msg.done > m.done {
			m.done = msg.done
			m.current = msg.path
		}
		m.total = msg.total
		return m, nil

	case scanDoneMsg:
		m.finished = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress display.
func (m scanProgressModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m scanProgressModel) renderContent() string {
	if m.finished || m.quitting {
		return m.finalView()
	}

	if m.total == 0 {
		return m.theme.statusStyle().Render("Collecting files in "+m.dir+"...") + "\n"
	}

	pct := float64(m.done) / float64(m.total)
	status := m.theme.statusStyle().Render("[scan]")
	bar := m.progress.ViewAs(pct)
	counts := fmt.Sprintf("%d/%d files", m.done, m.total)
	hint := m.theme.hintStyle().Render(m.current)

	return fmt.Sprintf("%s %s %s\n%s\n", status, bar, counts, hint)
}

func (m scanProgressModel) finalView() string {
	if m.quitting {
		return m.theme.hintStyle().Render("Scan cancelled.") + "\n"
	}
	if m.err != nil {
		return m.theme.errorStyle().Render(fmt.Sprintf("✗ Scan failed: %s", m.err)) + "\n"
	}
	return m.theme.completedStyle().Render("✓ Scan complete") + "\n"
}

// scanSummary renders the result block shown after a scan.
func scanSummary(r *service.ScanResult, out string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  Files parsed:   %d\n", r.Files)
	fmt.Fprintf(&b, "  Tables found:   %d\n", r.Tables)
	fmt.Fprintf(&b, "  Entities saved: %d -> %s\n", len(r.Entities), out)
	if len(r.Errors) > 0 {
		b.WriteString(defaultTheme.errorStyle().Render(fmt.Sprintf("\nWarnings (%d):", len(r.Errors))))
		b.WriteString("\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "  • %s\n", e)
		}
	}
	return b.String()
}

// runScanProgress runs the scan behind an interactive progress bar.
// Ctrl+C cancels the scan and returns errScanCancelled.
func runScanProgress(ctx context.Context, svc *service.ScanService, dir string, opts service.ScanOptions) (*service.ScanResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newScanProgressModel(dir))

	opts.OnFile = func(done, total int, path string) {
		p.Send(fileParsedMsg{done: done, total: total, path: path})
	}
	go func() {
		res, err := svc.Scan(ctx, dir, opts)
		p.Send(scanDoneMsg{result: res, err: err})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress UI error: %w", err)
	}

	m, ok := finalModel.(scanProgressModel)
	if !ok {
		return nil, fmt.Errorf("unexpected progress model %T", finalModel)
	}
	if m.quitting {
		return nil, errScanCancelled
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}
