// Package ui renders live progress of directory parsing with Bubble Tea.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"funlang/internal/buildpipeline"
)

const statusWidth = 8

type parseModel struct {
	title   string
	events  <-chan buildpipeline.Event
	spinner spinner.Model
	prog    progress.Model
	files   []fileRow
	index   map[string]int
	phase   string // событие без файла
	width   int
	done    bool
}

type fileRow struct {
	path   string
	status string
	stage  buildpipeline.Stage
	final  bool
	err    string
}

type eventMsg buildpipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders one row per file
// and an overall bar. It quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	rows := make([]fileRow, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		rows = append(rows, fileRow{path: file, status: "queued"})
		index[file] = i
	}
	return &parseModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		files:   rows,
		index:   index,
		width:   80,
	}
}

// Run shows the model on out until events is closed.
func Run(title string, files []string, events <-chan buildpipeline.Event, out io.Writer) error {
	p := tea.NewProgram(NewProgressModel(title, files, events), tea.WithOutput(out), tea.WithInput(nil))
	_, err := p.Run()
	return err
}

func (m *parseModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *parseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.apply(buildpipeline.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, nil
	case progress.FrameMsg:
		next, cmd := m.prog.Update(msg)
		m.prog = next.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *parseModel) View() string {
	if len(m.files) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.phase != "" {
		header = fmt.Sprintf("%s (%s)", header, m.phase)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-4, 20)
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Faint(true)
	for _, row := range m.files {
		status := styleStatus(row.status).Render(fmt.Sprintf("%*s", statusWidth, row.status))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(row.path, nameWidth))
		if row.err != "" {
			fmt.Fprintf(&b, "  %*s %s\n", statusWidth, "", errStyle.Render(truncate(row.err, nameWidth)))
		}
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	b.WriteString(m.summary())
	b.WriteString("\n")
	return b.String()
}

// summary counts finished files by outcome.
func (m *parseModel) summary() string {
	var done, cached, failed int
	for _, row := range m.files {
		switch row.status {
		case "done":
			done++
		case "cached":
			cached++
		case "error":
			failed++
		}
	}
	return fmt.Sprintf("%d/%d parsed, %d cached, %d failed", done+cached, len(m.files), cached, failed)
}

func (m *parseModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *parseModel) apply(ev buildpipeline.Event) tea.Cmd {
	label := statusLabel(ev.Stage, ev.Status)
	if ev.File == "" {
		if label != "" {
			m.phase = label
		}
		return nil
	}
	idx, ok := m.index[ev.File]
	if !ok || label == "" {
		return nil
	}
	row := &m.files[idx]
	row.status = label
	row.stage = ev.Stage
	row.final = ev.Status.Terminal()
	if ev.Err != nil {
		row.err = ev.Err.Error()
	}
	return m.prog.SetPercent(m.percent())
}

// percent is the mean per-file progress; finished files count as 1.
func (m *parseModel) percent() float64 {
	if len(m.files) == 0 {
		return 0
	}
	total := 0.0
	for _, row := range m.files {
		if row.final {
			total += 1.0
		} else {
			total += progressFromStage(row.stage)
		}
	}
	return total / float64(len(m.files))
}

func progressFromStage(stage buildpipeline.Stage) float64 {
	switch stage {
	case buildpipeline.StageLoad:
		return 0.1
	case buildpipeline.StageCache:
		return 0.2
	case buildpipeline.StageLex:
		return 0.4
	case buildpipeline.StageParse:
		return 0.7
	default:
		return 0.0
	}
}

func statusLabel(stage buildpipeline.Stage, status buildpipeline.Status) string {
	switch status {
	case buildpipeline.StatusQueued:
		return "queued"
	case buildpipeline.StatusDone:
		return "done"
	case buildpipeline.StatusCached:
		return "cached"
	case buildpipeline.StatusError:
		return "error"
	case buildpipeline.StatusWorking:
		switch stage {
		case buildpipeline.StageLoad:
			return "loading"
		case buildpipeline.StageCache:
			return "cache"
		case buildpipeline.StageLex:
			return "lexing"
		case buildpipeline.StageParse:
			return "parsing"
		}
	}
	return ""
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done", "cached":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "queued":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
