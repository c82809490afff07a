// Package tui is the interactive quote screen.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/komsit37/gainers/pkg/gainers/types"
	"github.com/komsit37/gainers/pkg/gainers/workflow"
)

const logoCols = 16

// workflowMsg carries a workflow Msg through the bubbletea loop.
type workflowMsg struct {
	msg workflow.Msg
}

// lift runs workflow Cmds as bubbletea commands.
func lift(cmds []workflow.Cmd) tea.Cmd {
	if len(cmds) == 0 {
		return nil
	}
	out := make([]tea.Cmd, 0, len(cmds))
	for _, c := range cmds {
		if c == nil {
			continue
		}
		c := c
		out = append(out, func() tea.Msg { return workflowMsg{msg: c()} })
	}
	return tea.Batch(out...)
}

type Model struct {
	wf      *workflow.Workflow
	log     *zap.Logger
	spinner spinner.Model

	symbols    []types.Symbol
	optionsVer uint64
	cursor     int
	width      int
	height     int
}

func New(wf *workflow.Workflow, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = dimStyle
	return Model{wf: wf, log: log, spinner: sp}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, lift(m.wf.Start()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.onKey(msg)
	case workflowMsg:
		cmd := lift(m.wf.Update(msg.msg))
		m.syncOptions()
		return m, cmd
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wf.Close()
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			return m, lift(m.wf.Select(m.cursor))
		}
	case "down", "j":
		if m.cursor < len(m.symbols)-1 {
			m.cursor++
			return m, lift(m.wf.Select(m.cursor))
		}
	case "enter":
		return m, lift(m.wf.Select(m.cursor))
	case "r":
		if m.wf.Presentation().Alert != nil {
			m.log.Info("retry requested")
			return m, lift(m.wf.Retry())
		}
	}
	return m, nil
}

// syncOptions rebuilds the picker when the workflow's options grew.
func (m *Model) syncOptions() {
	if v := m.wf.OptionsVersion(); v != m.optionsVer {
		m.optionsVer = v
		m.symbols = m.wf.Symbols()
	}
	m.cursor = int(m.wf.Selection())
}

func (m Model) View() string {
	st := m.wf.Presentation()
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.pickerView(), panelStyle.Render(m.quoteView(st)))
	parts := []string{m.bar(headerStyle, " Market gainers"), body}
	if st.Alert != nil {
		a := st.Alert
		parts = append(parts, alertStyle.Render(fmt.Sprintf("%s\n%s\n[r] %s", nameStyle.Render(a.Title), a.Message, a.Action)))
	}
	parts = append(parts, m.bar(footerStyle, " q quit  up/dn select  enter reload  r retry"))
	return strings.Join(parts, "\n")
}

func (m Model) pickerView() string {
	if len(m.symbols) == 0 {
		return dimStyle.Render("(no companies)")
	}
	var sb strings.Builder
	for i, s := range m.symbols {
		line := fmt.Sprintf(" %-6s %s ", s.Ticker, s.CompanyName)
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		sb.WriteString(line)
		if i < len(m.symbols)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (m Model) quoteView(st types.PresentationState) string {
	lines := []string{}
	if logo := thumbnail(st.Logo, logoCols); logo != "" {
		lines = append(lines, logo, "")
	}
	lines = append(lines,
		nameStyle.Render(st.Name),
		symbolStyle.Render(st.Symbol),
		priceStyle.Render(st.Price),
		changeStyle(st.Color).Render(st.Change),
	)
	if st.Loading {
		lines = append(lines, m.spinner.View()+dimStyle.Render(" loading"))
	}
	return strings.Join(lines, "\n")
}

func changeStyle(c types.ColorTag) lipgloss.Style {
	switch c {
	case types.Positive:
		return gainStyle
	case types.Negative:
		return lossStyle
	default:
		return lipgloss.NewStyle()
	}
}

func (m Model) bar(style lipgloss.Style, text string) string {
	if m.width > len(text) {
		text += strings.Repeat(" ", m.width-len(text))
	}
	return style.Render(text)
}

// Run shows the screen until the user quits or ctx is cancelled.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	m.wf.Close()
	return err
}
