package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"components.dev/calc/internal/application/services"
	"components.dev/calc/internal/core/domain"
	"components.dev/calc/internal/core/ports"
)

var (
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

// evaluator is what the REPL needs from the evaluation service
type evaluator interface {
	Evaluate(ctx context.Context, op domain.Op, x, y uint32) (*services.Evaluation, error)
}

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	ctx        context.Context
	textInput  textinput.Model
	evals      evaluator
	providers  func() []ports.Provider
	history    []historyEntry
	cmdHistory []string
	historyIdx int
	width      int
	height     int
	showHelp   bool
	quitting   bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous expression"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next expression"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "evaluate"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
}

func newREPLModel(ctx context.Context, evals evaluator, providers func() []ports.Provider) replModel {
	ti := textinput.New()
	ti.Placeholder = "add 2 3, 5 - 3, :help"
	ti.Focus()
	ti.CharLimit = 120
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "calc> "

	return replModel{
		ctx:        ctx,
		textInput:  ti,
		evals:      evals,
		providers:  providers,
		historyIdx: -1,
	}
}

// NewREPLCommand creates the repl command
func NewREPLCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Evaluate expressions interactively",
		Long: `Start an interactive session. Expressions are written prefix or infix:

  add 2 3
  sub 5 3
  2 + 3
  0 - 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := link(cmd.Context(), container); err != nil {
				return err
			}

			model := newREPLModel(cmd.Context(), container.Evaluations, container.Linker.Providers)
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err := p.Run()
			return err
		},
	}
}

func (m replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = nil
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, ":") {
				var cmd tea.Cmd
				m, cmd = m.handleCommand(input)
				m.textInput.SetValue("")
				m.historyIdx = -1
				return m, cmd
			}

			output, isErr := m.evaluate(input)
			m.history = append(m.history, historyEntry{
				input:  input,
				output: output,
				isErr:  isErr,
			})
			m.cmdHistory = append(m.cmdHistory, input)
			m.textInput.SetValue("")
			m.historyIdx = -1
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = nil
	case ":providers", ":p":
		var parts []string
		for _, p := range m.providers() {
			parts = append(parts, fmt.Sprintf("%s=%s(%s)", p.Capability, p.Kind, p.Source))
		}
		m.history = append(m.history, historyEntry{
			input:  input,
			output: strings.Join(parts, " "),
		})
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("Unknown command: %s", cmd),
			isErr:  true,
		})
	}
	return m, nil
}

func (m replModel) evaluate(input string) (string, bool) {
	op, x, y, err := parseExpression(input)
	if err != nil {
		return err.Error(), true
	}

	evaluation, err := m.evals.Evaluate(m.ctx, op, x, y)
	if err != nil {
		return err.Error(), true
	}
	return fmt.Sprintf("%d", evaluation.Result), false
}

// parseExpression accepts "op x y", "x op y" and "x+y"
func parseExpression(input string) (domain.Op, uint32, uint32, error) {
	fields := strings.Fields(input)
	if len(fields) == 1 {
		expr := fields[0]
		if i := strings.IndexAny(expr[1:], "+-"); i >= 0 {
			i++
			fields = []string{expr[:i], expr[i : i+1], expr[i+1:]}
		}
	}
	if len(fields) != 3 {
		return 0, 0, 0, fmt.Errorf("expected \"<op> <x> <y>\" or \"<x> <op> <y>\", got %q", input)
	}

	opField, xField, yField := fields[0], fields[1], fields[2]
	if _, err := domain.ParseOp(opField); err != nil {
		opField, xField = fields[1], fields[0]
	}

	op, err := domain.ParseOp(opField)
	if err != nil {
		return 0, 0, 0, err
	}
	x, y, err := parseOperands([]string{xField, yField})
	if err != nil {
		return 0, 0, 0, err
	}
	return op, x, y, nil
}

func (m replModel) View() string {
	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	width := m.width
	if width <= 0 {
		width = 80
	}

	b.WriteString(headerStyle.Render("calc") + " " + mutedStyle.Render(Version) + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", min(width-2, 60))) + "\n\n")

	reservedLines := 8
	if m.showHelp {
		reservedLines += 9
	}
	availableHeight := len(m.history)
	if m.height > 0 {
		availableHeight = max((m.height-reservedLines)/3, 1)
	}

	historyStart := 0
	if len(m.history) > availableHeight {
		historyStart = len(m.history) - availableHeight
	}

	for _, entry := range m.history[historyStart:] {
		b.WriteString(mutedStyle.Render("  › ") + ansi.Truncate(entry.input, width-6, "…") + "\n")
		line := ansi.Truncate(entry.output, width-6, "…")
		if entry.isErr {
			b.WriteString("  " + errorStyle.Render("✗ "+line) + "\n")
		} else {
			b.WriteString("  " + resultStyle.Render("→ "+line) + "\n")
		}
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(renderHelpPanel())
		b.WriteString("\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")

	footer := helpKeyStyle.Render(":help") + helpDescStyle.Render(" help  ") +
		helpKeyStyle.Render("ctrl+l") + helpDescStyle.Render(" clear  ") +
		helpKeyStyle.Render("ctrl+c") + helpDescStyle.Render(" quit")
	b.WriteString(footer)

	return b.String()
}

func renderHelpPanel() string {
	help := []struct {
		key  string
		desc string
	}{
		{"↑/↓", "Navigate expression history"},
		{"Enter", "Evaluate expression"},
		{":help", "Toggle this help"},
		{":providers", "Show linked providers"},
		{":clear", "Clear history"},
		{":quit", "Exit REPL"},
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help"))
	for _, h := range help {
		line := fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-10s", h.key)),
			helpDescStyle.Render(h.desc))
		lines = append(lines, line)
	}

	return borderStyle.Render(strings.Join(lines, "\n"))
}
