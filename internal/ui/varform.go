package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	varLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	varDoneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	varHelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// variableFormModel collects one value per placeholder, one field at a
// time. Enter commits the focused field; Esc or Ctrl+C abandons the form.
type variableFormModel struct {
	names     []string
	inputs    []textinput.Model
	focused   int
	done      bool
	cancelled bool
}

func newVariableFormModel(names []string) *variableFormModel {
	inputs := make([]textinput.Model, len(names))
	for i := range names {
		ti := textinput.New()
		ti.Prompt = "> "
		if i == 0 {
			ti.Focus()
		}
		inputs[i] = ti
	}
	return &variableFormModel{names: names, inputs: inputs}
}

func (m *variableFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *variableFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.focused < len(m.inputs)-1 {
				m.inputs[m.focused].Blur()
				m.focused++
				return m, m.inputs[m.focused].Focus()
			}
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m *variableFormModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	for i, name := range m.names {
		label := fmt.Sprintf("Enter value for %s", name)
		switch {
		case i < m.focused:
			b.WriteString(varDoneStyle.Render(fmt.Sprintf("%s: %s", label, m.inputs[i].Value())))
			b.WriteString("\n")
		case i == m.focused:
			b.WriteString(varLabelStyle.Render(label))
			b.WriteString("\n")
			b.WriteString(m.inputs[i].View())
			b.WriteString("\n")
		}
		// Upcoming fields stay hidden until reached.
	}
	b.WriteString(varHelpStyle.Render("enter: next · esc: cancel"))
	b.WriteString("\n")
	return b.String()
}

// PromptVariables asks for a value per placeholder name, in order. On a
// terminal this runs a small form; otherwise values are read line by
// line. The returned map holds one value per name; empty values are
// accepted verbatim.
func PromptVariables(names []string) (map[string]string, error) {
	if len(names) == 0 {
		return map[string]string{}, nil
	}
	if !IsInteractive() {
		return promptVariablesLine(os.Stdin, os.Stdout, names)
	}

	model := newVariableFormModel(names)
	program := tea.NewProgram(model)
	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("variable form failed: %w", err)
	}

	form, ok := final.(*variableFormModel)
	if !ok || form.cancelled {
		return nil, ErrCancelled
	}

	values := make(map[string]string, len(names))
	for i, name := range names {
		values[name] = form.inputs[i].Value()
	}
	return values, nil
}

func promptVariablesLine(r io.Reader, w io.Writer, names []string) (map[string]string, error) {
	reader := bufio.NewReader(r)
	values := make(map[string]string, len(names))

	for _, name := range names {
		fmt.Fprintf(w, "Enter value for %s: ", name)

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return nil, fmt.Errorf("failed to read value for %s: %w", name, err)
		}
		values[name] = strings.TrimRight(line, "\r\n")
	}
	return values, nil
}
