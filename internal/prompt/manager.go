// Package prompt manages the templates sent to the AI provider.
package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"text/template"
)

// KeyGenerateCommand names the system prompt used to turn a natural
// language query into a shell command.
const KeyGenerateCommand = "generate_command"

// generateCommandTemplate is rendered with a system context (OS, Shell,
// WorkingDir, RecentCommands). The quoted {{"{{...}}"}} actions emit
// literal double braces so the placeholder instruction survives rendering.
const generateCommandTemplate = `You are a command-line assistant that helps users by generating shell commands.

System Information:
- OS: {{.OS}}
- Shell: {{.Shell}}
- Current Directory: {{.WorkingDir}}
{{- if .RecentCommands}}
Recent commands (newest first):
{{- range .RecentCommands}}
- {{.}}
{{- end}}
{{- end}}

Your task is to:
1. Understand the user's intent from their natural language query
2. Generate the appropriate shell command for their system
3. Provide a clear explanation of what the command does
4. Warn about potentially destructive operations

Respond ONLY with a JSON object in this exact format:
{
  "command": "the actual command to run",
  "explanation": "clear explanation of what this command does",
  "warning": "optional warning about destructive operations, or null if safe"
}

Important:
- Generate commands appropriate for the {{.Shell}} shell on {{.OS}}
- Be concise but clear in explanations
- Always include warnings for commands that delete, modify, or move files
- If the request is ambiguous, make reasonable assumptions but mention them in the explanation
- If you need the user to provide specific values (like IDs, names, paths), use the syntax {{"{{VARIABLE_NAME}}"}} (e.g., {{"{{VPC_ID}}"}}, {{"{{FILE_PATH}}"}}). Do NOT use generic placeholders like <vpc-id> or [name].
- Return ONLY the JSON object, no other text`

// Manager handles loading and accessing prompt templates. Parsed
// templates are cached after first use; the prompt set is immutable
// once the manager is constructed.
type Manager struct {
	prompts map[string]string

	mu       sync.Mutex
	compiled map[string]*template.Template
}

// NewDefaultManager creates a prompt manager with the built-in prompts.
func NewDefaultManager() *Manager {
	return &Manager{
		prompts: map[string]string{
			KeyGenerateCommand: generateCommandTemplate,
		},
		compiled: make(map[string]*template.Template),
	}
}

// NewManager creates a prompt manager that overlays user overrides from a
// JSON file (prompt name to template source) on top of the defaults.
func NewManager(path string) (*Manager, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var overrides map[string]string
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse prompt overrides: %w", err)
	}

	m := NewDefaultManager()
	for name, src := range overrides {
		m.prompts[name] = src
	}
	return m, nil
}

// GetPrompt returns the template source registered under name.
func (m *Manager) GetPrompt(name string) (string, error) {
	if src, ok := m.prompts[name]; ok {
		return src, nil
	}
	return "", fmt.Errorf("prompt with key '%s' not found", name)
}

// Render executes the named template with the given data.
func (m *Manager) Render(name string, data any) (string, error) {
	tmpl, err := m.lookup(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt template '%s': %w", name, err)
	}
	return buf.String(), nil
}

// lookup returns the parsed template, compiling and caching it on first use.
func (m *Manager) lookup(name string) (*template.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if tmpl, ok := m.compiled[name]; ok {
		return tmpl, nil
	}

	src, ok := m.prompts[name]
	if !ok {
		return nil, fmt.Errorf("prompt with key '%s' not found", name)
	}
	tmpl, err := template.New(name).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template '%s': %w", name, err)
	}
	m.compiled[name] = tmpl
	return tmpl, nil
}
