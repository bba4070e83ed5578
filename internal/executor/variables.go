package executor

import (
	"regexp"
	"strings"

	"github.com/pterm/pterm"
)

var placeholderPattern = regexp.MustCompile(`\{\{([A-Z0-9_]+)\}\}`)

// ResolveVariables prompts for a value per {{NAME}} placeholder and
// substitutes every occurrence. Commands without placeholders pass
// through untouched.
func (e *Executor) ResolveVariables(command string) (string, error) {
	names := placeholderNames(command)
	if len(names) == 0 {
		return command, nil
	}

	pterm.Println()
	pterm.NewStyle(pterm.FgLightYellow).Println("📝 Input required:")

	values, err := e.promptVars(names)
	if err != nil {
		return "", err
	}

	final := substitute(command, names, values)

	pterm.Println()
	pterm.NewStyle(pterm.FgLightCyan).Println("Final command:")
	pterm.NewStyle(pterm.FgLightWhite).Println(final)

	return final, nil
}

// placeholderNames returns the unique placeholder names in command, in
// first-appearance order.
func placeholderNames(command string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, match := range placeholderPattern.FindAllStringSubmatch(command, -1) {
		name := match[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func substitute(command string, names []string, values map[string]string) string {
	final := command
	for _, name := range names {
		final = strings.ReplaceAll(final, "{{"+name+"}}", values[name])
	}
	return final
}
