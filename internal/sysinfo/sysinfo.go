// Package sysinfo gathers the system context sent along with a query:
// operating system, shell, working directory and optionally recent
// shell history.
package sysinfo

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/qcmd/q/internal/config"
)

// SystemContext describes the environment a suggested command will run in.
type SystemContext struct {
	OS             string
	Shell          string
	WorkingDir     string
	RecentCommands []string
}

// Gather collects the system context according to the context settings.
// It never fails: pieces that cannot be determined (or are disabled)
// are reported as "unknown" so the prompt keeps its shape.
func Gather(cfg config.ContextConfig) *SystemContext {
	sc := &SystemContext{
		OS:         osName(),
		Shell:      "unknown",
		WorkingDir: "unknown",
	}

	if cfg.IncludeShellInfo {
		if cfg.Shell != "" {
			sc.Shell = cfg.Shell
		} else {
			sc.Shell = DetectShell()
		}
	}

	if cfg.IncludeDirectory {
		if wd, err := os.Getwd(); err == nil {
			sc.WorkingDir = wd
		}
	}

	if cfg.IncludeHistory {
		shell := cfg.Shell
		if shell == "" {
			shell = DetectShell()
		}
		sc.RecentCommands = RecentCommands(shell, config.DefaultMaxRecentCommands)
	}

	return sc
}

// DetectShell identifies the user's shell from the SHELL environment
// variable. When SHELL is unset (typical on Windows outside of MSYS),
// the presence of PSModulePath distinguishes PowerShell from cmd;
// everywhere else bash is assumed.
func DetectShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return filepath.Base(shell)
	}
	if runtime.GOOS == "windows" {
		if os.Getenv("PSModulePath") != "" {
			return "powershell"
		}
		return "cmd"
	}
	return "bash"
}

func osName() string {
	if runtime.GOOS == "darwin" {
		return "macos"
	}
	return runtime.GOOS
}

// RecentCommands returns up to max commands from the shell's history
// file, newest first. Sensitive-looking entries are filtered out and
// consecutive duplicates collapsed. An unreadable history yields nil
// rather than an error.
func RecentCommands(shell string, max int) []string {
	for _, path := range historyFileCandidates(shell) {
		if commands := readHistoryFile(path, max); len(commands) > 0 {
			return commands
		}
	}
	return nil
}

// historyFileCandidates resolves which history files to try. HISTFILE
// wins when set; otherwise the file matching the shell, falling back to
// both well-known files when the shell is unrecognized.
func historyFileCandidates(shell string) []string {
	if histFile := os.Getenv("HISTFILE"); histFile != "" {
		return []string{histFile}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	zshHistory := filepath.Join(home, ".zsh_history")
	bashHistory := filepath.Join(home, ".bash_history")

	switch {
	case strings.Contains(shell, "zsh"):
		return []string{zshHistory}
	case strings.Contains(shell, "bash"):
		return []string{bashHistory}
	default:
		return []string{zshHistory, bashHistory}
	}
}

func readHistoryFile(path string, max int) []string {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var all []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		// zsh extended history format: ": timestamp:duration;command"
		if strings.HasPrefix(line, ":") && strings.Contains(line, ";") {
			parts := strings.SplitN(line, ";", 2)
			if len(parts) == 2 {
				line = parts[1]
			}
		}

		line = strings.TrimSpace(line)
		if line == "" || isSensitiveCommand(line) {
			continue
		}
		// Collapse consecutive repeats of the same command.
		if len(all) > 0 && all[len(all)-1] == line {
			continue
		}
		all = append(all, line)
	}
	if err := scanner.Err(); err != nil {
		return nil
	}

	start := len(all) - max
	if start < 0 {
		start = 0
	}

	// Newest first
	var commands []string
	for i := len(all) - 1; i >= start; i-- {
		commands = append(commands, all[i])
	}
	return commands
}

var sensitiveKeywords = []string{
	"password",
	"passwd",
	"api_key",
	"secret",
	"token",
	"auth",
	"credential",
	"private",
	"ssh-keygen",
	"openssl",
}

func isSensitiveCommand(cmd string) bool {
	cmdLower := strings.ToLower(cmd)
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(cmdLower, keyword) {
			return true
		}
	}
	return false
}
