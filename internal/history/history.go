package history

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/qcmd/q/internal/config"
)

// Entry records a single handled suggestion and its outcome.
type Entry struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Query        string    `json:"query"`
	Command      string    `json:"command"`
	FinalCommand string    `json:"final_command,omitempty"`
	Executed     bool      `json:"executed"`
	ExitCode     int       `json:"exit_code"`
}

// History holds the recorded entries, newest first.
type History struct {
	Entries []Entry `json:"entries"`
}

// NewEntry stamps a fresh entry with a unique ID and the current time.
func NewEntry(query, command string) Entry {
	return Entry{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Query:     query,
		Command:   command,
	}
}

var (
	managerOnce sync.Once
	managerInst *Manager
	managerErr  error
)

func getDefaultManager() (*Manager, error) {
	managerOnce.Do(func() {
		path, err := Path()
		if err != nil {
			managerErr = err
			return
		}
		managerInst, managerErr = newManager(path)
	})
	return managerInst, managerErr
}

// Path returns the location of the history file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, config.DefaultConfigDir, config.DefaultHistoryFileName), nil
}

// Add appends an entry through the shared manager.
func Add(entry Entry) error {
	mgr, err := getDefaultManager()
	if err != nil {
		return err
	}
	return mgr.Append(entry)
}

// Load returns the recorded history, newest entry first.
func Load() (*History, error) {
	mgr, err := getDefaultManager()
	if err != nil {
		return nil, err
	}
	return &History{Entries: mgr.Entries()}, nil
}

// Clear removes all recorded entries.
func Clear() error {
	mgr, err := getDefaultManager()
	if err != nil {
		return err
	}
	return mgr.Clear()
}

// Close flushes and releases the shared manager. Safe to call when no
// manager was ever opened.
func Close() error {
	if managerInst == nil {
		return nil
	}
	return managerInst.Close()
}
