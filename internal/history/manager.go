package history

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/qcmd/q/internal/config"
)

// Manager appends history records to a JSON-lines file so that adding an
// entry does not rewrite the whole file.
type Manager struct {
	mu           sync.RWMutex
	entries      []Entry // newest first
	file         *os.File
	writer       *bufio.Writer
	needsRewrite bool
	maxEntries   int
	closed       bool
}

func newManager(path string) (*Manager, error) {
	if err := os.MkdirAll(filepath.Dir(path), config.DefaultDirPermissions); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, config.DefaultFilePermissions)
	if err != nil {
		return nil, err
	}

	entries, needsRewrite, err := loadEntries(path)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	mgr := &Manager{
		entries:      entries,
		file:         file,
		writer:       bufio.NewWriter(file),
		needsRewrite: needsRewrite,
		maxEntries:   config.DefaultMaxHistorySize,
	}

	mgr.enforceLimitLocked()

	if mgr.needsRewrite {
		if err := mgr.rewriteLocked(); err != nil {
			_ = file.Close()
			return nil, err
		}
		return mgr, nil
	}

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		_ = file.Close()
		return nil, err
	}

	return mgr, nil
}

// Append records a new entry and persists it.
func (m *Manager) Append(entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errors.New("history manager closed")
	}

	m.entries = append([]Entry{entry}, m.entries...)
	m.enforceLimitLocked()

	if m.needsRewrite {
		return m.rewriteLocked()
	}

	if err := m.writeEntry(entry); err != nil {
		m.needsRewrite = true
		return err
	}

	return m.writer.Flush()
}

// Entries returns a copy of the recorded entries, newest first.
func (m *Manager) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	copied := make([]Entry, len(m.entries))
	copy(copied, m.entries)
	return copied
}

// Replace swaps the full entry set and rewrites the file.
func (m *Manager) Replace(entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errors.New("history manager closed")
	}

	m.entries = cloneEntries(entries)
	m.enforceLimitLocked()
	return m.rewriteLocked()
}

// Clear removes all entries and truncates the file.
func (m *Manager) Clear() error {
	return m.Replace(nil)
}

// Close flushes pending writes and releases the file handle.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	var err error
	if m.needsRewrite {
		err = m.rewriteLocked()
	} else {
		err = m.writer.Flush()
	}

	if cerr := m.file.Close(); err == nil {
		err = cerr
	}

	m.closed = true
	return err
}

func (m *Manager) enforceLimitLocked() {
	if m.maxEntries > 0 && len(m.entries) > m.maxEntries {
		m.entries = m.entries[:m.maxEntries]
		m.needsRewrite = true
	}
}

func (m *Manager) writeEntry(entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if _, err := m.writer.Write(data); err != nil {
		return err
	}
	return m.writer.WriteByte('\n')
}

// rewriteLocked rewrites the file from scratch, oldest entry first so that
// plain appends keep working afterwards.
func (m *Manager) rewriteLocked() error {
	if _, err := m.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := m.file.Truncate(0); err != nil {
		return err
	}
	m.writer.Reset(m.file)

	for i := len(m.entries) - 1; i >= 0; i-- {
		if err := m.writeEntry(m.entries[i]); err != nil {
			return err
		}
	}

	if err := m.writer.Flush(); err != nil {
		return err
	}
	if _, err := m.file.Seek(0, io.SeekEnd); err != nil {
		return err
	}

	m.needsRewrite = false
	return nil
}

// loadEntries reads the history file, tolerating both the JSON-lines layout
// and the legacy single-array layout. Unparseable lines are dropped and the
// file is scheduled for a rewrite.
func loadEntries(path string) ([]Entry, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []Entry{}, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []Entry{}, false, nil
	}

	if data[0] == '[' {
		var legacy []Entry
		if err := json.Unmarshal(data, &legacy); err != nil {
			return nil, false, err
		}
		return cloneEntries(legacy), true, nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var chronological []Entry
	dropped := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			dropped = true
			continue
		}
		chronological = append(chronological, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, false, err
	}

	reversed := make([]Entry, len(chronological))
	for i := range chronological {
		reversed[i] = chronological[len(chronological)-1-i]
	}

	return reversed, dropped, nil
}

func cloneEntries(entries []Entry) []Entry {
	if len(entries) == 0 {
		return []Entry{}
	}
	cloned := make([]Entry, len(entries))
	copy(cloned, entries)
	return cloned
}
