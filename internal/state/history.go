package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RunChange records one mutation performed during a run.
type RunChange struct {
	Name   string `json:"name"`
	Action string `json:"action"` // created, updated, deleted
}

// Run is one apply invocation.
type Run struct {
	ID         string      `json:"id"`
	Timestamp  time.Time   `json:"timestamp"`
	ConfigFile string      `json:"config_file"`
	DryRun     bool        `json:"dry_run"`
	Status     string      `json:"status"` // success or failed
	Changes    []RunChange `json:"changes"`
}

// NewRun starts a run record with a fresh id.
func NewRun(configFile string, dryRun bool) Run {
	return Run{
		ID:         uuid.New().String(),
		Timestamp:  time.Now(),
		ConfigFile: configFile,
		DryRun:     dryRun,
		Status:     "success",
	}
}

type history struct {
	Runs []Run `json:"runs"`
}

// Manager persists run history as JSON under the state directory.
type Manager struct {
	mu   sync.Mutex
	path string
}

func NewManager(stateDir string) *Manager {
	return &Manager{path: filepath.Join(stateDir, "history.json")}
}

// Append records a finished run. Dry runs are not persisted.
func (m *Manager) Append(run Run) error {
	if run.DryRun {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	h, err := m.load()
	if err != nil {
		return err
	}
	h.Runs = append(h.Runs, run)
	return m.save(h)
}

// Runs returns the recorded runs, oldest first.
func (m *Manager) Runs() ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, err := m.load()
	if err != nil {
		return nil, err
	}
	return h.Runs, nil
}

func (m *Manager) load() (*history, error) {
	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		return &history{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read history: %w", err)
	}

	var h history
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("could not parse history: %w", err)
	}
	return &h, nil
}

func (m *Manager) save(h *history) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0o600)
}
