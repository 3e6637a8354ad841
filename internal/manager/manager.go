package manager

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"aiengine/internal/registry"
	"aiengine/pkg/types"
)

type Manager struct {
	mu       sync.RWMutex
	log      zerolog.Logger
	state    State
	events   EventPublisher
	proc     DataProcessor
	openai   OpenAIConfig
	models   map[string]*entry
	cacheDir string

	// reloadMu serialises registry scans.
	reloadMu sync.Mutex
	watch    bool
	debounce time.Duration
	watcher  *dirWatcher
}

// New returns a Manager with default settings that logs to log.
func New(log zerolog.Logger) *Manager {
	return NewWithConfig(ManagerConfig{Logger: log})
}

// SetEventPublisher replaces the event sink. Nil restores the no-op publisher.
func (m *Manager) SetEventPublisher(p EventPublisher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p == nil {
		p = noopPublisher{}
	}
	m.events = p
}

// Ready reports whether InitModels has completed and the manager is open.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateReady
}

// LoadedModels returns the names of the loaded models in name order.
func (m *Manager) LoadedModels() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.namesLocked()
}

func (m *Manager) namesLocked() []string {
	out := make([]string, 0, len(m.models))
	for name := range m.models {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ListAvailableModels returns the loaded models followed by the manifests
// on disk that are not loaded, each sorted by name.
func (m *Manager) ListAvailableModels(ctx context.Context) ([]types.ModelInfo, error) {
	m.mu.RLock()
	dir := m.cacheDir
	loaded := make([]types.ModelInfo, 0, len(m.models))
	for _, e := range m.models {
		loaded = append(loaded, e.info)
	}
	m.mu.RUnlock()
	sort.Slice(loaded, func(i, j int) bool { return loaded[i].Name < loaded[j].Name })

	if dir == "" {
		return loaded, nil
	}
	manifests, err := registry.NewScanner(zerolog.Nop()).Scan(ctx, dir)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(loaded))
	for _, info := range loaded {
		seen[info.Name] = true
	}
	var extra []types.ModelInfo
	for _, mf := range manifests {
		if seen[mf.Name] {
			continue
		}
		extra = append(extra, mf.Info())
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].Name < extra[j].Name })
	return append(loaded, extra...), nil
}

// InsightModel returns the configured params of a loaded insight-kind model.
func (m *Manager) InsightModel(name string) (map[string]any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.models[name]
	if !ok || e.info.Kind != types.KindInsight {
		return nil, false
	}
	return mergeParams(e.params, nil), true
}

// Snapshot returns a read-only view of the manager state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		State:    m.state,
		Models:   m.namesLocked(),
		CacheDir: m.cacheDir,
		Watching: m.watcher != nil,
	}
}

// Close stops the directory watcher. Further calls return ErrClosed.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		return nil
	}
	m.state = StateClosed
	w := m.watcher
	m.watcher = nil
	m.mu.Unlock()
	if w != nil {
		return w.Close()
	}
	return nil
}

func (m *Manager) lookup(name string) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == StateClosed {
		return nil, ErrClosed
	}
	e, ok := m.models[name]
	if !ok {
		return nil, ErrModelNotFound(name)
	}
	return e, nil
}
