package manager

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"aiengine/internal/common/fsutil"
	"aiengine/internal/registry"
	"aiengine/pkg/types"
)

// Built-in model names.
const (
	ModelDefault          = types.DefaultModel
	ModelLinearRegression = "linear_regression"
	ModelOpenAI           = "openai"
)

const sourceBuiltin = "builtin"

// InitModels loads the built-in models and the manifests found in cacheDir.
// A missing cacheDir is not an error unless watching is enabled, in which
// case the directory is created.
func (m *Manager) InitModels(ctx context.Context, cacheDir string) error {
	var (
		dir string
		err error
	)
	if m.watch {
		dir, err = fsutil.EnsureDir(cacheDir)
	} else {
		dir, err = fsutil.ResolveDir(cacheDir)
	}
	if err != nil {
		return fmt.Errorf("model cache dir: %w", err)
	}

	builtins := m.builtins()
	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.cacheDir = dir
	for _, e := range builtins {
		m.models[e.info.Name] = e
	}
	m.mu.Unlock()
	for _, e := range builtins {
		m.publish(Event{Name: EventModelLoaded, Model: e.info.Name, Fields: map[string]any{"source": sourceBuiltin}})
	}

	if err := m.reload(ctx); err != nil {
		return err
	}
	if m.watch {
		w, err := newDirWatcher(dir, m.debounce, m.log, func() {
			if err := m.reload(context.Background()); err != nil && !errors.Is(err, ErrClosed) {
				m.log.Error().Err(err).Msg("model registry reload failed")
			}
		})
		if err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		m.mu.Lock()
		m.watcher = w
		m.mu.Unlock()
	}

	m.mu.Lock()
	m.state = StateReady
	names := m.namesLocked()
	m.mu.Unlock()
	modelsLoadedGauge.Set(float64(len(names)))
	m.log.Info().Str("dir", dir).Strs("models", names).Bool("watch", m.watch).Msg("models initialised")
	return nil
}

func (m *Manager) builtins() []*entry {
	out := []*entry{
		{
			info: types.ModelInfo{
				Name:        ModelDefault,
				Kind:        types.KindGeneral,
				Engine:      registry.EngineStatistical,
				Description: "Keyword aggregation queries and least-squares predictions",
			},
			query:   statisticalEngine{},
			predict: linearPredictor{},
		},
		{
			info: types.ModelInfo{
				Name:        ModelLinearRegression,
				Kind:        types.KindPrediction,
				Engine:      registry.EngineLinear,
				Description: "Ordinary least squares regression with optional ridge penalty",
			},
			predict: linearPredictor{},
		},
	}
	if m.openai.APIKey != "" {
		out = append(out, &entry{
			info: types.ModelInfo{
				Name:        ModelOpenAI,
				Kind:        types.KindQuery,
				Engine:      registry.EngineOpenAI,
				Description: "Natural-language questions answered by " + m.openai.Model,
			},
			query: newOpenAIEngine(m.openai),
		})
	}
	for _, e := range out {
		e.info.Source = sourceBuiltin
		e.info.Loaded = true
	}
	return out
}

// fromManifest builds the entry for a manifest, or reports why it cannot load.
func (m *Manager) fromManifest(mf registry.Manifest) (*entry, error) {
	e := &entry{info: mf.Info(), params: mf.Params}
	e.info.Loaded = true
	if mf.Kind == types.KindInsight {
		// Served by the insight generator through InsightModel.
		return e, nil
	}
	switch mf.Engine {
	case registry.EngineStatistical:
		e.query = statisticalEngine{}
	case registry.EngineLinear:
		e.predict = linearPredictor{}
	case registry.EngineOpenAI:
		if m.openai.APIKey == "" {
			return nil, fmt.Errorf("engine %s requires an API key", mf.Engine)
		}
		cfg := m.openai
		if s, ok := mf.Params["model"].(string); ok && s != "" {
			cfg.Model = s
		}
		e.query = newOpenAIEngine(cfg)
	default:
		return nil, fmt.Errorf("unknown engine %q", mf.Engine)
	}
	return e, nil
}

// reload rescans the cache directory and swaps the manifest-backed models.
func (m *Manager) reload(ctx context.Context) error {
	m.reloadMu.Lock()
	defer m.reloadMu.Unlock()

	m.mu.RLock()
	dir := m.cacheDir
	m.mu.RUnlock()

	manifests, err := registry.NewScanner(m.log).Scan(ctx, dir)
	if err != nil {
		registryReloadsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("scan models: %w", err)
	}
	fresh := make(map[string]*entry, len(manifests))
	for _, mf := range manifests {
		e, err := m.fromManifest(mf)
		if err != nil {
			m.log.Warn().Err(err).Str("model", mf.Name).Str("path", mf.Path).Msg("model not loaded")
			continue
		}
		fresh[mf.Name] = e
	}

	var loaded, unloaded []string
	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		return ErrClosed
	}
	for name, e := range m.models {
		if e.info.Source == sourceBuiltin {
			continue
		}
		if _, keep := fresh[name]; !keep {
			delete(m.models, name)
			unloaded = append(unloaded, name)
		}
	}
	for name, e := range fresh {
		if cur, ok := m.models[name]; ok && cur.info.Source == sourceBuiltin {
			m.log.Warn().Str("model", name).Str("path", e.info.Source).Msg("manifest shadows a built-in model, skipping")
			continue
		}
		if _, ok := m.models[name]; !ok {
			loaded = append(loaded, name)
		}
		m.models[name] = e
	}
	total := len(m.models)
	m.mu.Unlock()

	sort.Strings(loaded)
	sort.Strings(unloaded)
	modelsLoadedGauge.Set(float64(total))
	registryReloadsTotal.WithLabelValues("ok").Inc()
	for _, name := range unloaded {
		m.publish(Event{Name: EventModelUnloaded, Model: name})
	}
	for _, name := range loaded {
		m.publish(Event{Name: EventModelLoaded, Model: name, Fields: map[string]any{"source": fresh[name].info.Source}})
	}
	m.publish(Event{Name: EventRegistryReloaded, Fields: map[string]any{"manifests": len(fresh), "models": total}})
	return nil
}
