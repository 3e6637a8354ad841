package manager

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiengine/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newReadyManager(t *testing.T, cfg ManagerConfig) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	cfg.Logger = zerolog.Nop()
	m := NewWithConfig(cfg)
	require.NoError(t, m.InitModels(context.Background(), dir))
	t.Cleanup(func() { _ = m.Close() })
	return m, dir
}

func TestNewWithConfigDefaults(t *testing.T) {
	m := NewWithConfig(ManagerConfig{})
	assert.Equal(t, defaultReloadDebounce, m.debounce)
	assert.Equal(t, defaultOpenAIModel, m.openai.Model)
	assert.Equal(t, defaultPreviewRows, m.openai.PreviewRows)
	assert.NotNil(t, m.proc)
	assert.False(t, m.Ready())
	assert.Empty(t, m.LoadedModels())
}

func TestInitModels_Builtins(t *testing.T) {
	m, _ := newReadyManager(t, ManagerConfig{})
	assert.True(t, m.Ready())
	assert.Equal(t, []string{"default", "linear_regression"}, m.LoadedModels())
}

func TestInitModels_OpenAIOnlyWithKey(t *testing.T) {
	m, _ := newReadyManager(t, ManagerConfig{OpenAI: OpenAIConfig{APIKey: "sk-test"}})
	assert.Equal(t, []string{"default", "linear_regression", "openai"}, m.LoadedModels())
}

func TestInitModels_LoadsManifests(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "name: sales\nkind: query\nengine: statistical\nparams:\n  decimals: 2\n")
	writeFile(t, dir, "b.json", `{"name":"churn","kind":"prediction","engine":"linear"}`)
	writeFile(t, dir, "c.yaml", "name: narrator\nkind: query\nengine: openai\n")
	writeFile(t, dir, "d.yaml", "name: default\nkind: query\nengine: statistical\n")

	m := New(zerolog.Nop())
	require.NoError(t, m.InitModels(context.Background(), dir))
	defer m.Close()

	assert.Equal(t, []string{"churn", "default", "linear_regression", "sales"}, m.LoadedModels())
	d, err := m.lookup("default")
	require.NoError(t, err)
	assert.Equal(t, sourceBuiltin, d.info.Source, "manifest must not shadow a built-in")
}

func TestInitModels_InsightManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "trend.yaml", "name: trend\nkind: insight\nengine: statistical\nparams:\n  top_k: 2\n")

	m := New(zerolog.Nop())
	require.NoError(t, m.InitModels(context.Background(), dir))
	defer m.Close()

	assert.Contains(t, m.LoadedModels(), "trend")
	params, ok := m.InsightModel("trend")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"top_k": 2}, params)

	_, ok = m.InsightModel("default")
	assert.False(t, ok, "query models are not insight models")
	_, ok = m.InsightModel("missing")
	assert.False(t, ok)

	_, err := m.ProcessQuery(context.Background(), "avg", types.NewValue([]any{1.0}), "trend")
	assert.True(t, IsUnsupported(err))
	assert.EqualError(t, err, "model trend does not support queries")
}

func TestLoadedModelsReturnsCopy(t *testing.T) {
	m, _ := newReadyManager(t, ManagerConfig{})
	out := m.LoadedModels()
	out[0] = "z"
	assert.Equal(t, "default", m.LoadedModels()[0])
}

func TestListAvailableModels(t *testing.T) {
	m, dir := newReadyManager(t, ManagerConfig{})
	// Written after init: listed but not loaded.
	writeFile(t, dir, "late.yaml", "name: late\nkind: query\nengine: statistical\n")

	models, err := m.ListAvailableModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 3)
	assert.Equal(t, "default", models[0].Name)
	assert.True(t, models[0].Loaded)
	assert.Equal(t, "builtin", models[0].Source)
	assert.Equal(t, "linear_regression", models[1].Name)
	assert.Equal(t, "late", models[2].Name)
	assert.False(t, models[2].Loaded)
	assert.Equal(t, filepath.Join(dir, "late.yaml"), models[2].Source)
}

func TestListAvailableModels_BeforeInit(t *testing.T) {
	m := New(zerolog.Nop())
	models, err := m.ListAvailableModels(context.Background())
	require.NoError(t, err)
	assert.Empty(t, models)
}

func TestProcessQuery_DefaultModel(t *testing.T) {
	m, _ := newReadyManager(t, ManagerConfig{})
	res, err := m.ProcessQuery(context.Background(), "avg sales", types.NewValue([]any{1.0, 2.0, 3.0}), "")
	require.NoError(t, err)
	assert.Equal(t, "default", res["model_used"])
	assert.Equal(t, 2.0, res["value"])
	assert.Equal(t, "mean", res["operation"])
	assert.Equal(t, "value", res["column"])
}

func TestProcessQuery_Errors(t *testing.T) {
	m, _ := newReadyManager(t, ManagerConfig{})
	ds := types.NewValue([]any{1.0, 2.0})

	_, err := m.ProcessQuery(context.Background(), "avg", ds, "nope")
	require.Error(t, err)
	assert.True(t, IsModelNotFound(err))
	assert.Equal(t, "model not found: nope", err.Error())

	_, err = m.ProcessQuery(context.Background(), "avg", ds, "linear_regression")
	assert.True(t, IsUnsupported(err))

	_, err = m.ProcessQuery(context.Background(), "avg", types.NewValue(5.0), "default")
	assert.EqualError(t, err, "unsupported dataset type: number")
}

func TestMakePrediction_Default(t *testing.T) {
	m, _ := newReadyManager(t, ManagerConfig{})
	ds := types.NewValue([]any{
		map[string]any{"x": 1.0, "y": 3.0},
		map[string]any{"x": 2.0, "y": 5.0},
		map[string]any{"x": 3.0, "y": 7.0},
		map[string]any{"x": 4.0, "y": nil},
	})
	res, err := m.MakePrediction(context.Background(), types.PredictionInput{Dataset: ds, Target: "y", Model: "linear_regression"})
	require.NoError(t, err)
	assert.Equal(t, "linear_regression", res["model_used"])
	assert.Equal(t, 1.0, res["accuracy"])
	preds := res["predictions"].([]map[string]any)
	require.Len(t, preds, 1)
	assert.Equal(t, 3, preds[0]["row"])
	assert.InDelta(t, 9.0, preds[0]["value"].(float64), 1e-9)
}

func TestMakePrediction_ManifestParamsOverridden(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "r.yaml", "name: rounded\nkind: prediction\nengine: linear\nparams:\n  decimals: 0\n")
	m := New(zerolog.Nop())
	require.NoError(t, m.InitModels(context.Background(), dir))
	defer m.Close()

	ds := types.NewValue(map[string]any{"x": []any{1.0, 2.0, 3.0}, "y": []any{1.4, 2.4, 3.4}})
	res, err := m.MakePrediction(context.Background(), types.PredictionInput{Dataset: ds, Target: "y", Model: "rounded"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res["intercept"])

	res, err = m.MakePrediction(context.Background(), types.PredictionInput{
		Dataset: ds, Target: "y", Model: "rounded", Params: map[string]any{"decimals": 1.0},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.4, res["intercept"])
}

func TestClose_StopsOperations(t *testing.T) {
	m, _ := newReadyManager(t, ManagerConfig{Watch: true, ReloadDebounce: 10 * time.Millisecond})
	assert.True(t, m.Snapshot().Watching)
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.False(t, m.Ready())
	_, err := m.ProcessQuery(context.Background(), "count", types.NewValue([]any{1.0}), "default")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.InitModels(context.Background(), t.TempDir()), ErrClosed)
}

func TestSnapshot(t *testing.T) {
	m, dir := newReadyManager(t, ManagerConfig{})
	s := m.Snapshot()
	assert.Equal(t, StateReady, s.State)
	assert.Equal(t, dir, s.CacheDir)
	assert.False(t, s.Watching)
	assert.Equal(t, []string{"default", "linear_regression"}, s.Models)
}
