// Package manager owns the set of loaded models and routes query and
// prediction calls to the engine backing each one. It is structured into
// small files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - types.go: engine interfaces and the per-model entry.
//   - errors.go: error types and helpers (IsModelNotFound, IsUnsupported).
//   - load.go: InitModels, built-in models and registry reloads.
//   - ops.go: ProcessQuery and MakePrediction entry points.
//   - query.go: keyword aggregation engine.
//   - predict.go: least-squares predictor.
//   - openai.go: chat completion query engine.
//   - watch.go: model directory hot reload (fsnotify).
//   - metrics.go: Prometheus counters for engine calls.
//
// External packages should use public methods only (New/NewWithConfig,
// InitModels, LoadedModels, ListAvailableModels, InsightModel, ProcessQuery,
// MakePrediction, Ready, Close). Internal types are subject to change.
package manager
