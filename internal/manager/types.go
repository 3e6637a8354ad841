package manager

import (
	"context"

	"aiengine/pkg/types"
)

// State represents the lifecycle state of the manager.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateClosed  State = "closed"
)

// Snapshot is a read-only projection of the manager state.
type Snapshot struct {
	State    State
	Models   []string
	CacheDir string
	Watching bool
}

// DataProcessor turns a raw dataset into tabular form.
type DataProcessor interface {
	ProcessData(ctx context.Context, dataset types.Value) (*types.ProcessedData, error)
}

// QueryEngine answers a question about a processed dataset.
type QueryEngine interface {
	Query(ctx context.Context, query string, data *types.ProcessedData, params map[string]any) (types.Result, error)
}

// Predictor fits a model on a processed dataset and predicts the target.
type Predictor interface {
	Predict(ctx context.Context, data *types.ProcessedData, target string, features []string, params map[string]any) (types.Result, error)
}

// entry is one loaded model.
type entry struct {
	info    types.ModelInfo
	params  map[string]any
	query   QueryEngine
	predict Predictor
}

// mergeParams overlays request params on the model's configured params.
func mergeParams(base, over map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}
