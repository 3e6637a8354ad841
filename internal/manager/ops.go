package manager

import (
	"context"
	"time"

	"aiengine/pkg/types"
)

// ProcessQuery answers query over dataset with the named model. The result
// carries model_used.
func (m *Manager) ProcessQuery(ctx context.Context, query string, dataset types.Value, model string) (res types.Result, err error) {
	start := time.Now()
	label := unknownModelLabel
	defer func() { observeCall("query", label, err, start) }()

	if model == "" {
		model = types.DefaultModel
	}
	e, err := m.lookup(model)
	if err != nil {
		return nil, err
	}
	label = e.info.Name
	if e.query == nil {
		return nil, unsupportedError{name: e.info.Name, op: "queries"}
	}
	data, err := m.proc.ProcessData(ctx, dataset)
	if err != nil {
		return nil, err
	}
	res, err = e.query.Query(ctx, query, data, e.params)
	if err != nil {
		return nil, err
	}
	res["model_used"] = e.info.Name
	m.log.Debug().Str("model", e.info.Name).Str("query", query).Dur("took", time.Since(start)).Msg("query processed")
	return res, nil
}

// MakePrediction fits the named model on in.Dataset and predicts in.Target.
// Request params override the model's configured params.
func (m *Manager) MakePrediction(ctx context.Context, in types.PredictionInput) (res types.Result, err error) {
	start := time.Now()
	label := unknownModelLabel
	defer func() { observeCall("predict", label, err, start) }()

	model := in.Model
	if model == "" {
		model = types.DefaultModel
	}
	e, err := m.lookup(model)
	if err != nil {
		return nil, err
	}
	label = e.info.Name
	if e.predict == nil {
		return nil, unsupportedError{name: e.info.Name, op: "predictions"}
	}
	data, err := m.proc.ProcessData(ctx, in.Dataset)
	if err != nil {
		return nil, err
	}
	res, err = e.predict.Predict(ctx, data, in.Target, in.Features, mergeParams(e.params, in.Params))
	if err != nil {
		return nil, err
	}
	res["model_used"] = e.info.Name
	m.log.Debug().Str("model", e.info.Name).Str("target", in.Target).Dur("took", time.Since(start)).Msg("prediction made")
	return res, nil
}
