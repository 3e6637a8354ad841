package manager

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"aiengine/internal/stats"
	"aiengine/pkg/types"
)

// linearPredictor fits ordinary least squares, with an optional ridge
// penalty, on the rows where the target is known and predicts the rest.
type linearPredictor struct{}

func (linearPredictor) Predict(ctx context.Context, data *types.ProcessedData, target string, features []string, params map[string]any) (types.Result, error) {
	ridge, err := floatParam(params, "ridge", 0)
	if err != nil {
		return nil, err
	}
	if ridge < 0 {
		return nil, errors.New("param ridge must not be negative")
	}
	decimals, err := intParam(params, "decimals", defaultDecimals)
	if err != nil {
		return nil, err
	}

	tc, ok := data.Column(target)
	if !ok {
		return nil, fmt.Errorf("unknown target column: %s", target)
	}
	if tc.Kind != types.ColumnNumeric {
		return nil, fmt.Errorf("target column %s is not numeric", target)
	}
	if len(features) == 0 {
		features = without(data.NumericColumns(), target)
	}
	if len(features) == 0 {
		return nil, errors.New("no numeric feature columns available")
	}
	for _, f := range features {
		if f == target {
			return nil, fmt.Errorf("feature %s is the target column", f)
		}
		c, ok := data.Column(f)
		if !ok {
			return nil, fmt.Errorf("unknown feature column: %s", f)
		}
		if c.Kind != types.ColumnNumeric {
			return nil, fmt.Errorf("feature column %s is not numeric", f)
		}
	}

	// Design rows carry a leading 1 for the intercept.
	var (
		xs      [][]float64
		ys      []float64
		pending []int
	)
	for i := range data.Records {
		row, ok := featureRow(data, i, features)
		if !ok {
			continue
		}
		if y, ok := data.NumericAt(i, target); ok {
			xs = append(xs, row)
			ys = append(ys, y)
		} else if data.IsMissing(i, target) {
			pending = append(pending, i)
		}
	}
	p := len(features) + 1
	if len(xs) < p {
		return nil, fmt.Errorf("not enough training rows: have %d, need at least %d", len(xs), p)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	beta, err := fitOLS(xs, ys, ridge)
	if err != nil {
		return nil, fmt.Errorf("cannot fit model: %w", err)
	}

	fitted := make([]float64, len(xs))
	for i, row := range xs {
		fitted[i] = dot(beta, row)
	}
	accuracy := rSquared(ys, fitted)
	if !allFinite(beta...) || !allFinite(fitted...) || !stats.Finite(accuracy) {
		return nil, errOutOfRange
	}
	coefficients := make(map[string]float64, len(features))
	for j, f := range features {
		coefficients[f] = stats.Round(beta[j+1], decimals)
	}
	predictions := make([]map[string]any, 0, len(pending))
	for _, i := range pending {
		row, _ := featureRow(data, i, features)
		v := dot(beta, row)
		if !stats.Finite(v) {
			return nil, errOutOfRange
		}
		predictions = append(predictions, map[string]any{
			"row":   i,
			"value": stats.Round(v, decimals),
		})
	}

	return types.Result{
		"run_id":        uuid.NewString(),
		"target":        target,
		"features":      features,
		"coefficients":  coefficients,
		"intercept":     stats.Round(beta[0], decimals),
		"accuracy":      stats.Round(accuracy, decimals),
		"training_rows": len(xs),
		"predictions":   predictions,
	}, nil
}

var errOutOfRange = errors.New("cannot fit model: values are out of float64 range")

func allFinite(xs ...float64) bool {
	for _, x := range xs {
		if !stats.Finite(x) {
			return false
		}
	}
	return true
}

func featureRow(data *types.ProcessedData, i int, features []string) ([]float64, bool) {
	row := make([]float64, len(features)+1)
	row[0] = 1
	for j, f := range features {
		v, ok := data.NumericAt(i, f)
		if !ok {
			return nil, false
		}
		row[j+1] = v
	}
	return row, true
}

// fitOLS solves the normal equations (XᵀX + λI)β = Xᵀy. The intercept is
// not penalised.
func fitOLS(xs [][]float64, ys []float64, ridge float64) ([]float64, error) {
	p := len(xs[0])
	xtx := make([][]float64, p)
	for i := range xtx {
		xtx[i] = make([]float64, p)
	}
	xty := make([]float64, p)
	for n, row := range xs {
		for i := 0; i < p; i++ {
			xty[i] += row[i] * ys[n]
			for j := 0; j < p; j++ {
				xtx[i][j] += row[i] * row[j]
			}
		}
	}
	for i := 1; i < p; i++ {
		xtx[i][i] += ridge
	}
	return stats.Solve(xtx, xty)
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// rSquared is the coefficient of determination. A constant target scores 1
// when fitted exactly and 0 otherwise.
func rSquared(ys, fitted []float64) float64 {
	mean := stats.Mean(ys)
	var ssRes, ssTot float64
	for i, y := range ys {
		ssRes += (y - fitted[i]) * (y - fitted[i])
		ssTot += (y - mean) * (y - mean)
	}
	if ssTot == 0 {
		if ssRes < 1e-12 {
			return 1
		}
		return 0
	}
	return math.Max(0, 1-ssRes/ssTot)
}
