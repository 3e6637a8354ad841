// Package insights derives summary statistics, correlations, outliers and
// short textual highlights from a processed dataset.
package insights

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"aiengine/internal/stats"
	"aiengine/pkg/types"
)

// Models served by the generator.
const (
	ModelDefault     = types.DefaultModel
	ModelStatistical = "statistical"
)

// Defaults for the tunable params.
const (
	DefaultZThreshold     = 3.0
	DefaultMinCorrelation = 0.5
	DefaultTopK           = 5
)

// Options are the params accepted by GenerateInsights.
type Options struct {
	ZThreshold     float64
	MinCorrelation float64
	TopK           int
}

// Correlation is the Pearson coefficient of two numeric columns.
type Correlation struct {
	A    string  `json:"a"`
	B    string  `json:"b"`
	R    float64 `json:"r"`
	Rows int     `json:"rows"`
}

// Outlier is a value whose z-score exceeds the threshold.
type Outlier struct {
	Column string  `json:"column"`
	Row    int     `json:"row"`
	Value  float64 `json:"value"`
	Z      float64 `json:"z"`
}

// ValueCount is one entry of a column's most frequent values.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ModelCatalog resolves insight models loaded from manifests.
type ModelCatalog interface {
	InsightModel(name string) (params map[string]any, ok bool)
}

type Generator struct {
	log    zerolog.Logger
	models ModelCatalog
}

// New returns a generator serving the built-in models and, when models is
// not nil, the insight models it knows about.
func New(log zerolog.Logger, models ModelCatalog) *Generator {
	return &Generator{log: log.With().Str("component", "insights").Logger(), models: models}
}

// GenerateInsights analyses data with the named model. The result always
// carries model_used.
func (g *Generator) GenerateInsights(ctx context.Context, data *types.ProcessedData, model string, params map[string]any) (types.Result, error) {
	if model == "" {
		model = ModelDefault
	}
	if model != ModelDefault && model != ModelStatistical {
		base, ok := g.lookup(model)
		if !ok {
			return nil, &types.ModelNotFoundError{Name: model}
		}
		params = overlay(base, params)
	}
	opts, err := ParseOptions(params)
	if err != nil {
		return nil, err
	}

	numeric := data.NumericColumns()
	outliers := make([][]Outlier, len(data.Columns))
	tops := make([][]ValueCount, len(data.Columns))
	pairs := columnPairs(numeric)
	corrs := make([]*Correlation, len(pairs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, c := range data.Columns {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			switch c.Kind {
			case types.ColumnNumeric:
				outliers[i] = findOutliers(data, c, opts.ZThreshold)
			case types.ColumnString, types.ColumnBoolean, types.ColumnMixed:
				tops[i] = topValues(data, c.Name, opts.TopK)
			}
			return nil
		})
	}
	for i, p := range pairs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if c, ok := correlate(data, p[0], p[1]); ok && math.Abs(c.R) >= opts.MinCorrelation {
				corrs[i] = &c
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var allOutliers []Outlier
	topByColumn := make(map[string][]ValueCount)
	for i, c := range data.Columns {
		allOutliers = append(allOutliers, outliers[i]...)
		if tops[i] != nil {
			topByColumn[c.Name] = tops[i]
		}
	}
	correlations := make([]Correlation, 0, len(corrs))
	for _, c := range corrs {
		if c != nil {
			correlations = append(correlations, *c)
		}
	}
	sort.SliceStable(correlations, func(i, j int) bool {
		return math.Abs(correlations[i].R) > math.Abs(correlations[j].R)
	})
	if allOutliers == nil {
		allOutliers = []Outlier{}
	}

	missing := 0
	for _, c := range data.Columns {
		missing += c.Missing
	}
	g.log.Debug().
		Int("rows", len(data.Records)).
		Int("columns", len(data.Columns)).
		Int("correlations", len(correlations)).
		Int("outliers", len(allOutliers)).
		Msg("insights generated")

	return types.Result{
		"model_used": model,
		"summary": map[string]any{
			"rows":            len(data.Records),
			"columns":         len(data.Columns),
			"numeric_columns": len(numeric),
			"missing_cells":   missing,
			"shape":           data.Shape,
		},
		"columns":      data.Columns,
		"correlations": correlations,
		"outliers":     allOutliers,
		"top_values":   topByColumn,
		"highlights":   highlights(data, correlations, allOutliers, topByColumn),
	}, nil
}

func (g *Generator) lookup(model string) (map[string]any, bool) {
	if g.models == nil {
		return nil, false
	}
	return g.models.InsightModel(model)
}

// overlay returns base with the request params applied on top.
func overlay(base, params map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(params))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range params {
		out[k] = v
	}
	return out
}

// ParseOptions reads the generator params, applying defaults for absent keys.
func ParseOptions(params map[string]any) (Options, error) {
	opts := Options{ZThreshold: DefaultZThreshold, MinCorrelation: DefaultMinCorrelation, TopK: DefaultTopK}
	if v, ok := params["z_threshold"]; ok && v != nil {
		f, ok := types.ToFloat(v)
		if !ok || f <= 0 {
			return opts, errors.New("param z_threshold must be a positive number")
		}
		opts.ZThreshold = f
	}
	if v, ok := params["min_correlation"]; ok && v != nil {
		f, ok := types.ToFloat(v)
		if !ok || f < 0 || f > 1 {
			return opts, errors.New("param min_correlation must be a number between 0 and 1")
		}
		opts.MinCorrelation = f
	}
	if v, ok := params["top_k"]; ok && v != nil {
		f, ok := types.ToFloat(v)
		if !ok || f < 1 || f != math.Trunc(f) {
			return opts, errors.New("param top_k must be a positive integer")
		}
		opts.TopK = int(f)
	}
	return opts, nil
}

func columnPairs(cols []string) [][2]string {
	var out [][2]string
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			out = append(out, [2]string{cols[i], cols[j]})
		}
	}
	return out
}

// correlate computes r over the rows where both columns are numeric.
func correlate(data *types.ProcessedData, a, b string) (Correlation, bool) {
	var xs, ys []float64
	for i := range data.Records {
		x, okx := data.NumericAt(i, a)
		y, oky := data.NumericAt(i, b)
		if okx && oky {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	r, ok := stats.Pearson(xs, ys)
	if !ok {
		return Correlation{}, false
	}
	return Correlation{A: a, B: b, R: stats.Round(r, 4), Rows: len(xs)}, true
}

func findOutliers(data *types.ProcessedData, c types.ColumnProfile, threshold float64) []Outlier {
	if c.Mean == nil || c.Std == nil || *c.Std == 0 {
		return nil
	}
	var out []Outlier
	values, rows := data.Numeric(c.Name)
	for k, v := range values {
		z := (v - *c.Mean) / *c.Std
		if math.Abs(z) > threshold {
			out = append(out, Outlier{Column: c.Name, Row: rows[k], Value: v, Z: stats.Round(z, 4)})
		}
	}
	return out
}

func topValues(data *types.ProcessedData, column string, k int) []ValueCount {
	counts := make(map[string]int)
	for i, rec := range data.Records {
		if data.IsMissing(i, column) {
			continue
		}
		counts[fmt.Sprint(rec[column])]++
	}
	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}
