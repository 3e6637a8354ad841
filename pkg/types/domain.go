package types

import (
	"errors"
	"sort"
)

// Model kinds.
const (
	KindGeneral    = "general"
	KindQuery      = "query"
	KindPrediction = "prediction"
	KindInsight    = "insight"
)

// ModelInfo describes a model known to the model manager.
type ModelInfo struct {
	// Stable identifier used in the "model" request field.
	// example: default
	Name string `json:"name" example:"default"`
	// What the model serves: general, query, prediction or insight.
	// example: general
	Kind string `json:"kind" example:"general"`
	// Engine backing the model: statistical, linear or openai.
	// example: statistical
	Engine string `json:"engine" example:"statistical"`
	// example: Keyword aggregation queries and least-squares predictions
	Description string `json:"description,omitempty" example:"Keyword aggregation queries and least-squares predictions"`
	// example: 1.0.0
	Version string `json:"version,omitempty" example:"1.0.0"`
	// "builtin" or the manifest file the model was loaded from.
	// example: builtin
	Source string `json:"source" example:"builtin"`
	// example: true
	Loaded bool `json:"loaded" example:"true"`
}

// Column kinds inferred by the data processor.
const (
	ColumnNumeric = "numeric"
	ColumnString  = "string"
	ColumnBoolean = "boolean"
	ColumnMixed   = "mixed"
	ColumnEmpty   = "empty"
)

// ColumnProfile summarises one column of a processed dataset. Numeric
// statistics are only set for numeric columns.
type ColumnProfile struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Count   int      `json:"count"`
	Missing int      `json:"missing"`
	Unique  int      `json:"unique"`
	Mean    *float64 `json:"mean,omitempty"`
	Std     *float64 `json:"std,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Median  *float64 `json:"median,omitempty"`
}

// ProcessedData is the tabular form of a submitted dataset.
type ProcessedData struct {
	// Records holds one map per row; absent keys are missing values.
	Records []map[string]any `json:"records"`
	// Columns is sorted by name.
	Columns []ColumnProfile `json:"columns"`
	// Shape names the input layout: records, values, columnar or object.
	Shape string `json:"shape"`
	// ProcessingTime is the wall time spent processing, in seconds.
	ProcessingTime float64 `json:"processing_time"`
}

// Column looks up a column profile by name.
func (p *ProcessedData) Column(name string) (ColumnProfile, bool) {
	i := sort.Search(len(p.Columns), func(i int) bool { return p.Columns[i].Name >= name })
	if i < len(p.Columns) && p.Columns[i].Name == name {
		return p.Columns[i], true
	}
	return ColumnProfile{}, false
}

// NumericColumns returns the names of numeric columns in name order.
func (p *ProcessedData) NumericColumns() []string {
	var out []string
	for _, c := range p.Columns {
		if c.Kind == ColumnNumeric {
			out = append(out, c.Name)
		}
	}
	return out
}

// NumericAt returns the numeric value of column name in row i.
func (p *ProcessedData) NumericAt(i int, name string) (float64, bool) {
	if i < 0 || i >= len(p.Records) {
		return 0, false
	}
	return ToFloat(p.Records[i][name])
}

// Numeric returns the numeric values of a column with the row index of each.
func (p *ProcessedData) Numeric(name string) (values []float64, rows []int) {
	for i := range p.Records {
		if f, ok := p.NumericAt(i, name); ok {
			values = append(values, f)
			rows = append(rows, i)
		}
	}
	return values, rows
}

// IsMissing reports whether row i has no value for column name.
func (p *ProcessedData) IsMissing(i int, name string) bool {
	v, ok := p.Records[i][name]
	return !ok || v == nil
}

// ModelNotFoundError reports a model name that no collaborator serves.
type ModelNotFoundError struct{ Name string }

func (e *ModelNotFoundError) Error() string { return "model not found: " + e.Name }

// IsModelNotFound reports whether err is, or wraps, a ModelNotFoundError.
func IsModelNotFound(err error) bool {
	var target *ModelNotFoundError
	return errors.As(err, &target)
}
