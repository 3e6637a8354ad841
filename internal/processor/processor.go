// Package processor turns a submitted dataset into tabular records and
// profiles every column.
package processor

import (
	"context"
	"fmt"
	"sort"
	"time"

	"aiengine/internal/stats"
	"aiengine/pkg/types"
)

// Dataset shapes accepted by ProcessData.
const (
	ShapeRecords  = "records"
	ShapeValues   = "values"
	ShapeColumnar = "columnar"
	ShapeObject   = "object"
)

// ValueColumn names the single column produced from an array of scalars.
const ValueColumn = "value"

// Processor normalises datasets. The zero value is ready to use.
type Processor struct {
	now func() time.Time
}

// New returns a Processor.
func New() *Processor { return &Processor{now: time.Now} }

// ProcessData normalises dataset into records and profiles its columns.
func (p *Processor) ProcessData(ctx context.Context, dataset types.Value) (*types.ProcessedData, error) {
	now := time.Now
	if p != nil && p.now != nil {
		now = p.now
	}
	start := now()
	records, shape, err := normalize(dataset)
	if err != nil {
		return nil, err
	}
	columns, err := profile(ctx, records)
	if err != nil {
		return nil, err
	}
	return &types.ProcessedData{
		Records:        records,
		Columns:        columns,
		Shape:          shape,
		ProcessingTime: now().Sub(start).Seconds(),
	}, nil
}

func normalize(dataset types.Value) ([]map[string]any, string, error) {
	switch x := dataset.Raw().(type) {
	case []any:
		return fromArray(x)
	case map[string]any:
		return fromObject(x)
	default:
		return nil, "", fmt.Errorf("unsupported dataset type: %s", dataset.Kind())
	}
}

func fromArray(rows []any) ([]map[string]any, string, error) {
	objects := 0
	for _, row := range rows {
		if _, ok := row.(map[string]any); ok {
			objects++
		}
	}
	switch {
	case len(rows) == 0:
		return []map[string]any{}, ShapeRecords, nil
	case objects == len(rows):
		out := make([]map[string]any, len(rows))
		for i, row := range rows {
			out[i] = row.(map[string]any)
		}
		return out, ShapeRecords, nil
	case objects == 0:
		out := make([]map[string]any, len(rows))
		for i, v := range rows {
			out[i] = map[string]any{ValueColumn: v}
		}
		return out, ShapeValues, nil
	default:
		return nil, "", fmt.Errorf("mixed dataset rows: expected all objects or all scalars")
	}
}

func fromObject(obj map[string]any) ([]map[string]any, string, error) {
	arrays, length := 0, -1
	for name, v := range obj {
		col, ok := v.([]any)
		if !ok {
			continue
		}
		arrays++
		if length >= 0 && len(col) != length {
			return nil, "", fmt.Errorf("columnar dataset has uneven column lengths (column %q has %d values, expected %d)", name, len(col), length)
		}
		length = len(col)
	}
	switch {
	case arrays == 0:
		return []map[string]any{obj}, ShapeObject, nil
	case arrays != len(obj):
		return nil, "", fmt.Errorf("columnar dataset must contain only arrays")
	}
	out := make([]map[string]any, length)
	for i := range out {
		row := make(map[string]any, len(obj))
		for name, v := range obj {
			row[name] = v.([]any)[i]
		}
		out[i] = row
	}
	return out, ShapeColumnar, nil
}

func profile(ctx context.Context, records []map[string]any) ([]types.ColumnProfile, error) {
	seen := map[string]struct{}{}
	for _, r := range records {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make([]types.ColumnProfile, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, profileColumn(records, name))
	}
	return out, nil
}

func profileColumn(records []map[string]any, name string) types.ColumnProfile {
	cp := types.ColumnProfile{Name: name}
	unique := map[string]struct{}{}
	var nums []float64
	var strs, bools int
	for _, r := range records {
		v, ok := r[name]
		if !ok || v == nil {
			cp.Missing++
			continue
		}
		cp.Count++
		unique[fmt.Sprint(v)] = struct{}{}
		if f, ok := types.ToFloat(v); ok {
			nums = append(nums, f)
			continue
		}
		switch v.(type) {
		case string:
			strs++
		case bool:
			bools++
		}
	}
	cp.Unique = len(unique)
	switch {
	case cp.Count == 0:
		cp.Kind = types.ColumnEmpty
	case len(nums) == cp.Count:
		cp.Kind = types.ColumnNumeric
	case strs == cp.Count:
		cp.Kind = types.ColumnString
	case bools == cp.Count:
		cp.Kind = types.ColumnBoolean
	default:
		cp.Kind = types.ColumnMixed
	}
	if cp.Kind == types.ColumnNumeric {
		cp.Mean = ptr(stats.Mean(nums))
		cp.Std = ptr(stats.StdDev(nums))
		cp.Min = ptr(stats.Min(nums))
		cp.Max = ptr(stats.Max(nums))
		cp.Median = ptr(stats.Median(nums))
	}
	return cp
}

// ptr returns nil for values JSON cannot carry, such as an overflowed
// standard deviation.
func ptr(f float64) *float64 {
	if !stats.Finite(f) {
		return nil
	}
	return &f
}
