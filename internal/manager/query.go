package manager

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"aiengine/internal/stats"
	"aiengine/pkg/types"
)

// Aggregations understood by the statistical engine.
const (
	OpMean   = "mean"
	OpSum    = "sum"
	OpCount  = "count"
	OpMin    = "min"
	OpMax    = "max"
	OpMedian = "median"
	OpStd    = "std"
)

var aggregationKeywords = map[string]string{
	"average":   OpMean,
	"avg":       OpMean,
	"mean":      OpMean,
	"sum":       OpSum,
	"total":     OpSum,
	"count":     OpCount,
	"number":    OpCount,
	"min":       OpMin,
	"minimum":   OpMin,
	"lowest":    OpMin,
	"smallest":  OpMin,
	"max":       OpMax,
	"maximum":   OpMax,
	"highest":   OpMax,
	"largest":   OpMax,
	"median":    OpMedian,
	"std":       OpStd,
	"stddev":    OpStd,
	"deviation": OpStd,
}

const defaultDecimals = 6

// statisticalEngine answers keyword aggregation questions such as
// "average sales by region" without any model behind it.
type statisticalEngine struct{}

func (statisticalEngine) Query(ctx context.Context, query string, data *types.ProcessedData, params map[string]any) (types.Result, error) {
	decimals, err := intParam(params, "decimals", defaultDecimals)
	if err != nil {
		return nil, err
	}
	tokens := tokenize(query)
	op := findAggregation(tokens)
	if op == "" {
		return nil, fmt.Errorf("unsupported query %q: no aggregation keyword found", query)
	}

	groupBy, tokens := splitGroupBy(tokens, data)
	column := findColumn(tokens, data, groupBy)
	if column == "" && op != OpCount {
		numeric := data.NumericColumns()
		numeric = without(numeric, groupBy)
		if len(numeric) != 1 {
			return nil, fmt.Errorf("no numeric column matches query %q", query)
		}
		column = numeric[0]
	}
	if column != "" && op != OpCount {
		if c, _ := data.Column(column); c.Kind != types.ColumnNumeric {
			return nil, fmt.Errorf("column %q is not numeric", column)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := make([]int, len(data.Records))
	for i := range rows {
		rows[i] = i
	}
	value, used, err := aggregate(op, data, column, rows)
	if err != nil {
		return nil, err
	}
	res := types.Result{
		"operation": op,
		"column":    column,
		"value":     stats.Round(value, decimals),
		"rows":      used,
	}
	if groupBy == "" {
		return res, nil
	}

	buckets := make(map[string][]int)
	for i, rec := range data.Records {
		if data.IsMissing(i, groupBy) {
			continue
		}
		key := fmt.Sprint(rec[groupBy])
		buckets[key] = append(buckets[key], i)
	}
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	groups := make([]map[string]any, 0, len(keys))
	for _, k := range keys {
		v, n, err := aggregate(op, data, column, buckets[k])
		if err != nil {
			continue
		}
		groups = append(groups, map[string]any{"key": k, "value": stats.Round(v, decimals), "rows": n})
	}
	res["group_by"] = groupBy
	res["groups"] = groups
	return res, nil
}

// aggregate applies op to column over rows. An empty column counts rows.
func aggregate(op string, data *types.ProcessedData, column string, rows []int) (float64, int, error) {
	if op == OpCount {
		if column == "" {
			return float64(len(rows)), len(rows), nil
		}
		n := 0
		for _, i := range rows {
			if !data.IsMissing(i, column) {
				n++
			}
		}
		return float64(n), n, nil
	}
	var xs []float64
	for _, i := range rows {
		if f, ok := data.NumericAt(i, column); ok {
			xs = append(xs, f)
		}
	}
	if len(xs) == 0 {
		return 0, 0, fmt.Errorf("column %q has no numeric values", column)
	}
	var v float64
	switch op {
	case OpMean:
		v = stats.Mean(xs)
	case OpSum:
		v = stats.Sum(xs)
	case OpMin:
		v = stats.Min(xs)
	case OpMax:
		v = stats.Max(xs)
	case OpMedian:
		v = stats.Median(xs)
	case OpStd:
		v = stats.StdDev(xs)
	default:
		return 0, 0, fmt.Errorf("unknown aggregation %q", op)
	}
	if !stats.Finite(v) {
		return 0, 0, fmt.Errorf("%s of column %q is out of float64 range", op, column)
	}
	return v, len(xs), nil
}

// tokenize lowercases s and splits it into words. Underscores separate words
// so that "unit_price" and "unit price" match the same column.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// findAggregation returns the first aggregation named in tokens.
func findAggregation(tokens []string) string {
	for i, t := range tokens {
		if t == "how" && i+1 < len(tokens) && tokens[i+1] == "many" {
			return OpCount
		}
		if op, ok := aggregationKeywords[t]; ok {
			return op
		}
	}
	return ""
}

// splitGroupBy extracts a "by <column>" clause and returns the remaining tokens.
func splitGroupBy(tokens []string, data *types.ProcessedData) (string, []string) {
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i] != "by" && tokens[i] != "per" {
			continue
		}
		if col := matchColumn(tokens[i+1:], data); col != "" {
			rest := append(append([]string{}, tokens[:i]...), tokens[i+1+len(tokenize(col)):]...)
			return col, rest
		}
	}
	return "", tokens
}

// findColumn returns the longest column name mentioned in tokens.
func findColumn(tokens []string, data *types.ProcessedData, exclude string) string {
	best := ""
	for _, c := range data.Columns {
		if c.Name == exclude || len(c.Name) <= len(best) {
			continue
		}
		parts := tokenize(c.Name)
		if len(parts) == 0 {
			continue
		}
		for i := range tokens {
			if hasPrefix(tokens[i:], parts) {
				best = c.Name
				break
			}
		}
	}
	return best
}

// matchColumn returns the longest column whose tokens start tokens.
func matchColumn(tokens []string, data *types.ProcessedData) string {
	best := ""
	for _, c := range data.Columns {
		parts := tokenize(c.Name)
		if len(parts) > 0 && len(c.Name) > len(best) && hasPrefix(tokens, parts) {
			best = c.Name
		}
	}
	return best
}

func hasPrefix(tokens, prefix []string) bool {
	if len(prefix) > len(tokens) {
		return false
	}
	for i := range prefix {
		if tokens[i] != prefix[i] {
			return false
		}
	}
	return true
}

func without(names []string, drop string) []string {
	out := names[:0:0]
	for _, n := range names {
		if n != drop {
			out = append(out, n)
		}
	}
	return out
}

// intParam reads a non-negative integer param, accepting JSON numbers.
func intParam(params map[string]any, key string, def int) (int, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return def, nil
	}
	f, ok := types.ToFloat(v)
	if !ok || f < 0 || f != float64(int(f)) {
		return 0, fmt.Errorf("param %s must be a non-negative integer", key)
	}
	return int(f), nil
}

// floatParam reads a numeric param.
func floatParam(params map[string]any, key string, def float64) (float64, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return def, nil
	}
	f, ok := types.ToFloat(v)
	if !ok {
		return 0, fmt.Errorf("param %s must be a number", key)
	}
	return f, nil
}
