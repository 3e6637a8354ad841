package insights

import (
	"fmt"
	"math"

	"aiengine/internal/stats"
	"aiengine/pkg/types"
)

// highlights renders the findings as short sentences, columns first.
func highlights(data *types.ProcessedData, corrs []Correlation, outliers []Outlier, tops map[string][]ValueCount) []string {
	out := []string{}
	if len(data.Records) == 0 {
		return append(out, "dataset is empty")
	}
	outlierCount := make(map[string]int)
	for _, o := range outliers {
		outlierCount[o.Column]++
	}
	for _, c := range data.Columns {
		if c.Missing > 0 {
			out = append(out, fmt.Sprintf("%s is missing %d of %d values", c.Name, c.Missing, c.Missing+c.Count))
		}
		switch {
		case c.Kind == types.ColumnNumeric && c.Mean != nil:
			out = append(out, fmt.Sprintf("%s ranges from %s to %s with mean %s",
				c.Name, num(*c.Min), num(*c.Max), num(*c.Mean)))
			if n := outlierCount[c.Name]; n > 0 {
				out = append(out, fmt.Sprintf("%d outlier(s) detected in %s", n, c.Name))
			}
		case len(tops[c.Name]) > 0:
			top := tops[c.Name][0]
			out = append(out, fmt.Sprintf("most common %s is %s (%d of %d rows)", c.Name, top.Value, top.Count, c.Count))
		}
	}
	for _, cr := range corrs {
		out = append(out, fmt.Sprintf("%s %s correlation between %s and %s (r=%s)",
			strength(cr.R), direction(cr.R), cr.A, cr.B, num(cr.R)))
	}
	return out
}

func strength(r float64) string {
	switch a := math.Abs(r); {
	case a >= 0.8:
		return "strong"
	case a >= 0.5:
		return "moderate"
	default:
		return "weak"
	}
}

func direction(r float64) string {
	if r < 0 {
		return "negative"
	}
	return "positive"
}

func num(f float64) string {
	return fmt.Sprint(stats.Round(f, 4))
}
