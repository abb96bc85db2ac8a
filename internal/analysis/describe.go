package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
)

// NumericSummary holds the descriptive statistics of one numeric column:
// count, mean, sample standard deviation, min, quartiles and max.
type NumericSummary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Q25   float64 `json:"q25"`
	Q50   float64 `json:"q50"`
	Q75   float64 `json:"q75"`
	Max   float64 `json:"max"`
}

// Describe computes a NumericSummary. Quartiles interpolate linearly between
// closest ranks at position q*(n-1). Empty input yields Count 0 and NaN elsewhere;
// a single value has NaN std.
func Describe(values []float64) NumericSummary {
	nan := math.NaN()
	s := NumericSummary{Count: len(values), Mean: nan, Std: nan, Min: nan, Q25: nan, Q50: nan, Q75: nan, Max: nan}
	if len(values) == 0 {
		return s
	}
	s.Mean, _ = stats.Mean(values)
	s.Min, _ = stats.Min(values)
	s.Max, _ = stats.Max(values)
	if len(values) > 1 {
		s.Std, _ = stats.StandardDeviationSample(values)
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	s.Q25 = quantile(sorted, 0.25)
	s.Q50 = quantile(sorted, 0.5)
	s.Q75 = quantile(sorted, 0.75)
	return s
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// Frequency is the count and share of one category value.
type Frequency struct {
	Value      string  `json:"value"`
	Count      int     `json:"count"`
	Proportion float64 `json:"proportion"`
}

// Frequencies counts values and normalizes by their total. Output is ordered by
// count descending, ties by label.
func Frequencies(values []string) []Frequency {
	counts := map[string]int{}
	for _, v := range values {
		counts[v]++
	}
	out := make([]Frequency, 0, len(counts))
	for v, n := range counts {
		out = append(out, Frequency{Value: v, Count: n, Proportion: float64(n) / float64(len(values))})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return CompareLabels(out[i].Value, out[j].Value) < 0
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// CompareLabels orders display labels ascending. Labels that parse as numbers
// sort first and compare numerically, so "9" sorts before "18"; text labels
// follow in string order. Equal numbers such as "1" and "1.0" fall back to
// string order so the result is a total order.
func CompareLabels(a, b string) int {
	fa, na := numericLabel(a)
	fb, nb := numericLabel(b)
	switch {
	case na && !nb:
		return -1
	case !na && nb:
		return 1
	case na && nb:
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
	}
	return strings.Compare(a, b)
}

// numericLabel parses s as a number. NaN counts as text since it has no order.
func numericLabel(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
