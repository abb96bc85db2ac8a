// Package aggregate holds the group-by, count and proportion functions behind
// every dashboard chart. Functions never modify their input dataset.
package aggregate

import (
	"sort"

	"github.com/KaramelBytes/mhdash/internal/analysis"
	"github.com/KaramelBytes/mhdash/internal/dataset"
)

// Filter sentinels meaning "do not filter on this dimension".
const (
	All   = "All"
	Total = "Total"
)

// IsSentinel reports whether v is a no-filter choice.
func IsSentinel(v string) bool { return v == All || v == Total }

// Count is the number of records with one key value.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Counts is ordered ascending by key.
type Counts []Count

// Map returns the counts keyed by value.
func (c Counts) Map() map[string]int {
	m := make(map[string]int, len(c))
	for _, x := range c {
		m[x.Key] = x.Count
	}
	return m
}

// Total returns the sum of all counts.
func (c Counts) Total() int {
	n := 0
	for _, x := range c {
		n += x.Count
	}
	return n
}

// PairCount is the number of records with one (A, B) combination.
type PairCount struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Count int    `json:"count"`
}

// Share is the within-group proportion of one category.
type Share struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Proportion float64 `json:"proportion"`
}

// GroupShares lists category proportions for one group value. Total counts the
// group's records with a non-null category.
type GroupShares struct {
	Group  string  `json:"group"`
	Total  int     `json:"total"`
	Shares []Share `json:"shares"`
}

// CountBy counts records per distinct non-null value of column.
func CountBy(ds *dataset.Dataset, column string) (Counts, error) {
	j, err := ds.Column(column)
	if err != nil {
		return nil, err
	}
	m := map[string]int{}
	for i := 0; i < ds.Len(); i++ {
		if v, ok := ds.Value(i, j); ok {
			m[v]++
		}
	}
	out := make(Counts, 0, len(m))
	for _, k := range sortedKeys(m) {
		out = append(out, Count{Key: k, Count: m[k]})
	}
	return out, nil
}

// CountByPair counts records per (a, b) combination, skipping records with a
// null in either column. Output is ordered by a, then b.
func CountByPair(ds *dataset.Dataset, a, b string) ([]PairCount, error) {
	ja, err := ds.Column(a)
	if err != nil {
		return nil, err
	}
	jb, err := ds.Column(b)
	if err != nil {
		return nil, err
	}
	type pair struct{ a, b string }
	m := map[pair]int{}
	for i := 0; i < ds.Len(); i++ {
		va, okA := ds.Value(i, ja)
		vb, okB := ds.Value(i, jb)
		if okA && okB {
			m[pair{va, vb}]++
		}
	}
	out := make([]PairCount, 0, len(m))
	for p, n := range m {
		out = append(out, PairCount{A: p.a, B: p.b, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := analysis.CompareLabels(out[i].A, out[j].A); c != 0 {
			return c < 0
		}
		return analysis.CompareLabels(out[i].B, out[j].B) < 0
	})
	return out, nil
}

// ProportionsByGroup returns, per non-null group value, the share of each
// category among the group's records with a non-null category. Groups without
// such records are omitted.
func ProportionsByGroup(ds *dataset.Dataset, group, category string) ([]GroupShares, error) {
	jg, err := ds.Column(group)
	if err != nil {
		return nil, err
	}
	jc, err := ds.Column(category)
	if err != nil {
		return nil, err
	}
	counts := map[string]map[string]int{}
	totals := map[string]int{}
	for i := 0; i < ds.Len(); i++ {
		g, okG := ds.Value(i, jg)
		c, okC := ds.Value(i, jc)
		if !okG || !okC {
			continue
		}
		if counts[g] == nil {
			counts[g] = map[string]int{}
		}
		counts[g][c]++
		totals[g]++
	}
	out := make([]GroupShares, 0, len(counts))
	for _, g := range sortedKeys(totals) {
		gs := GroupShares{Group: g, Total: totals[g]}
		for _, c := range sortedKeys(counts[g]) {
			n := counts[g][c]
			gs.Shares = append(gs.Shares, Share{Category: c, Count: n, Proportion: float64(n) / float64(totals[g])})
		}
		out = append(out, gs)
	}
	return out, nil
}

// FilterBy returns the records whose column equals value. A sentinel value
// returns ds itself. The column is checked even for sentinels.
func FilterBy(ds *dataset.Dataset, column, value string) (*dataset.Dataset, error) {
	j, err := ds.Column(column)
	if err != nil {
		return nil, err
	}
	if IsSentinel(value) {
		return ds, nil
	}
	return ds.Select(func(i int) bool {
		v, ok := ds.Value(i, j)
		return ok && v == value
	}), nil
}

// Options returns the selectable filter values for column: All first, then
// the distinct non-null values in ascending order.
func Options(ds *dataset.Dataset, column string) ([]string, error) {
	counts, err := CountBy(ds, column)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(counts)+1)
	out = append(out, All)
	for _, c := range counts {
		if !IsSentinel(c.Key) {
			out = append(out, c.Key)
		}
	}
	return out, nil
}

// Box is a five-number summary.
type Box struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// NumericGroup holds the values of a numeric column for one group value.
type NumericGroup struct {
	Group  string    `json:"group"`
	Values []float64 `json:"values"`
	Box    Box       `json:"box"`
}

// NumericByGroup collects the non-null values of column per non-null group value,
// with a box summary of each. Groups without values are omitted, so every box
// is finite.
func NumericByGroup(ds *dataset.Dataset, column, group string) ([]NumericGroup, error) {
	jv, err := ds.Column(column)
	if err != nil {
		return nil, err
	}
	jg, err := ds.Column(group)
	if err != nil {
		return nil, err
	}
	vals := map[string][]float64{}
	for i := 0; i < ds.Len(); i++ {
		g, ok := ds.Value(i, jg)
		if !ok {
			continue
		}
		if f, ok := ds.Float(i, jv); ok {
			vals[g] = append(vals[g], f)
		}
	}
	out := make([]NumericGroup, 0, len(vals))
	for _, g := range sortedKeys(vals) {
		s := analysis.Describe(vals[g])
		out = append(out, NumericGroup{
			Group:  g,
			Values: vals[g],
			Box:    Box{Min: s.Min, Q1: s.Q25, Median: s.Q50, Q3: s.Q75, Max: s.Max},
		})
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return analysis.CompareLabels(keys[i], keys[j]) < 0 })
	return keys
}
