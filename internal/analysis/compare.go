package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/mhdash/internal/dataset"
)

// Group is one labelled partition of a dataset.
type Group struct {
	Label string
	Data  *dataset.Dataset
}

// NumericComparison holds per-group descriptive statistics for a numeric column.
type NumericComparison struct {
	Column  string                    `json:"column"`
	ByGroup map[string]NumericSummary `json:"by_group"`
	Test    AssociationTest           `json:"test"`
}

// CategoricalComparison holds per-group normalized frequencies for a categorical column.
type CategoricalComparison struct {
	Column  string                 `json:"column"`
	ByGroup map[string][]Frequency `json:"by_group"`
	Test    AssociationTest        `json:"test"`
}

// Comparison is a column-by-column comparison of several groups.
type Comparison struct {
	Title       string                  `json:"title"`
	Groups      []string                `json:"groups"`
	Sizes       map[string]int          `json:"sizes"`
	Numeric     []NumericComparison     `json:"numeric"`
	Categorical []CategoricalComparison `json:"categorical"`
}

// Compare describes every numeric column and the value frequencies of every
// categorical column within each group. Advisory tests are attached: Welch's t
// for numeric columns when there are exactly two groups, chi-square otherwise.
func Compare(title string, groups []Group, numeric, categorical []string) (*Comparison, error) {
	cmp := &Comparison{Title: title, Sizes: map[string]int{}}
	for _, g := range groups {
		cmp.Groups = append(cmp.Groups, g.Label)
		cmp.Sizes[g.Label] = g.Data.Len()
	}
	for _, col := range numeric {
		nc := NumericComparison{Column: col, ByGroup: map[string]NumericSummary{}}
		var samples [][]float64
		for _, g := range groups {
			vals, err := g.Data.Floats(col)
			if err != nil {
				return nil, err
			}
			samples = append(samples, vals)
			nc.ByGroup[g.Label] = Describe(vals)
		}
		if len(samples) == 2 {
			nc.Test = WelchTTest(samples[0], samples[1])
		}
		cmp.Numeric = append(cmp.Numeric, nc)
	}
	for _, col := range categorical {
		cc := CategoricalComparison{Column: col, ByGroup: map[string][]Frequency{}}
		perGroup := make([]map[string]int, len(groups))
		cats := map[string]bool{}
		for i, g := range groups {
			vals, err := g.Data.Values(col)
			if err != nil {
				return nil, err
			}
			cc.ByGroup[g.Label] = Frequencies(vals)
			perGroup[i] = map[string]int{}
			for _, v := range vals {
				perGroup[i][v]++
				cats[v] = true
			}
		}
		keys := make([]string, 0, len(cats))
		for k := range cats {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return CompareLabels(keys[i], keys[j]) < 0 })
		table := make([][]int, len(groups))
		for i := range groups {
			table[i] = make([]int, len(keys))
			for c, k := range keys {
				table[i][c] = perGroup[i][k]
			}
		}
		cc.Test = ChiSquareIndependence(table)
		cmp.Categorical = append(cmp.Categorical, cc)
	}
	return cmp, nil
}

// Flagged returns the columns whose advisory test is significant at Alpha.
func (c *Comparison) Flagged() []string {
	var out []string
	for _, n := range c.Numeric {
		if n.Test.Flagged() {
			out = append(out, n.Column)
		}
	}
	for _, n := range c.Categorical {
		if n.Test.Flagged() {
			out = append(out, n.Column)
		}
	}
	return out
}

// Markdown renders the comparison in the bracketed-section report style.
func (c *Comparison) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]\n", strings.ToUpper(c.Title)))
	for _, g := range c.Groups {
		b.WriteString(fmt.Sprintf("- %s: %d rows\n", g, c.Sizes[g]))
	}
	if len(c.Numeric) > 0 {
		b.WriteString("\n[NUMERICAL VARIABLES]\n")
		for _, n := range c.Numeric {
			b.WriteString(fmt.Sprintf("\n>> %s\n\n", n.Column))
			b.WriteString("| group | count | mean | std | min | 25% | 50% | 75% | max |\n")
			b.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- | --- |\n")
			for _, g := range c.Groups {
				s := n.ByGroup[g]
				b.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s | %s | %s | %s |\n",
					safeVal(g), s.Count, num(s.Mean), num(s.Std), num(s.Min), num(s.Q25), num(s.Q50), num(s.Q75), num(s.Max)))
			}
			b.WriteString(testLine(n.Test))
		}
	}
	if len(c.Categorical) > 0 {
		b.WriteString("\n[CATEGORICAL VARIABLES]\n")
		for _, n := range c.Categorical {
			b.WriteString(fmt.Sprintf("\n>> %s\n\n", n.Column))
			b.WriteString("| group | value | proportion |\n")
			b.WriteString("| --- | --- | --- |\n")
			for _, g := range c.Groups {
				for _, f := range n.ByGroup[g] {
					b.WriteString(fmt.Sprintf("| %s | %s | %.4f |\n", safeVal(g), safeVal(f.Value), f.Proportion))
				}
			}
			b.WriteString(testLine(n.Test))
		}
	}
	return b.String()
}

func testLine(t AssociationTest) string {
	if !t.Valid {
		return "\nadvisory test: n/a\n"
	}
	mark := ""
	if t.Flagged() {
		mark = " (review)"
	}
	return fmt.Sprintf("\nadvisory %s: stat=%.3f, df=%.1f, p=%.4f%s\n", t.Method, t.Statistic, t.DF, t.PValue, mark)
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.4g", v)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
