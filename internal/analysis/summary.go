package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/mhdash/internal/dataset"
)

// ColumnDescription pairs a numeric column with its statistics.
type ColumnDescription struct {
	Column string         `json:"column"`
	Stats  NumericSummary `json:"stats"`
}

// CategoryCounts lists the value counts of a categorical column, nulls included.
type CategoryCounts struct {
	Column string      `json:"column"`
	Counts []Frequency `json:"counts"`
	Nulls  int         `json:"nulls"`
}

// Summary is a describe-style overview of a dataset.
type Summary struct {
	Name        string              `json:"name"`
	Rows        int                 `json:"rows"`
	Columns     int                 `json:"columns"`
	Numeric     []ColumnDescription `json:"numeric"`
	Categorical []CategoryCounts    `json:"categorical"`
}

// Summarize describes the numeric columns and counts the categorical ones.
// Columns missing from the dataset are a schema mismatch.
func Summarize(ds *dataset.Dataset, numeric, categorical []string) (*Summary, error) {
	s := &Summary{Name: ds.Name(), Rows: ds.Len(), Columns: len(ds.Header())}
	for _, col := range numeric {
		vals, err := ds.Floats(col)
		if err != nil {
			return nil, err
		}
		s.Numeric = append(s.Numeric, ColumnDescription{Column: col, Stats: Describe(vals)})
	}
	for _, col := range categorical {
		vals, err := ds.Values(col)
		if err != nil {
			return nil, err
		}
		s.Categorical = append(s.Categorical, CategoryCounts{Column: col, Counts: Frequencies(vals), Nulls: ds.Len() - len(vals)})
	}
	return s, nil
}

// Markdown renders the summary as a compact report.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if s.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", s.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", s.Columns))
	if len(s.Numeric) > 0 {
		b.WriteString("\n[NUMERIC COLUMNS]\n\n")
		b.WriteString("| column | count | mean | std | min | 25% | 50% | 75% | max |\n")
		b.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- | --- |\n")
		for _, c := range s.Numeric {
			st := c.Stats
			b.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s | %s | %s | %s |\n",
				safeVal(c.Column), st.Count, num(st.Mean), num(st.Std), num(st.Min), num(st.Q25), num(st.Q50), num(st.Q75), num(st.Max)))
		}
	}
	if len(s.Categorical) > 0 {
		b.WriteString("\n[CATEGORY COUNTS]\n")
		for _, c := range s.Categorical {
			b.WriteString(fmt.Sprintf("- %s: ", c.Column))
			for i, f := range c.Counts {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(f.Value), f.Count))
			}
			if c.Nulls > 0 {
				if len(c.Counts) > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("NaN(%d)", c.Nulls))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
