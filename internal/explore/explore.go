// Package explore produces a first look at a raw dataset: shape, inferred
// column types, null counts, a describe table and the leading rows.
package explore

import (
	"fmt"
	"io"
	"strconv"

	"github.com/KaramelBytes/mhdash/internal/console"
	"github.com/KaramelBytes/mhdash/internal/dataset"
	"github.com/go-gota/gota/dataframe"
)

// ColumnInfo is the inferred type and null count of one column.
type ColumnInfo struct {
	Name    string
	Type    string
	NonNull int
	Nulls   int
}

// Report is the exploration result.
type Report struct {
	Name     string
	Rows     int
	Cols     int
	Columns  []ColumnInfo
	Describe [][]string
	Head     [][]string
}

// Explore builds a report for ds, including up to head leading rows.
func Explore(ds *dataset.Dataset, head int) (*Report, error) {
	r := &Report{Name: ds.Name(), Rows: ds.Len(), Cols: len(ds.Header())}
	if ds.Len() == 0 {
		for _, name := range ds.Header() {
			r.Columns = append(r.Columns, ColumnInfo{Name: name, Type: "string"})
		}
		return r, nil
	}

	records := ds.Records()
	for _, row := range records[1:] {
		for j, v := range row {
			if v == "" {
				row[j] = "NaN"
			}
		}
	}
	df := dataframe.LoadRecords(records, dataframe.DetectTypes(true), dataframe.HasHeader(true))
	if df.Err != nil {
		return nil, fmt.Errorf("build dataframe: %w", df.Err)
	}
	r.Rows, r.Cols = df.Dims()

	types := df.Types()
	for j, name := range df.Names() {
		nulls := 0
		for _, nan := range df.Col(name).IsNaN() {
			if nan {
				nulls++
			}
		}
		r.Columns = append(r.Columns, ColumnInfo{Name: name, Type: string(types[j]), NonNull: r.Rows - nulls, Nulls: nulls})
	}

	desc := df.Describe()
	if desc.Err != nil {
		return nil, fmt.Errorf("describe: %w", desc.Err)
	}
	r.Describe = desc.Records()

	if head > r.Rows {
		head = r.Rows
	}
	if head > 0 {
		idx := make([]int, head)
		for i := range idx {
			idx[i] = i
		}
		sub := df.Subset(idx)
		if sub.Err != nil {
			return nil, fmt.Errorf("head: %w", sub.Err)
		}
		r.Head = sub.Records()
	}
	return r, nil
}

// Print writes the report as terminal tables.
func (r *Report) Print(w io.Writer) {
	console.Heading(w, "%s: %d rows x %d columns", r.Name, r.Rows, r.Cols)

	console.Heading(w, "Columns")
	rows := make([][]string, 0, len(r.Columns))
	for _, c := range r.Columns {
		rows = append(rows, []string{c.Name, c.Type, strconv.Itoa(c.NonNull)})
	}
	console.Table(w, []string{"column", "type", "non-null"}, rows)

	if len(r.Describe) > 1 {
		console.Heading(w, "Describe")
		console.Table(w, r.Describe[0], r.Describe[1:])
	}
	if len(r.Head) > 1 {
		console.Heading(w, "First %d rows", len(r.Head)-1)
		console.Table(w, r.Head[0], r.Head[1:])
	}

	console.Heading(w, "Missing values")
	nulls := make([][]string, 0, len(r.Columns))
	for _, c := range r.Columns {
		nulls = append(nulls, []string{c.Name, strconv.Itoa(c.Nulls)})
	}
	console.Table(w, []string{"column", "nulls"}, nulls)
}
