package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Dataset is an immutable table of survey records. Null values are stored as
// empty strings. Subsets returned by Select share row storage with their parent;
// no method writes to a row after construction.
type Dataset struct {
	name   string
	header []string
	index  map[string]int
	rows   [][]string
}

// New builds a dataset from a header and rows. Rows shorter than the header are
// padded with nulls; longer rows are an error.
func New(name string, header []string, rows [][]string) (*Dataset, error) {
	h := make([]string, len(header))
	idx := make(map[string]int, len(header))
	for i, c := range header {
		c = strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))
		if c == "" {
			return nil, &SchemaError{Column: fmt.Sprintf("#%d", i+1), Reason: "empty column name"}
		}
		if _, dup := idx[c]; dup {
			return nil, &SchemaError{Column: c, Reason: "duplicate column name"}
		}
		h[i] = c
		idx[c] = i
	}
	out := make([][]string, 0, len(rows))
	for n, r := range rows {
		if len(r) > len(h) {
			return nil, &SchemaError{Column: "*", Row: n + 1, Reason: fmt.Sprintf("%d fields, header has %d", len(r), len(h))}
		}
		row := make([]string, len(h))
		copy(row, r)
		out = append(out, row)
	}
	return &Dataset{name: name, header: h, index: idx, rows: out}, nil
}

// Name returns the dataset name, usually the base name of the source file.
func (d *Dataset) Name() string { return d.name }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.rows) }

// Header returns a copy of the column names.
func (d *Dataset) Header() []string {
	h := make([]string, len(d.header))
	copy(h, d.header)
	return h
}

// HasColumn reports whether the header contains name.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column resolves a column name to its position.
func (d *Dataset) Column(name string) (int, error) {
	i, ok := d.index[name]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return i, nil
}

// Value returns the field at row i, column j; ok is false for nulls.
func (d *Dataset) Value(i, j int) (string, bool) {
	v := d.rows[i][j]
	return v, v != ""
}

// Float parses the field at row i, column j; ok is false for nulls and non-numeric fields.
func (d *Dataset) Float(i, j int) (float64, bool) {
	v := d.rows[i][j]
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Row returns a copy of row i.
func (d *Dataset) Row(i int) []string {
	r := make([]string, len(d.rows[i]))
	copy(r, d.rows[i])
	return r
}

// Values returns the non-null values of a column in row order.
func (d *Dataset) Values(name string) ([]string, error) {
	j, err := d.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(d.rows))
	for i := range d.rows {
		if v, ok := d.Value(i, j); ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// Floats returns the parsed non-null values of a column in row order.
func (d *Dataset) Floats(name string) ([]float64, error) {
	j, err := d.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(d.rows))
	for i := range d.rows {
		if f, ok := d.Float(i, j); ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// NullCount returns how many records have a null in the column.
func (d *Dataset) NullCount(name string) (int, error) {
	j, err := d.Column(name)
	if err != nil {
		return 0, err
	}
	n := 0
	for i := range d.rows {
		if _, ok := d.Value(i, j); !ok {
			n++
		}
	}
	return n, nil
}

// Select returns the records for which keep returns true, in order.
func (d *Dataset) Select(keep func(i int) bool) *Dataset {
	rows := make([][]string, 0, len(d.rows))
	for i := range d.rows {
		if keep(i) {
			rows = append(rows, d.rows[i])
		}
	}
	return &Dataset{name: d.name, header: d.header, index: d.index, rows: rows}
}

// Without returns a dataset lacking the named columns. Unknown names are ignored.
func (d *Dataset) Without(names ...string) *Dataset {
	drop := map[int]bool{}
	for _, n := range names {
		if j, ok := d.index[n]; ok {
			drop[j] = true
		}
	}
	if len(drop) == 0 {
		return d
	}
	keep := make([]int, 0, len(d.header))
	header := make([]string, 0, len(d.header))
	for j, c := range d.header {
		if !drop[j] {
			keep = append(keep, j)
			header = append(header, c)
		}
	}
	rows := make([][]string, len(d.rows))
	for i, r := range d.rows {
		nr := make([]string, len(keep))
		for k, j := range keep {
			nr[k] = r[j]
		}
		rows[i] = nr
	}
	idx := make(map[string]int, len(header))
	for j, c := range header {
		idx[c] = j
	}
	return &Dataset{name: d.name, header: header, index: idx, rows: rows}
}

// WithColumn returns a dataset with an extra column computed per record.
func (d *Dataset) WithColumn(name string, value func(i int) string) (*Dataset, error) {
	if d.HasColumn(name) {
		return nil, &SchemaError{Column: name, Reason: "duplicate column name"}
	}
	header := append(d.Header(), name)
	rows := make([][]string, len(d.rows))
	for i, r := range d.rows {
		nr := make([]string, len(r)+1)
		copy(nr, r)
		nr[len(r)] = value(i)
		rows[i] = nr
	}
	return New(d.name, header, rows)
}

// Records returns header and rows as a fresh string matrix.
func (d *Dataset) Records() [][]string {
	out := make([][]string, 0, len(d.rows)+1)
	out = append(out, d.Header())
	for i := range d.rows {
		out = append(out, d.Row(i))
	}
	return out
}

// Validate checks the dataset against a schema: required columns must be
// non-null, integer columns must hold positive integers and numeric columns must
// parse. Schema columns absent from the header are skipped.
func Validate(d *Dataset, s Schema) error {
	for _, c := range s.Columns {
		j, ok := d.index[c.Name]
		if !ok {
			continue
		}
		for i := range d.rows {
			v, present := d.Value(i, j)
			if !present {
				if c.Required {
					return &SchemaError{Column: c.Name, Row: i + 1, Reason: "null in required column"}
				}
				continue
			}
			switch c.Kind {
			case Integer:
				n, err := strconv.Atoi(v)
				if err != nil {
					return &SchemaError{Column: c.Name, Row: i + 1, Reason: fmt.Sprintf("not an integer: %q", v)}
				}
				if n <= 0 {
					return &SchemaError{Column: c.Name, Row: i + 1, Reason: fmt.Sprintf("must be > 0, got %d", n)}
				}
			case Numeric:
				if _, ok := d.Float(i, j); !ok {
					return &SchemaError{Column: c.Name, Row: i + 1, Reason: fmt.Sprintf("not numeric: %q", v)}
				}
			}
		}
	}
	return nil
}
