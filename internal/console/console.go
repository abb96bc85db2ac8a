// Package console prints reports as terminal tables.
package console

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/KaramelBytes/mhdash/internal/aggregate"
	"github.com/KaramelBytes/mhdash/internal/analysis"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	heading = color.New(color.FgYellow, color.Bold)
	warn    = color.New(color.FgRed)
)

// Heading prints a section title.
func Heading(w io.Writer, format string, a ...interface{}) {
	heading.Fprintf(w, "\n"+format+"\n", a...)
}

// Table renders rows under header.
func Table(w io.Writer, header []string, rows [][]string) {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.AppendBulk(rows)
	t.Render()
}

// Num formats a statistic for display; NaN prints as "NaN".
func Num(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

var statHeader = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

func statCells(s analysis.NumericSummary) []string {
	return []string{strconv.Itoa(s.Count), Num(s.Mean), Num(s.Std), Num(s.Min), Num(s.Q25), Num(s.Q50), Num(s.Q75), Num(s.Max)}
}

// PrintComparison prints per-group statistics for each column and the advisory
// test result beneath each table.
func PrintComparison(w io.Writer, c *analysis.Comparison) {
	Heading(w, "%s", c.Title)
	for _, g := range c.Groups {
		fmt.Fprintf(w, "  %s: %d rows\n", g, c.Sizes[g])
	}
	for _, n := range c.Numeric {
		Heading(w, ">> %s", n.Column)
		rows := make([][]string, 0, len(c.Groups))
		for _, g := range c.Groups {
			rows = append(rows, append([]string{g}, statCells(n.ByGroup[g])...))
		}
		Table(w, append([]string{"group"}, statHeader...), rows)
		printTest(w, n.Test)
	}
	for _, n := range c.Categorical {
		Heading(w, ">> %s", n.Column)
		var rows [][]string
		for _, g := range c.Groups {
			for _, f := range n.ByGroup[g] {
				rows = append(rows, []string{g, f.Value, strconv.FormatFloat(f.Proportion, 'f', 4, 64)})
			}
		}
		Table(w, []string{"group", "value", "proportion"}, rows)
		printTest(w, n.Test)
	}
}

func printTest(w io.Writer, t analysis.AssociationTest) {
	if !t.Valid {
		fmt.Fprintln(w, "advisory test: n/a")
		return
	}
	line := fmt.Sprintf("advisory %s: stat=%.3f df=%.1f p=%.4f", t.Method, t.Statistic, t.DF, t.PValue)
	if t.Flagged() {
		warn.Fprintln(w, line+" (review)")
		return
	}
	fmt.Fprintln(w, line)
}

// PrintSummary prints a describe table and the category counts.
func PrintSummary(w io.Writer, s *analysis.Summary) {
	Heading(w, "Dataset summary: %s (%d rows, %d columns)", s.Name, s.Rows, s.Columns)
	if len(s.Numeric) > 0 {
		rows := make([][]string, 0, len(s.Numeric))
		for _, c := range s.Numeric {
			rows = append(rows, append([]string{c.Column}, statCells(c.Stats)...))
		}
		Table(w, append([]string{"column"}, statHeader...), rows)
	}
	for _, c := range s.Categorical {
		Heading(w, "%s", c.Column)
		rows := make([][]string, 0, len(c.Counts)+1)
		for _, f := range c.Counts {
			rows = append(rows, []string{f.Value, strconv.Itoa(f.Count)})
		}
		if c.Nulls > 0 {
			rows = append(rows, []string{"NaN", strconv.Itoa(c.Nulls)})
		}
		Table(w, []string{"value", "count"}, rows)
	}
}

// PrintViews prints every dashboard view as a table.
func PrintViews(w io.Writer, v *aggregate.Views) {
	Heading(w, "Condition: %s | Country: %s | Records: %d", v.Selection.Condition, v.Selection.Country, v.Records)

	Heading(w, "Gender distribution")
	Table(w, []string{"Gender", "Count"}, countRows(v.GenderCounts))

	for _, nv := range []struct {
		title  string
		groups []aggregate.NumericGroup
	}{
		{"Work hours per week by gender", v.WorkHoursByGender},
		{"Happiness score by gender", v.HappinessByGender},
	} {
		Heading(w, "%s", nv.title)
		rows := make([][]string, 0, len(nv.groups))
		for _, g := range nv.groups {
			b := g.Box
			rows = append(rows, []string{g.Group, strconv.Itoa(len(g.Values)), Num(b.Min), Num(b.Q1), Num(b.Median), Num(b.Q3), Num(b.Max)})
		}
		Table(w, []string{"Gender", "n", "min", "q1", "median", "q3", "max"}, rows)
	}

	Heading(w, "Condition share")
	Table(w, []string{"Mental Health Condition", "Count"}, countRows(v.ConditionCounts))

	Heading(w, "Condition share by country")
	var share [][]string
	for _, g := range v.ConditionShareByCountry {
		for _, s := range g.Shares {
			share = append(share, []string{g.Group, s.Category, strconv.Itoa(s.Count), strconv.FormatFloat(s.Proportion, 'f', 4, 64)})
		}
	}
	Table(w, []string{"Country", "Condition", "Count", "Proportion"}, share)

	Heading(w, "Records by age and gender")
	pairs := make([][]string, 0, len(v.AgeGenderCounts))
	for _, p := range v.AgeGenderCounts {
		pairs = append(pairs, []string{p.A, p.B, strconv.Itoa(p.Count)})
	}
	Table(w, []string{"Age", "Gender", "Count"}, pairs)

	Heading(w, "Records by country")
	Table(w, []string{"Country", "Count"}, countRows(v.CountryCounts))
}

func countRows(c aggregate.Counts) [][]string {
	rows := make([][]string, 0, len(c))
	for _, x := range c {
		rows = append(rows, []string{x.Key, strconv.Itoa(x.Count)})
	}
	return rows
}
