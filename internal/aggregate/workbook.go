package aggregate

import (
	"fmt"

	"github.com/KaramelBytes/mhdash/internal/utils"
	"github.com/xuri/excelize/v2"
)

// WriteWorkbook saves every view as its own sheet of an xlsx workbook.
func WriteWorkbook(path string, v *Views) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name   string
		header []interface{}
		rows   [][]interface{}
	}{
		{"Selection", []interface{}{"condition", "country", "records"},
			[][]interface{}{{v.Selection.Condition, v.Selection.Country, v.Records}}},
		{"Gender", []interface{}{"Gender", "Count"}, countRows(v.GenderCounts)},
		{"Work Hours", []interface{}{"Gender", "Min", "Q1", "Median", "Q3", "Max", "N"}, boxRows(v.WorkHoursByGender)},
		{"Happiness", []interface{}{"Gender", "Min", "Q1", "Median", "Q3", "Max", "N"}, boxRows(v.HappinessByGender)},
		{"Conditions", []interface{}{"Mental Health Condition", "Count"}, countRows(v.ConditionCounts)},
		{"Condition Share", []interface{}{"Country", "Mental Health Condition", "Count", "Proportion"}, shareRows(v.ConditionShareByCountry)},
		{"Age x Gender", []interface{}{"Age", "Gender", "Count"}, pairRows(v.AgeGenderCounts)},
		{"Countries", []interface{}{"Country", "Count"}, countRows(v.CountryCounts)},
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, "A1", &s.header); err != nil {
			return err
		}
		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return fmt.Errorf("sheet %s: %w", s.name, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

func countRows(c Counts) [][]interface{} {
	out := make([][]interface{}, 0, len(c))
	for _, x := range c {
		out = append(out, []interface{}{x.Key, x.Count})
	}
	return out
}

func pairRows(p []PairCount) [][]interface{} {
	out := make([][]interface{}, 0, len(p))
	for _, x := range p {
		out = append(out, []interface{}{x.A, x.B, x.Count})
	}
	return out
}

func boxRows(groups []NumericGroup) [][]interface{} {
	out := make([][]interface{}, 0, len(groups))
	for _, g := range groups {
		out = append(out, []interface{}{g.Group, g.Box.Min, g.Box.Q1, g.Box.Median, g.Box.Q3, g.Box.Max, len(g.Values)})
	}
	return out
}

func shareRows(groups []GroupShares) [][]interface{} {
	var out [][]interface{}
	for _, g := range groups {
		for _, s := range g.Shares {
			out = append(out, []interface{}{g.Group, s.Category, s.Count, s.Proportion})
		}
	}
	return out
}
