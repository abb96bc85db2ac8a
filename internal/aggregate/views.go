package aggregate

import (
	"github.com/KaramelBytes/mhdash/internal/dataset"
)

// Selection is the dashboard filter state. Empty fields mean All.
type Selection struct {
	Condition string `json:"condition" form:"condition"`
	Country   string `json:"country" form:"country"`
	// ConditionColumn names the condition column; empty means the survey default.
	ConditionColumn string `json:"-" form:"-"`
}

// Column returns the condition column the selection filters on.
func (s Selection) Column() string {
	if s.ConditionColumn == "" {
		return dataset.ColCondition
	}
	return s.ConditionColumn
}

// Normalize replaces empty fields with All.
func (s Selection) Normalize() Selection {
	if s.Condition == "" {
		s.Condition = All
	}
	if s.Country == "" {
		s.Country = All
	}
	return s
}

// Apply filters ds by condition, then by country.
func (s Selection) Apply(ds *dataset.Dataset) (*dataset.Dataset, error) {
	s = s.Normalize()
	out, err := FilterBy(ds, s.Column(), s.Condition)
	if err != nil {
		return nil, err
	}
	return FilterBy(out, dataset.ColCountry, s.Country)
}

// Views is the data behind every dashboard chart for one selection.
type Views struct {
	Selection Selection `json:"selection"`
	Records   int       `json:"records"`
	// GenderCounts feeds the bar chart.
	GenderCounts Counts `json:"gender_counts"`
	// WorkHoursByGender feeds the violin chart.
	WorkHoursByGender []NumericGroup `json:"work_hours_by_gender"`
	// HappinessByGender feeds the box chart.
	HappinessByGender []NumericGroup `json:"happiness_by_gender"`
	// ConditionCounts feeds the pie chart. It ignores the condition filter so
	// the share of every condition in the selected country stays visible.
	ConditionCounts Counts `json:"condition_counts"`
	// ConditionShareByCountry is the per-country condition mix of the same subset.
	ConditionShareByCountry []GroupShares `json:"condition_share_by_country"`
	// AgeGenderCounts feeds the line chart.
	AgeGenderCounts []PairCount `json:"age_gender_counts"`
	// CountryCounts feeds the choropleth.
	CountryCounts Counts `json:"country_counts"`
}

// BuildViews computes all chart data for sel. An empty subset yields empty
// views, not an error.
func BuildViews(ds *dataset.Dataset, sel Selection) (*Views, error) {
	sel = sel.Normalize()
	filtered, err := sel.Apply(ds)
	if err != nil {
		return nil, err
	}
	byCountry, err := FilterBy(ds, dataset.ColCountry, sel.Country)
	if err != nil {
		return nil, err
	}

	v := &Views{Selection: sel, Records: filtered.Len()}
	if v.GenderCounts, err = CountBy(filtered, dataset.ColGender); err != nil {
		return nil, err
	}
	if v.WorkHoursByGender, err = NumericByGroup(filtered, dataset.ColWorkHours, dataset.ColGender); err != nil {
		return nil, err
	}
	if v.HappinessByGender, err = NumericByGroup(filtered, dataset.ColHappiness, dataset.ColGender); err != nil {
		return nil, err
	}
	if v.ConditionCounts, err = CountBy(byCountry, sel.Column()); err != nil {
		return nil, err
	}
	if v.ConditionShareByCountry, err = ProportionsByGroup(byCountry, dataset.ColCountry, sel.Column()); err != nil {
		return nil, err
	}
	if v.AgeGenderCounts, err = CountByPair(filtered, dataset.ColAge, dataset.ColGender); err != nil {
		return nil, err
	}
	if v.CountryCounts, err = CountBy(filtered, dataset.ColCountry); err != nil {
		return nil, err
	}
	return v, nil
}
