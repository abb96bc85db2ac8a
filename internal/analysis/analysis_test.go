package analysis

import (
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/KaramelBytes/mhdash/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe_MatchesLinearQuartiles(t *testing.T) {
	s := Describe([]float64{4, 1, 3, 2})
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3.0), s.Std, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.InDelta(t, 1.75, s.Q25, 1e-12)
	assert.InDelta(t, 2.5, s.Q50, 1e-12)
	assert.InDelta(t, 3.25, s.Q75, 1e-12)
	assert.Equal(t, 4.0, s.Max)
}

func TestDescribe_EdgeCases(t *testing.T) {
	empty := Describe(nil)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, math.IsNaN(empty.Mean))

	one := Describe([]float64{7})
	assert.Equal(t, 7.0, one.Mean)
	assert.Equal(t, 7.0, one.Q25)
	assert.True(t, math.IsNaN(one.Std))
}

func TestFrequencies_SumToOneAndOrder(t *testing.T) {
	f := Frequencies([]string{"b", "a", "b", "c", "a", "b"})
	require.Len(t, f, 3)
	assert.Equal(t, "b", f[0].Value)
	assert.Equal(t, "a", f[1].Value)
	assert.Equal(t, "c", f[2].Value)
	var sum float64
	for _, x := range f {
		sum += x.Proportion
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestCompareLabels_NumericAware(t *testing.T) {
	labels := []string{"18", "9", "Male", "Female", "100"}
	sort.Slice(labels, func(i, j int) bool { return CompareLabels(labels[i], labels[j]) < 0 })
	assert.Equal(t, []string{"9", "18", "100", "Female", "Male"}, labels)

	// Mixed numeric and text labels sort the same whatever the input order.
	for _, in := range [][]string{{"9", "10", "1a"}, {"1a", "9", "10"}, {"10", "1a", "9"}, {"1a", "10", "9"}} {
		got := append([]string(nil), in...)
		sort.Slice(got, func(i, j int) bool { return CompareLabels(got[i], got[j]) < 0 })
		assert.Equal(t, []string{"9", "10", "1a"}, got, "input %v", in)
	}
	assert.Equal(t, -1, CompareLabels("1", "1.0"))
	assert.Equal(t, 1, CompareLabels("1.0", "1"))
	assert.Equal(t, 1, CompareLabels("NaN", "5"))
}

func TestWelchTTest(t *testing.T) {
	same := WelchTTest([]float64{1, 2, 3, 4}, []float64{1, 2, 3, 4})
	require.True(t, same.Valid)
	assert.InDelta(t, 0, same.Statistic, 1e-12)
	assert.InDelta(t, 1, same.PValue, 1e-9)
	assert.False(t, same.Flagged())

	apart := WelchTTest([]float64{1, 2, 3, 4, 5}, []float64{11, 12, 13, 14, 15})
	require.True(t, apart.Valid)
	assert.Less(t, apart.PValue, 0.001)
	assert.True(t, apart.Flagged())

	assert.False(t, WelchTTest([]float64{1}, []float64{2, 3}).Valid)
	assert.False(t, WelchTTest([]float64{2, 2}, []float64{2, 2}).Valid)
}

func TestChiSquareIndependence(t *testing.T) {
	indep := ChiSquareIndependence([][]int{{10, 10}, {10, 10}})
	require.True(t, indep.Valid)
	assert.InDelta(t, 0, indep.Statistic, 1e-12)
	assert.InDelta(t, 1, indep.PValue, 1e-9)
	assert.Equal(t, 1.0, indep.DF)

	dep := ChiSquareIndependence([][]int{{50, 0}, {0, 50}})
	require.True(t, dep.Valid)
	assert.Less(t, dep.PValue, 0.001)

	assert.False(t, ChiSquareIndependence([][]int{{5, 5}}).Valid)
	assert.False(t, ChiSquareIndependence([][]int{{5, 0}, {7, 0}}).Valid)
}

func survey(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New("survey.csv",
		[]string{dataset.ColCountry, dataset.ColAge, dataset.ColGender, dataset.ColCondition},
		[][]string{
			{"USA", "20", "Male", "Anxiety"},
			{"USA", "30", "Female", ""},
			{"UK", "40", "Female", "Depression"},
			{"UK", "50", "Male", ""},
		})
	require.NoError(t, err)
	return ds
}

func TestCompare_GroupsAndProportions(t *testing.T) {
	ds := survey(t)
	j, err := ds.Column(dataset.ColCondition)
	require.NoError(t, err)
	present := ds.Select(func(i int) bool { _, ok := ds.Value(i, j); return ok })
	missing := ds.Select(func(i int) bool { _, ok := ds.Value(i, j); return !ok })

	cmp, err := Compare("missingness", []Group{{"False", present}, {"True", missing}},
		[]string{dataset.ColAge}, []string{dataset.ColGender, dataset.ColCountry})
	require.NoError(t, err)

	assert.Equal(t, []string{"False", "True"}, cmp.Groups)
	assert.Equal(t, 2, cmp.Sizes["True"])
	assert.InDelta(t, 30, cmp.Numeric[0].ByGroup["False"].Mean, 1e-12)
	assert.InDelta(t, 40, cmp.Numeric[0].ByGroup["True"].Mean, 1e-12)

	for _, c := range cmp.Categorical {
		for g, freqs := range c.ByGroup {
			var sum float64
			for _, f := range freqs {
				sum += f.Proportion
			}
			assert.InDelta(t, 1.0, sum, 1e-9, "%s/%s", c.Column, g)
		}
	}

	md := cmp.Markdown()
	assert.Contains(t, md, "[MISSINGNESS]")
	assert.Contains(t, md, ">> Age")
	assert.Contains(t, md, "| False | 2 | 30 |")
}

func TestCompare_UnknownColumn(t *testing.T) {
	ds := survey(t)
	_, err := Compare("x", []Group{{"all", ds}}, []string{"Sleep Hours"}, nil)
	require.ErrorIs(t, err, dataset.ErrColumnNotFound)
}

func TestSummarize_Markdown(t *testing.T) {
	ds := survey(t)
	s, err := Summarize(ds, []string{dataset.ColAge}, []string{dataset.ColCondition})
	require.NoError(t, err)
	assert.Equal(t, 4, s.Rows)
	assert.Equal(t, 2, s.Categorical[0].Nulls)

	md := s.Markdown()
	assert.True(t, strings.HasPrefix(md, "[DATASET SUMMARY]\n"))
	assert.Contains(t, md, "File: survey.csv")
	assert.Contains(t, md, "| Age | 4 | 35 |")
	assert.Contains(t, md, "- Mental Health Condition: Anxiety(1), Depression(1), NaN(2)")
}
