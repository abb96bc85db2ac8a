package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Alpha is the p-value below which an advisory test is flagged for review.
const Alpha = 0.05

// AssociationTest is the outcome of an advisory significance test. Valid is false
// when the data cannot support the test (too few observations, zero variance,
// a single category).
type AssociationTest struct {
	Method    string  `json:"method"`
	Statistic float64 `json:"statistic"`
	DF        float64 `json:"df"`
	PValue    float64 `json:"p_value"`
	Valid     bool    `json:"valid"`
}

// Flagged reports whether the test found a difference at Alpha.
func (t AssociationTest) Flagged() bool {
	return t.Valid && t.PValue < Alpha
}

// WelchTTest compares the means of two samples without assuming equal variances.
func WelchTTest(a, b []float64) AssociationTest {
	res := AssociationTest{Method: "welch-t"}
	if len(a) < 2 || len(b) < 2 {
		return res
	}
	sa, sb := Describe(a), Describe(b)
	va := sa.Std * sa.Std / float64(sa.Count)
	vb := sb.Std * sb.Std / float64(sb.Count)
	se := math.Sqrt(va + vb)
	if se == 0 || math.IsNaN(se) {
		return res
	}
	t := (sa.Mean - sb.Mean) / se
	df := (va + vb) * (va + vb) / (va*va/float64(sa.Count-1) + vb*vb/float64(sb.Count-1))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	res.Statistic = t
	res.DF = df
	res.PValue = 2 * (1 - dist.CDF(math.Abs(t)))
	res.Valid = true
	return res
}

// ChiSquareIndependence tests whether category frequencies are independent of
// the group. table[g][c] holds the count of category c in group g.
func ChiSquareIndependence(table [][]int) AssociationTest {
	res := AssociationTest{Method: "chi-square"}
	if len(table) < 2 || len(table[0]) < 2 {
		return res
	}
	rows := make([]float64, len(table))
	cols := make([]float64, len(table[0]))
	var total float64
	for g, r := range table {
		for c, n := range r {
			rows[g] += float64(n)
			cols[c] += float64(n)
			total += float64(n)
		}
	}
	if total == 0 {
		return res
	}
	// empty groups or categories carry no information and would divide by zero
	var liveRows, liveCols int
	for _, v := range rows {
		if v > 0 {
			liveRows++
		}
	}
	for _, v := range cols {
		if v > 0 {
			liveCols++
		}
	}
	if liveRows < 2 || liveCols < 2 {
		return res
	}
	var stat float64
	for g, r := range table {
		if rows[g] == 0 {
			continue
		}
		for c, n := range r {
			if cols[c] == 0 {
				continue
			}
			exp := rows[g] * cols[c] / total
			d := float64(n) - exp
			stat += d * d / exp
		}
	}
	df := float64((liveRows - 1) * (liveCols - 1))
	res.Statistic = stat
	res.DF = df
	res.PValue = 1 - distuv.ChiSquared{K: df}.CDF(stat)
	res.Valid = true
	return res
}
