// Package cleaner drops survey records whose mental-health condition is missing,
// after describing how the missing and non-missing records compare.
package cleaner

import (
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/mhdash/internal/analysis"
	"github.com/KaramelBytes/mhdash/internal/dataset"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IndicatorColumn is the transient column marking rows with a missing condition.
// It never reaches the cleaned output.
const IndicatorColumn = "MH_Missing"

// Policy describes the fixed missing-value decision. Missingness of the condition
// was judged unrelated to the other fields, so affected rows are dropped; the
// advisory statistics in the report never change this.
const Policy = "drop rows with a missing condition (missing completely at random)"

// Options controls a cleaning run.
type Options struct {
	// Column is the field whose nulls are dropped.
	Column string
	// Schema is used to validate records and to pick numeric and categorical
	// columns for the missingness comparison.
	Schema dataset.Schema
	Logger *zap.Logger
}

// DefaultOptions returns the options for the survey dataset.
func DefaultOptions() Options {
	return Options{
		Column: dataset.ColCondition,
		Schema: dataset.SurveySchema(),
		Logger: zap.NewNop(),
	}
}

// Result is the outcome of a cleaning run.
type Result struct {
	RunID       string
	Column      string
	StartedAt   time.Time
	InputRows   int
	Dropped     int
	Output      *dataset.Dataset
	Missingness *analysis.Comparison
	Summary     *analysis.Summary
}

// Clean validates the raw dataset, compares records with and without a condition
// and returns the dataset restricted to records that have one.
func Clean(raw *dataset.Dataset, opt Options) (*Result, error) {
	if opt.Column == "" {
		opt.Column = dataset.ColCondition
	}
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	res := &Result{RunID: uuid.NewString(), Column: opt.Column, StartedAt: time.Now(), InputRows: raw.Len()}
	log = log.With(zap.String("run_id", res.RunID), zap.String("dataset", raw.Name()))

	j, err := raw.Column(opt.Column)
	if err != nil {
		return nil, fmt.Errorf("condition column: %w", err)
	}
	if err := dataset.Validate(raw, opt.Schema); err != nil {
		return nil, err
	}

	flagged, err := raw.WithColumn(IndicatorColumn, func(i int) string {
		if _, ok := raw.Value(i, j); ok {
			return "False"
		}
		return "True"
	})
	if err != nil {
		return nil, err
	}
	k, err := flagged.Column(IndicatorColumn)
	if err != nil {
		return nil, err
	}
	present := flagged.Select(func(i int) bool { v, _ := flagged.Value(i, k); return v == "False" })
	missing := flagged.Select(func(i int) bool { v, _ := flagged.Value(i, k); return v == "True" })
	log.Debug("partitioned by missingness",
		zap.String("column", opt.Column),
		zap.Int("present", present.Len()),
		zap.Int("missing", missing.Len()))

	numeric, categorical := comparisonColumns(raw, opt)
	res.Missingness, err = analysis.Compare(
		"missingness of "+opt.Column,
		[]analysis.Group{{Label: "False", Data: present}, {Label: "True", Data: missing}},
		numeric, categorical)
	if err != nil {
		return nil, err
	}
	if cols := res.Missingness.Flagged(); len(cols) > 0 {
		log.Info("advisory tests flagged columns for review", zap.Strings("columns", cols))
	}

	res.Output = present.Without(IndicatorColumn)
	res.Dropped = missing.Len()
	res.Summary, err = analysis.Summarize(res.Output, numeric, categorical)
	if err != nil {
		return nil, err
	}
	log.Info("cleaned dataset",
		zap.Int("input_rows", res.InputRows),
		zap.Int("dropped", res.Dropped),
		zap.Int("output_rows", res.Output.Len()))
	return res, nil
}

// comparisonColumns returns the schema's numeric and categorical columns that
// exist in the dataset, excluding the condition column itself.
func comparisonColumns(ds *dataset.Dataset, opt Options) (numeric, categorical []string) {
	for _, c := range opt.Schema.Names(dataset.Numeric) {
		if c != opt.Column && ds.HasColumn(c) {
			numeric = append(numeric, c)
		}
	}
	for _, c := range opt.Schema.Names(dataset.Categorical) {
		if c != opt.Column && ds.HasColumn(c) {
			categorical = append(categorical, c)
		}
	}
	return numeric, categorical
}

// Markdown renders the run as a review report.
func (r *Result) Markdown() string {
	var b strings.Builder
	b.WriteString("[CLEANING RUN]\n")
	b.WriteString(fmt.Sprintf("Run: %s\n", r.RunID))
	b.WriteString(fmt.Sprintf("Started: %s\n", r.StartedAt.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Column: %s\n", r.Column))
	b.WriteString(fmt.Sprintf("Policy: %s\n", Policy))
	b.WriteString(fmt.Sprintf("Rows: %d in, %d dropped, %d out\n", r.InputRows, r.Dropped, r.Output.Len()))
	if cols := r.Missingness.Flagged(); len(cols) > 0 {
		b.WriteString(fmt.Sprintf("Review: advisory tests differ for %s (policy unchanged)\n", strings.Join(cols, ", ")))
	}
	b.WriteString("\n")
	b.WriteString(r.Missingness.Markdown())
	b.WriteString("\n")
	b.WriteString(r.Summary.Markdown())
	return b.String()
}
