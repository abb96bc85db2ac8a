package cleaner

import (
	"testing"

	"github.com/KaramelBytes/mhdash/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New("raw.csv",
		[]string{dataset.ColCountry, dataset.ColCondition},
		[][]string{
			{"USA", "Anxiety"},
			{"USA", ""},
			{"UK", "Depression"},
		})
	require.NoError(t, err)
	return ds
}

func TestClean_DropsMissingCondition(t *testing.T) {
	res, err := Clean(exampleDataset(t), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 3, res.InputRows)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, 2, res.Output.Len())
	assert.Equal(t, []string{dataset.ColCountry, dataset.ColCondition}, res.Output.Header())
	assert.False(t, res.Output.HasColumn(IndicatorColumn))

	nulls, err := res.Output.NullCount(dataset.ColCondition)
	require.NoError(t, err)
	assert.Zero(t, nulls)

	assert.Equal(t, 2, res.Missingness.Sizes["False"])
	assert.Equal(t, 1, res.Missingness.Sizes["True"])
	assert.NotEmpty(t, res.RunID)
}

func TestClean_IsIdempotent(t *testing.T) {
	first, err := Clean(exampleDataset(t), DefaultOptions())
	require.NoError(t, err)
	second, err := Clean(first.Output, DefaultOptions())
	require.NoError(t, err)

	assert.Zero(t, second.Dropped)
	assert.Equal(t, first.Output.Records(), second.Output.Records())
}

func TestClean_RowCountProperty(t *testing.T) {
	header := []string{dataset.ColCountry, dataset.ColAge, dataset.ColGender, dataset.ColCondition, dataset.ColSleepHours}
	rows := [][]string{
		{"USA", "25", "Male", "Anxiety", "7"},
		{"USA", "31", "Female", "", "6.5"},
		{"UK", "40", "Other", "", ""},
		{"UK", "52", "Female", "Bipolar", "8"},
		{"India", "19", "Male", "PTSD", "5.5"},
	}
	ds, err := dataset.New("raw.csv", header, rows)
	require.NoError(t, err)
	nulls, err := ds.NullCount(dataset.ColCondition)
	require.NoError(t, err)

	res, err := Clean(ds, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, ds.Len()-nulls, res.Output.Len())

	require.Len(t, res.Missingness.Numeric, 2)
	assert.Equal(t, dataset.ColAge, res.Missingness.Numeric[0].Column)
	assert.Equal(t, dataset.ColSleepHours, res.Missingness.Numeric[1].Column)
	assert.Equal(t, 1, res.Missingness.Numeric[1].ByGroup["True"].Count)

	md := res.Markdown()
	assert.Contains(t, md, "[CLEANING RUN]")
	assert.Contains(t, md, "Rows: 5 in, 2 dropped, 3 out")
	assert.Contains(t, md, "[MISSINGNESS OF MENTAL HEALTH CONDITION]")
	assert.Contains(t, md, "[DATASET SUMMARY]")
}

func TestClean_MissingConditionColumn(t *testing.T) {
	ds, err := dataset.New("raw.csv", []string{dataset.ColCountry}, [][]string{{"USA"}})
	require.NoError(t, err)
	_, err = Clean(ds, DefaultOptions())
	require.ErrorIs(t, err, dataset.ErrColumnNotFound)
}

func TestClean_RecordInvariantViolated(t *testing.T) {
	ds, err := dataset.New("raw.csv",
		[]string{dataset.ColCountry, dataset.ColAge, dataset.ColCondition},
		[][]string{{"USA", "-3", "Anxiety"}})
	require.NoError(t, err)
	_, err = Clean(ds, DefaultOptions())
	var se *dataset.SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, dataset.ColAge, se.Column)
}
