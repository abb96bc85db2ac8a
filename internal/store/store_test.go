package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/mhdash/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	cases := []struct {
		url, driver, dsn string
	}{
		{"postgres://u:p@localhost/db?sslmode=disable", "postgres", "postgres://u:p@localhost/db?sslmode=disable"},
		{"postgresql://localhost/db", "postgres", "postgresql://localhost/db"},
		{"sqlite:///tmp/x.db", "sqlite", "/tmp/x.db"},
		{"data/survey.db", "sqlite", "data/survey.db"},
	}
	for _, c := range cases {
		driver, dsn, err := ParseURL(c.url)
		require.NoError(t, err, c.url)
		assert.Equal(t, c.driver, driver)
		assert.Equal(t, c.dsn, dsn)
	}
	_, _, err := ParseURL("mysql://localhost")
	require.Error(t, err)
}

func TestWriteReadDataset_SQLite(t *testing.T) {
	ctx := context.Background()
	st, err := Open(ctx, "sqlite://"+filepath.Join(t.TempDir(), "survey.db"))
	require.NoError(t, err)
	defer st.Close()
	assert.Equal(t, "sqlite", st.Driver())

	ds, err := dataset.New("clean.csv",
		[]string{dataset.ColCountry, dataset.ColAge, dataset.ColCondition, dataset.ColSleepHours},
		[][]string{
			{"USA", "25", "Anxiety", "6.5"},
			{"UK", "40", "Depression", ""},
			{"Japan", "33", "PTSD", "8"},
		})
	require.NoError(t, err)

	require.NoError(t, st.WriteDataset(ctx, "mental health", ds, dataset.SurveySchema()))
	// Second write replaces the table.
	require.NoError(t, st.WriteDataset(ctx, "mental health", ds, dataset.SurveySchema()))

	back, err := st.ReadDataset(ctx, "mental health")
	require.NoError(t, err)
	assert.Equal(t, ds.Header(), back.Header())
	assert.Equal(t, ds.Records()[1:], back.Records()[1:])

	nulls, err := back.NullCount(dataset.ColSleepHours)
	require.NoError(t, err)
	assert.Equal(t, 1, nulls)
}

func TestWriteDataset_RejectsBadInteger(t *testing.T) {
	ctx := context.Background()
	st, err := Open(ctx, filepath.Join(t.TempDir(), "survey.db"))
	require.NoError(t, err)
	defer st.Close()

	ds, err := dataset.New("raw.csv", []string{dataset.ColAge}, [][]string{{"old"}})
	require.NoError(t, err)
	err = st.WriteDataset(ctx, "survey", ds, dataset.SurveySchema())
	var se *dataset.SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, dataset.ColAge, se.Column)
}
