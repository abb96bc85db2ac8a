package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/mhdash/internal/dataset"
	"github.com/KaramelBytes/mhdash/internal/store"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawSurvey = `Country,Age,Gender,Exercise Level,Diet Type,Sleep Hours,Stress Level,Mental Health Condition,Work Hours per Week,Screen Time per Day (Hours),Social Interaction Score,Happiness Score
Brazil,48,Male,Low,Vegetarian,6.3,Low,,21,4,7.8,6.5
Australia,31,Male,Moderate,Vegan,4.9,Low,PTSD,48,5.2,8.2,6.8
Japan,37,Female,Low,Vegetarian,7.2,High,None,43,4.7,9.6,9.7
Brazil,35,Male,Low,Vegan,7.2,Low,Depression,43,2.2,8.2,6.6
USA,22,Other,High,Balanced,8.1,Moderate,Anxiety,35,6.5,5.1,7.2
`

// runCmd executes the root command with args and returns its stdout.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func execCmd(args ...string) (string, error) {
	// Reset flags so values and Changed state do not leak between invocations
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MHDASH_LOG_LEVEL", "error")
	raw := filepath.Join(home, "Mental_Health.csv")
	require.NoError(t, os.WriteFile(raw, []byte(rawSurvey), 0o644))
	return raw
}

func TestCLI_CleanWritesCSVReportAndTable(t *testing.T) {
	raw := isolate(t)
	dir := filepath.Dir(raw)
	out := filepath.Join(dir, "clean", "Mental_Health_clean.csv")
	report := filepath.Join(dir, "report.md")
	db := filepath.Join(dir, "survey.db")

	stdout := runCmd(t, "clean", raw, "-o", out, "--report", report, "--db-url", "sqlite://"+db, "--db-table", "survey")
	assert.Contains(t, stdout, "✓ Wrote cleaned dataset to "+out+" (3 rows kept, 2 dropped)")
	assert.Contains(t, stdout, "✓ Mirrored 3 rows to table survey")
	assert.Contains(t, stdout, "Policy: drop rows")

	ds, err := dataset.Load(out, dataset.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
	assert.False(t, ds.HasColumn("MH_Missing"))
	nulls, err := ds.NullCount(dataset.ColCondition)
	require.NoError(t, err)
	assert.Zero(t, nulls)

	body, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "[CLEANING RUN]"))

	st, err := store.Open(context.Background(), db)
	require.NoError(t, err)
	defer st.Close()
	mirrored, err := st.ReadDataset(context.Background(), "survey")
	require.NoError(t, err)
	assert.Equal(t, 3, mirrored.Len())

	// Cleaning the cleaned output changes nothing.
	again := filepath.Join(dir, "again.csv")
	stdout = runCmd(t, "clean", out, "-o", again, "-q")
	assert.Contains(t, stdout, "(3 rows kept, 0 dropped)")
}

func TestCLI_CleanDefaultOutputPath(t *testing.T) {
	raw := isolate(t)
	runCmd(t, "clean", raw, "-q")
	_, err := os.Stat(filepath.Join(filepath.Dir(raw), "Mental_Health_clean.csv"))
	require.NoError(t, err)
}

func TestCLI_CleanMissingFile(t *testing.T) {
	raw := isolate(t)
	missing := filepath.Join(filepath.Dir(raw), "nope.csv")
	_, err := execCmd("clean", missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing)
}

func TestCLI_AggregateAndExplore(t *testing.T) {
	raw := isolate(t)
	dir := filepath.Dir(raw)
	out := filepath.Join(dir, "clean.csv")
	runCmd(t, "clean", raw, "-o", out, "-q")

	xlsx := filepath.Join(dir, "views.xlsx")
	stdout := runCmd(t, "aggregate", out, "--country", "Brazil", "--xlsx", xlsx)
	assert.Contains(t, stdout, "Condition: All | Country: Brazil | Records: 1")
	assert.Contains(t, stdout, "✓ Wrote aggregates to "+xlsx)
	_, err := os.Stat(xlsx)
	require.NoError(t, err)

	stdout = runCmd(t, "aggregate", out, "--condition", "PTSD", "--json")
	assert.Contains(t, stdout, `"records": 1`)

	stdout = runCmd(t, "explore", raw, "--head", "2")
	assert.Contains(t, stdout, "Mental_Health.csv: 5 rows x 12 columns")
	assert.Contains(t, stdout, "First 2 rows")
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	isolate(t)
	runCmd(t, "config", "set", "server_addr", ":9999")
	stdout := runCmd(t, "config", "show")
	assert.Contains(t, stdout, "server_addr: :9999")

	_, err := execCmd("config", "set", "gin_mode", "loud")
	require.Error(t, err)
}

func TestCLI_ServeNeedsSource(t *testing.T) {
	isolate(t)
	t.Setenv("MHDASH_DB_URL", "")
	_, err := execCmd("serve")
	require.Error(t, err)
}

func TestCLI_RenamedConditionColumn(t *testing.T) {
	raw := isolate(t)
	t.Setenv("MHDASH_CONDITION_COLUMN", "Diagnosis")
	dir := filepath.Dir(raw)
	renamed := filepath.Join(dir, "renamed.csv")
	body := strings.Replace(rawSurvey, "Mental Health Condition", "Diagnosis", 1)
	require.NoError(t, os.WriteFile(renamed, []byte(body), 0o644))

	out := filepath.Join(dir, "c.csv")
	stdout := runCmd(t, "clean", renamed, "-o", out, "-q")
	assert.Contains(t, stdout, "(3 rows kept, 2 dropped)")

	stdout = runCmd(t, "aggregate", out, "--condition", "PTSD")
	assert.Contains(t, stdout, "Condition: PTSD | Country: All | Records: 1")
}

func TestCLI_TildePaths(t *testing.T) {
	raw := isolate(t)
	home := filepath.Dir(raw)
	stdout := runCmd(t, "clean", raw, "-o", "~/out/clean.csv", "--report", "~/out/report.md", "-q")
	assert.Contains(t, stdout, filepath.Join(home, "out", "clean.csv"))
	for _, name := range []string{"clean.csv", "report.md"} {
		_, err := os.Stat(filepath.Join(home, "out", name))
		require.NoError(t, err, name)
	}
}
