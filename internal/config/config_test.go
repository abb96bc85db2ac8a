package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/mhdash/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, dataset.ColCondition, c.ConditionColumn)
	assert.Equal(t, ":8501", c.ServerAddr)
	assert.Equal(t, 5, c.HeadRows)
	assert.Contains(t, c.NAValues, "None")
	assert.Equal(t, "mental_health_clean", c.DBTable)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MHDASH_SERVER_ADDR", ":9000")

	c, err := Load("")
	require.NoError(t, err)
	require.NoError(t, c.Set("server_addr", ":7000"))
	require.NoError(t, c.Set("log_level", "DEBUG"))
	require.NoError(t, Save(c, ""))
	_, err = os.Stat(filepath.Join(home, ".mhdash", "config.yaml"))
	require.NoError(t, err)

	again, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9000", again.ServerAddr)
	assert.Equal(t, "debug", again.LogLevel)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestSetAndGet(t *testing.T) {
	c := &Global{}
	require.NoError(t, c.Set("na_values", "NA, None"))
	assert.Equal(t, []string{"NA", "None"}, c.NAValues)
	v, err := c.Get("na_values")
	require.NoError(t, err)
	assert.Equal(t, "NA,None", v)

	require.Error(t, c.Set("head_rows", "-1"))
	require.Error(t, c.Set("gin_mode", "loud"))
	require.Error(t, c.Set("nope", "x"))

	require.NoError(t, c.Set("db_url", "postgres://me:secret@db:5432/mh"))
	v, err = c.Get("db_url")
	require.NoError(t, err)
	assert.Equal(t, "postgres://me:****@db:5432/mh", v)
}
