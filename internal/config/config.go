package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/mhdash/internal/dataset"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Column whose nulls the cleaner drops.
	ConditionColumn string `mapstructure:"condition_column" yaml:"condition_column"`
	// Tokens read as null on load. Empty fields are always null.
	NAValues []string `mapstructure:"na_values" yaml:"na_values"`
	// Default output path for `clean` when -o is not given.
	CleanOutput string `mapstructure:"clean_output" yaml:"clean_output"`
	HeadRows    int    `mapstructure:"head_rows" yaml:"head_rows"`

	// Dashboard
	ServerAddr string `mapstructure:"server_addr" yaml:"server_addr"`
	GinMode    string `mapstructure:"gin_mode" yaml:"gin_mode"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`

	// Optional SQL mirror of the cleaned dataset
	DBURL   string `mapstructure:"db_url" yaml:"db_url"`
	DBTable string `mapstructure:"db_table" yaml:"db_table"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"condition_column", "na_values", "clean_output", "head_rows",
	"server_addr", "gin_mode", "log_level", "db_url", "db_table",
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".mhdash"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.mhdash/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env (MHDASH_*) > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("MHDASH")
	v.AutomaticEnv()

	v.SetDefault("condition_column", dataset.ColCondition)
	v.SetDefault("na_values", dataset.DefaultNAValues)
	v.SetDefault("clean_output", "")
	v.SetDefault("head_rows", 5)
	v.SetDefault("server_addr", ":8501")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("log_level", "info")
	v.SetDefault("db_url", "")
	v.SetDefault("db_table", "mental_health_clean")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Get returns the display value of key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "condition_column":
		return c.ConditionColumn, nil
	case "na_values":
		return strings.Join(c.NAValues, ","), nil
	case "clean_output":
		return c.CleanOutput, nil
	case "head_rows":
		return strconv.Itoa(c.HeadRows), nil
	case "server_addr":
		return c.ServerAddr, nil
	case "gin_mode":
		return c.GinMode, nil
	case "log_level":
		return c.LogLevel, nil
	case "db_url":
		return maskURL(c.DBURL), nil
	case "db_table":
		return c.DBTable, nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Set parses and assigns val to key.
func (c *Global) Set(key, val string) error {
	switch key {
	case "condition_column":
		if strings.TrimSpace(val) == "" {
			return fmt.Errorf("condition_column must not be empty")
		}
		c.ConditionColumn = val
	case "na_values":
		var toks []string
		for _, t := range strings.Split(val, ",") {
			toks = append(toks, strings.TrimSpace(t))
		}
		c.NAValues = toks
	case "clean_output":
		c.CleanOutput = val
	case "head_rows":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for head_rows: %v", val)
		}
		c.HeadRows = i
	case "server_addr":
		c.ServerAddr = val
	case "gin_mode":
		switch val {
		case "debug", "release", "test":
			c.GinMode = val
		default:
			return fmt.Errorf("invalid gin_mode: %s (use debug, release or test)", val)
		}
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
	case "db_url":
		c.DBURL = val
	case "db_table":
		c.DBTable = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// maskURL hides the password of a database URL.
func maskURL(s string) string {
	at := strings.LastIndex(s, "@")
	scheme := strings.Index(s, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return s
	}
	creds := s[scheme+3 : at]
	if i := strings.Index(creds, ":"); i >= 0 {
		return s[:scheme+3] + creds[:i] + ":****" + s[at:]
	}
	return s
}
