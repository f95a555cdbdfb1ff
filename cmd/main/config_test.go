package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/CTAG07/Parrot/pkg/markov"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), config)

	data, err := os.ReadFile(path)
	require.NoError(t, err, "default config file should have been written")

	var written Config
	require.NoError(t, json.Unmarshal(data, &written))
	require.Equal(t, markov.PolicyPlain.String(), written.Generator.Policy)
	require.Equal(t, markov.DefaultBudget, written.Generator.Budget)
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"generator_config": {"budget": 50, "eoc": "."}}`), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 50, config.Generator.Budget)
	require.Equal(t, ".", config.Generator.EOC)
	// Fields and sections the file omits keep their defaults.
	require.Equal(t, markov.PolicyPlain.String(), config.Generator.Policy)
	require.Equal(t, markov.DefaultMaxSteps, config.Generator.MaxSteps)
	require.NotNil(t, config.Output)
	require.Equal(t, "warn", config.LogLevel)
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"generator_config": `), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PARROT_POLICY", "budgeted")
	t.Setenv("PARROT_BUDGET", "280")
	t.Setenv("PARROT_LOWERCASE", "true")
	t.Setenv("PARROT_SEED", "18446744073709551615")
	t.Setenv("PARROT_HISTORY_DB", "history.db")
	t.Setenv("PARROT_MAX_STEPS", "not a number")

	config := DefaultConfig()
	config.ApplyEnv()

	require.Equal(t, "budgeted", config.Generator.Policy)
	require.Equal(t, 280, config.Generator.Budget)
	require.True(t, config.Generator.Lowercase)
	require.Equal(t, uint64(18446744073709551615), config.Generator.Seed)
	require.Equal(t, "history.db", config.Output.HistoryDatabasePath)
	// Unparseable numbers leave the existing value alone.
	require.Equal(t, markov.DefaultMaxSteps, config.Generator.MaxSteps)
	require.False(t, config.Generator.StripPunctuation)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "Defaults", modify: func(*Config) {}},
		{name: "Budgeted", modify: func(c *Config) { c.Generator.Policy = "budgeted" }},
		{name: "Unknown policy", modify: func(c *Config) { c.Generator.Policy = "tweet" }, wantErr: true},
		{name: "Zero budget", modify: func(c *Config) { c.Generator.Budget = 0 }, wantErr: true},
		{name: "Negative budget", modify: func(c *Config) { c.Generator.Budget = -5 }, wantErr: true},
		{name: "Unknown log level", modify: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
		{name: "Unbounded steps", modify: func(c *Config) { c.Generator.MaxSteps = 0 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.modify(config)
			err := config.Validate()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
