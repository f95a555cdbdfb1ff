package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/CTAG07/Parrot/pkg/markov"
	"github.com/CTAG07/Parrot/pkg/templating"
	"github.com/joho/godotenv"
	"github.com/natefinch/atomic"
)

// GeneratorConfig holds the settings for chain building and text generation.
type GeneratorConfig struct {
	Policy           string `json:"policy"`
	Budget           int    `json:"budget"`
	MaxSteps         int    `json:"max_steps"`
	Lowercase        bool   `json:"lowercase"`
	StripPunctuation bool   `json:"strip_punctuation"`
	EOC              string `json:"eoc"`
	Seed             uint64 `json:"seed"`
}

// OutputConfig holds the destinations generated text is written to besides stdout.
type OutputConfig struct {
	Format              string `json:"format"`
	FilePath            string `json:"file_path"`
	HistoryDatabasePath string `json:"history_database_path"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	LogLevel  string           `json:"log_level"`
	Generator *GeneratorConfig `json:"generator_config"`
	Output    *OutputConfig    `json:"output_config"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "warn",
		Generator: &GeneratorConfig{
			Policy:           markov.PolicyPlain.String(),
			Budget:           markov.DefaultBudget,
			MaxSteps:         markov.DefaultMaxSteps,
			Lowercase:        false,
			StripPunctuation: false,
			EOC:              "",
			Seed:             0,
		},
		Output: &OutputConfig{},
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		// If the file doesn't exist, create it with the default config.
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// Defaults are still usable without the file.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	// A file may omit whole sections.
	if config.Generator == nil {
		config.Generator = DefaultConfig().Generator
	}
	if config.Output == nil {
		config.Output = &OutputConfig{}
	}

	return config, nil
}

// ApplyEnv loads a .env file from the working directory, if present, and
// overrides config values with any PARROT_* variables that are set.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	c.LogLevel = getEnv("PARROT_LOG_LEVEL", c.LogLevel)
	c.Generator.Policy = getEnv("PARROT_POLICY", c.Generator.Policy)
	c.Generator.Budget = getEnvInt("PARROT_BUDGET", c.Generator.Budget)
	c.Generator.MaxSteps = getEnvInt("PARROT_MAX_STEPS", c.Generator.MaxSteps)
	c.Generator.Lowercase = getEnvBool("PARROT_LOWERCASE", c.Generator.Lowercase)
	c.Generator.StripPunctuation = getEnvBool("PARROT_STRIP_PUNCTUATION", c.Generator.StripPunctuation)
	c.Generator.EOC = getEnv("PARROT_EOC", c.Generator.EOC)
	c.Generator.Seed = getEnvUint("PARROT_SEED", c.Generator.Seed)
	c.Output.Format = getEnv("PARROT_FORMAT", c.Output.Format)
	c.Output.FilePath = getEnv("PARROT_OUTPUT_FILE", c.Output.FilePath)
	c.Output.HistoryDatabasePath = getEnv("PARROT_HISTORY_DB", c.Output.HistoryDatabasePath)
}

// Validate checks the values a run cannot proceed without.
func (c *Config) Validate() error {
	var errs []error
	if _, err := markov.ParsePolicy(c.Generator.Policy); err != nil {
		errs = append(errs, err)
	}
	if c.Generator.Budget <= 0 {
		errs = append(errs, fmt.Errorf("budget must be positive, got %d", c.Generator.Budget))
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Output.Format != "" {
		if _, err := templating.NewFormatter(c.Output.Format); err != nil {
			errs = append(errs, fmt.Errorf("invalid output format: %w", err))
		}
	}
	return errors.Join(errs...)
}

// TokenizerOptions returns the tokenizer options described by the config.
func (c *GeneratorConfig) TokenizerOptions() []markov.Option {
	return []markov.Option{
		markov.WithLowercase(c.Lowercase),
		markov.WithStripPunctuation(c.StripPunctuation),
		markov.WithEOC(c.EOC),
	}
}

func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", level)
	}
}

func getEnv(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvUint(key string, defaultVal uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		if u, err := strconv.ParseUint(v, 10, 64); err == nil {
			return u
		}
	}
	return defaultVal
}
