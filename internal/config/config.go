package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/volunteer-tracker/pkg/core/recurrence"
)

// FileName is the config file looked up by Load
const FileName = "volunteer_tracker.yaml"

// ErrNotFound is returned by findConfigFile when no config file exists
var ErrNotFound = errors.New("config file not found in current directory or home directory")

// StorageConfig selects the repository backend and where it keeps its data
type StorageConfig struct {
	Backend        string `yaml:"backend" validate:"required,oneof=csv json sqlite postgres memory"`
	VolunteersFile string `yaml:"volunteersFile,omitempty" validate:"required_if=Backend csv,required_if=Backend json"`
	EventsFile     string `yaml:"eventsFile,omitempty" validate:"required_if=Backend csv,required_if=Backend json"`
	SQLitePath     string `yaml:"sqlitePath,omitempty" validate:"required_if=Backend sqlite"`
	PostgresURL    string `yaml:"postgresURL,omitempty" validate:"required_if=Backend postgres"`
}

// RecurrenceConfig controls event series generation
type RecurrenceConfig struct {
	MaxOccurrences int    `yaml:"maxOccurrences" validate:"min=1"`
	DefaultRule    string `yaml:"defaultRule,omitempty"`
}

// Config represents the application configuration
type Config struct {
	Storage     StorageConfig    `yaml:"storage"`
	LogsDir     string           `yaml:"logsDir" validate:"required"`
	MetricsFile string           `yaml:"metricsFile,omitempty"`
	Recurrence  RecurrenceConfig `yaml:"recurrence"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the configuration used when no config file exists:
// CSV files in the working directory and logs under ./logs
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:        "csv",
			VolunteersFile: "volunteers.csv",
			EventsFile:     "events.csv",
		},
		LogsDir: "logs",
		Recurrence: RecurrenceConfig{
			MaxOccurrences: 52,
		},
	}
}

// Load loads and validates the configuration from volunteer_tracker.yaml.
// It looks for the config file in the current directory first, then in the user's home directory,
// and falls back to Default when neither has one.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Fields missing from the file keep their Default values.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Recurrence.DefaultRule != "" {
		if err := recurrence.Validate(cfg.Recurrence.DefaultRule); err != nil {
			return fmt.Errorf("invalid rrule in recurrence.defaultRule: %w", err)
		}
	}

	return nil
}

// findConfigFile searches for volunteer_tracker.yaml in current directory and home directory
func findConfigFile() (string, error) {
	// Check current directory
	if _, err := os.Stat(FileName); err == nil {
		return FileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, FileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", ErrNotFound
}
