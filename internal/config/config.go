package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string

	// External runner settings
	RunnerBinary string
	Extension    string

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string

	// Watch settings
	Debounce time.Duration

	// Logging
	LogLevel string

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags after conversion from the cli package
type Flags struct {
	Path       string
	NameFilter string
	Cases      bool
	LogLevel   string
}

// New creates a new Config with defaults, then applies overrides from a .env
// file in the project directory (if present) and from the environment.
func New() *Config {
	cfg := &Config{
		ProjectPath:    DefaultProjectPath,
		RunnerBinary:   DefaultRunnerBinary,
		Extension:      DefaultExtension,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		Debounce:       DefaultDebounceMillis * time.Millisecond,
		LogLevel:       DefaultLogLevel,
	}
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)

	cfg.applyEnv()
	return cfg
}

// applyEnv loads .env from the project directory and applies WTE_* overrides.
// A missing .env file is fine; plain environment variables still apply.
func (c *Config) applyEnv() {
	_ = godotenv.Load(filepath.Join(c.ProjectPath, ".env"))

	if v := os.Getenv("WTE_RUNNER"); v != "" {
		c.RunnerBinary = v
	}
	if v := os.Getenv("WTE_EXTENSION"); v != "" {
		if !strings.HasPrefix(v, ".") {
			v = "." + v
		}
		c.Extension = v
	}
	if v := os.Getenv("WTE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// GetScanPath returns the path to scan for source files, using the flag if
// provided.
func (c *Config) GetScanPath() string {
	if c.Flags.Path != "" {
		if filepath.IsAbs(c.Flags.Path) {
			return c.Flags.Path
		}
		return filepath.Join(c.ProjectPath, c.Flags.Path)
	}
	return c.ProjectPath
}

// GetLogLevel returns the effective log level, using the flag if provided.
func (c *Config) GetLogLevel() string {
	if c.Flags.LogLevel != "" {
		return c.Flags.LogLevel
	}
	return c.LogLevel
}

// GetOutputPath returns the full path to the output JSON file. Resolves to an
// absolute path so run and failures always read/write the same file
// regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
