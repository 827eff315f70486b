package app

import (
	"os"

	"github.com/agentstation/rostersync/internal/config"
)

// Flags holds the global flags plus the logging settings that only come from
// the environment.
type Flags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
	NoColor    bool
	Format     string

	// Logging configuration
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// LoadFlags returns flags seeded from LOG_LEVEL, LOG_FORMAT and LOG_OUTPUT.
// Parsed command-line flags are applied later by UpdateFromFlags.
func LoadFlags() *Flags {
	return &Flags{
		EnvLogLevel: os.Getenv("LOG_LEVEL"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", "stderr"),
		NoColor:     os.Getenv("NO_COLOR") != "",
	}
}

// UpdateFromFlags updates values from parsed command flags.
func (f *Flags) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	f.Verbose = verbose
	f.Quiet = quiet
	f.NoColor = f.NoColor || noColor
	if format != "" {
		f.Format = format
	}
	f.LogLevel = logLevel
}

// LoadConfig loads settings in order of precedence:
//  1. Command-line flags (applied by each command)
//  2. ROSTERSYNC_* environment variables
//  3. .env.local, then .env
//  4. Config file (--config, or the default search paths)
//  5. Defaults
func LoadConfig(file string) (*config.Config, error) {
	return config.Load(config.Options{File: file})
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
