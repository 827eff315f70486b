package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/rostersync"
	"github.com/agentstation/rostersync/internal/config"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    ClientFunc: func() (rostersync.Client, error) {
//	        return rostersync.New(src, store)
//	    },
//	}
//	cmd := sync.NewCommand(mock)
//	// ... test command
type Mock struct {
	ClientFunc       func() (rostersync.Client, error)
	SettingsFunc     func() *config.Config
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string

	settings *config.Config
}

// Compile-time interface check.
var _ Application = (*Mock)(nil)

// Client returns a client using the mock function or nil.
func (m *Mock) Client() (rostersync.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc()
	}
	return nil, nil
}

// Settings returns settings using the mock function or one shared empty config.
func (m *Mock) Settings() *config.Config {
	if m.SettingsFunc != nil {
		return m.SettingsFunc()
	}
	if m.settings == nil {
		m.settings = &config.Config{}
	}
	return m.settings
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builder using the mock function or "unknown".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "unknown"
}
