// Package application provides the application interface for rostersync commands.
//
// The Application interface defines the contract between the application layer and
// command implementations, enabling dependency injection and testability.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            client, err := app.Client()
//	            if err != nil {
//	                return err
//	            }
//	            // ... use client
//	            return nil
//	        },
//	    }
//	}
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/rostersync"
	"github.com/agentstation/rostersync/internal/config"
)

// Application provides what commands need from the running app.
// The App struct from cmd/rostersync/app implements this interface.
type Application interface {
	// Client returns the rostersync client built from the loaded settings.
	Client() (rostersync.Client, error)

	// Settings returns the loaded configuration. Commands apply their flags
	// on top of it before use.
	Settings() *config.Config

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
