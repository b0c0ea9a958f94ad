// Package cli provides the command-line interface for gallerycat.
package cli

import (
	"github.com/gallerycat/gallerycat/internal/app"
)

// globalApp holds the initialized application shared by all commands for
// the lifetime of one invocation.
var globalApp *app.Application

// SetApp stores the Application for command handlers.
func SetApp(a *app.Application) {
	globalApp = a
}

// GetApp retrieves the Application initialized in PersistentPreRunE.
func GetApp() *app.Application {
	return globalApp
}
