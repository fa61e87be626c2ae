package cli

import (
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/orbita/internal/scheduling/application/energy"
	"github.com/google/uuid"
)

// App bundles the scheduling command handlers and energy providers the
// CLI subcommands act against, plus the locally-configured user.
type App struct {
	Handlers *commands.Handlers
	Energy   *energy.Providers

	CurrentUserID uuid.UUID
}

// NewApp builds an App around a wired Handlers/Providers pair.
func NewApp(handlers *commands.Handlers, providers *energy.Providers) *App {
	return &App{Handlers: handlers, Energy: providers}
}

// SetCurrentUserID sets the owner every subsequent command acts as.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

var currentApp *App

// SetApp installs the App the CLI subcommands will use.
func SetApp(a *App) {
	currentApp = a
}

// GetApp returns the installed App, or nil if none was set (e.g. the
// database connection failed and the CLI is running in limited mode).
func GetApp() *App {
	return currentApp
}
