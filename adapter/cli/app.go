package cli

import (
	billingApp "github.com/felixgeelhaar/duet/internal/billing/application"
	contentApp "github.com/felixgeelhaar/duet/internal/content/application"
	onboardingApp "github.com/felixgeelhaar/duet/internal/onboarding/application"
	pairingApp "github.com/felixgeelhaar/duet/internal/pairing/application"
	"github.com/felixgeelhaar/duet/internal/readiness"
	"github.com/google/uuid"
)

// App holds the CLI application dependencies.
type App struct {
	Pairing    *pairingApp.Service
	Billing    *billingApp.Service
	Progress   *contentApp.ProgressService
	Stream     *contentApp.StreamBuilder
	Onboarding *onboardingApp.Flow
	Waiter     *readiness.Waiter

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
