package main

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/diewo77/go-energy/internal/auth"
	"github.com/diewo77/go-energy/internal/handlers"
	"github.com/diewo77/go-energy/internal/services"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux      *http.ServeMux
	db       *gorm.DB
	sessions *auth.Store
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB, sessions *auth.Store) *App {
	app := &App{
		mux:      http.NewServeMux(),
		db:       db,
		sessions: sessions,
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler. Global middleware: session resolution,
// then CSRF enforcement for cookie-borne sessions.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.sessions.Middleware(auth.CSRFMiddleware(a.mux)).ServeHTTP(w, r)
}

// setupRoutes configures all application routes under /api/v1.
func (a *App) setupRoutes() {
	ah := handlers.NewAuthHandler(a.db, a.sessions)
	uh := handlers.NewUserHandler(a.db, a.sessions)
	ch := handlers.NewCategoryHandler(a.db)
	sh := handlers.NewConsommationHandler(services.NewConsumptionService(a.db))
	alh := handlers.NewAlertHandler(a.db)
	nh := handlers.NewNotificationHandler(a.db)
	gh := handlers.NewGenerateHandler(services.NewGenerator(a.db))

	// Public routes
	a.mux.HandleFunc("GET /api/v1/csrf/{$}", ah.CSRF)
	a.mux.HandleFunc("POST /api/v1/register/{$}", ah.Register)
	a.mux.HandleFunc("POST /api/v1/login/{$}", ah.Login)

	// Session-gated routes
	a.handle("POST /api/v1/activate/{$}", ah.Activate)
	a.handle("POST /api/v1/logout/{$}", ah.Logout)
	a.handle("POST /api/v1/generate-consumptions/{$}", gh.Generate)

	a.handle("GET /api/v1/users/{$}", uh.List)
	a.handle("GET /api/v1/users/{id}/{$}", uh.Detail)
	a.handle("PUT /api/v1/users/{id}/{$}", uh.Update)
	a.handle("PATCH /api/v1/users/{id}/{$}", uh.Update)
	a.handle("DELETE /api/v1/users/{id}/{$}", uh.Delete)

	a.handle("GET /api/v1/categories/{$}", ch.List)
	a.handle("POST /api/v1/categories/{$}", ch.Create)
	a.handle("GET /api/v1/categories/{id}/{$}", ch.Detail)
	a.handle("PUT /api/v1/categories/{id}/{$}", ch.Update)
	a.handle("PATCH /api/v1/categories/{id}/{$}", ch.Update)
	a.handle("DELETE /api/v1/categories/{id}/{$}", ch.Delete)

	a.handle("GET /api/v1/consommations/{$}", sh.List)
	a.handle("POST /api/v1/consommations/{$}", sh.Create)
	a.handle("GET /api/v1/consommations/{id}/{$}", sh.Detail)
	a.handle("PUT /api/v1/consommations/{id}/{$}", sh.Update)
	a.handle("PATCH /api/v1/consommations/{id}/{$}", sh.Update)
	a.handle("DELETE /api/v1/consommations/{id}/{$}", sh.Delete)

	a.handle("GET /api/v1/alerts/{$}", alh.List)
	a.handle("POST /api/v1/alerts/{$}", alh.Create)
	a.handle("GET /api/v1/alerts/{id}/{$}", alh.Detail)
	a.handle("PUT /api/v1/alerts/{id}/{$}", alh.Update)
	a.handle("PATCH /api/v1/alerts/{id}/{$}", alh.Update)
	a.handle("DELETE /api/v1/alerts/{id}/{$}", alh.Delete)

	// Notifications have no create route: they only appear as a side
	// effect of the alert evaluation rule.
	a.handle("GET /api/v1/notifications/{$}", nh.List)
	a.handle("GET /api/v1/notifications/{id}/{$}", nh.Detail)
	a.handle("PUT /api/v1/notifications/{id}/{$}", nh.Update)
	a.handle("PATCH /api/v1/notifications/{id}/{$}", nh.Update)
	a.handle("DELETE /api/v1/notifications/{id}/{$}", nh.Delete)
}

// handle registers a session-gated route.
func (a *App) handle(pattern string, h http.HandlerFunc) {
	a.mux.Handle(pattern, auth.RequireAuth(h))
}
