// Package routes assembles the HTTP API: public classification and
// exchange rate endpoints, auth, and the authenticated calculation and
// scenario routes.
package routes

import (
	"net/http"

	"github.com/importabr/landed/internal/handler"
	"github.com/importabr/landed/internal/middleware"
	"github.com/importabr/landed/internal/router"
)

// Deps contains the handlers the route table needs.
type Deps struct {
	Auth         *handler.AuthHandler
	Calculations *handler.CalculationHandler
	NCM          *handler.NCMHandler
	Currency     *handler.CurrencyHandler
	Metrics      *middleware.Metrics
}

// Register attaches every route to the router.
func Register(r *router.Router, deps Deps) {
	// Operational endpoints stay outside the API prefix.
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle(http.MethodGet, "/metrics", deps.Metrics.Handler())

	// Auth.
	r.Post("/api/signup", deps.Auth.Signup)
	r.Post("/api/login", deps.Auth.Login)
	r.Post("/api/logout", deps.Auth.Logout)
	r.Get("/api/me", deps.Auth.Me, middleware.RequireAuth)

	// Classification lookups are public, as is the exchange rate.
	r.Get("/api/ncm/search", deps.NCM.Search)
	r.Get("/api/ncm/popular", deps.NCM.Popular)
	r.Get("/api/ncm/{code}", deps.NCM.Info)
	r.Get("/api/exchange-rate", deps.Currency.Current)
	r.Get("/api/exchange-rate/history", deps.Currency.History)
	r.Get("/api/exchange-rate/snapshots", deps.Currency.Snapshots)

	// Calculations and scenarios require a session.
	authed := r.Group(middleware.RequireAuth)
	authed.Post("/api/calculations", deps.Calculations.Create)
	authed.Get("/api/calculations", deps.Calculations.List)
	authed.Get("/api/calculations/{id}", deps.Calculations.Get)
	authed.Delete("/api/calculations/{id}", deps.Calculations.Delete)
	authed.Post("/api/calculations/{id}/profitability", deps.Calculations.Profitability)
	authed.Post("/api/calculations/{id}/scenario", deps.Calculations.CreateScenario)
	authed.Get("/api/scenarios", deps.Calculations.ListScenarios)
}
