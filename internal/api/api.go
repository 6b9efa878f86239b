package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/goureshmadye/tripbuddy/internal/auth"
	"github.com/goureshmadye/tripbuddy/internal/cache"
	"github.com/goureshmadye/tripbuddy/internal/metrics"
	"github.com/goureshmadye/tripbuddy/internal/middleware"
	"github.com/goureshmadye/tripbuddy/internal/service"
)

// API holds the handlers for the HTTP surface.
type API struct {
	auth     auth.Authenticator
	jwt      *auth.JWTManager
	trips    *service.TripService
	expenses *service.ExpenseService
	cache    *cache.Manager
}

// New creates the API over the application services.
func New(authn auth.Authenticator, jwt *auth.JWTManager, trips *service.TripService, expenses *service.ExpenseService, cacheMgr *cache.Manager) *API {
	return &API{
		auth:     authn,
		jwt:      jwt,
		trips:    trips,
		expenses: expenses,
		cache:    cacheMgr,
	}
}

// Router registers all routes. Every route is rate limited and
// instrumented; everything except health, metrics, and auth requires a
// valid bearer token.
func (a *API) Router(rl *middleware.RateLimiter) *httprouter.Router {
	router := httprouter.New()

	public := func(route string, h httprouter.Handle) httprouter.Handle {
		return rl.Limit(metrics.Instrument(route, h))
	}
	protected := func(route string, h httprouter.Handle) httprouter.Handle {
		return rl.Limit(metrics.Instrument(route, middleware.RequireAuth(a.jwt, h)))
	}

	router.GET("/health", public("/health", a.handleHealth))
	router.Handler(http.MethodGet, "/metrics", metrics.Handler())

	router.POST("/api/auth/register", public("/api/auth/register", a.handleRegister))
	router.POST("/api/auth/login", public("/api/auth/login", a.handleLogin))

	router.GET("/api/trips", protected("/api/trips", a.handleListTrips))
	router.POST("/api/trips", protected("/api/trips", a.handleCreateTrip))
	router.GET("/api/trips/:tripId", protected("/api/trips/:tripId", a.handleGetTrip))
	router.POST("/api/trips/:tripId/collaborators", protected("/api/trips/:tripId/collaborators", a.handleAddCollaborator))

	router.GET("/api/trips/:tripId/expenses", protected("/api/trips/:tripId/expenses", a.handleListExpenses))
	router.POST("/api/trips/:tripId/expenses", protected("/api/trips/:tripId/expenses", a.handleAddExpense))
	router.GET("/api/trips/:tripId/balances", protected("/api/trips/:tripId/balances", a.handleTripBalances))
	router.DELETE("/api/expenses/:expenseId", protected("/api/expenses/:expenseId", a.handleDeleteExpense))

	router.GET("/api/usage", protected("/api/usage", a.handleUsage))
	router.GET("/api/plans", protected("/api/plans", a.handlePlans))

	router.GET("/api/offline/documents", protected("/api/offline/documents", a.handleListDocuments))
	router.POST("/api/offline/documents", protected("/api/offline/documents", a.handleDownloadDocument))
	router.GET("/api/offline/documents/:documentId", protected("/api/offline/documents/:documentId", a.handleDocumentStatus))
	router.DELETE("/api/offline/documents/:documentId", protected("/api/offline/documents/:documentId", a.handleRemoveDocument))
	router.GET("/api/offline/regions", protected("/api/offline/regions", a.handleListRegions))
	router.POST("/api/offline/regions", protected("/api/offline/regions", a.handleDownloadRegion))
	router.DELETE("/api/offline/regions/:regionId", protected("/api/offline/regions/:regionId", a.handleRemoveRegion))
	router.GET("/api/offline/size", protected("/api/offline/size", a.handleCacheSize))
	router.DELETE("/api/offline", protected("/api/offline", a.handleClearCache))

	return router
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
