package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taskhub/engine/internal/api/handlers"
	mw "github.com/taskhub/engine/internal/api/middleware"
)

type Dependencies struct {
	Tokens        mw.TokenVerifier
	AuthHandler   *handlers.AuthHandler
	TasksHandler  *handlers.TasksHandler
	HealthHandler *handlers.HealthHandler

	CORSAllowedOrigins []string
	Development        bool
	MetricsEnabled     bool
}

// Middleware returns the interceptors applied to every request, outermost first.
func Middleware(dep Dependencies) []func(http.Handler) http.Handler {
	chain := []func(http.Handler) http.Handler{
		mw.RequestID,
		chimid.RealIP,
		mw.Logging,
		mw.Recovery,
	}
	if dep.MetricsEnabled {
		chain = append(chain, mw.Metrics)
	}
	return append(chain,
		mw.Secure(mw.SecureOptions(dep.Development)),
		mw.CORS(dep.CORSAllowedOrigins),
		chimid.Compress(5),
	)
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(Middleware(dep)...)

	r.Get("/", dep.HealthHandler.Root)
	r.Get("/healthz", dep.HealthHandler.Liveness)
	r.Get("/readyz", dep.HealthHandler.Readiness)
	if dep.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// existing clients use the /api prefix
	routes := resourceRoutes(dep)
	r.Group(routes)
	r.Route("/api", routes)

	return r
}

func resourceRoutes(dep Dependencies) func(chi.Router) {
	return func(r chi.Router) {
		// Auth routes (public)
		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/signup", dep.AuthHandler.Signup)
			ar.Post("/login", dep.AuthHandler.Login)
		})

		r.Route("/tasks", func(tr chi.Router) {
			tr.Use(mw.Auth(dep.Tokens))
			tr.Post("/", dep.TasksHandler.Create)
			tr.Get("/", dep.TasksHandler.List)
			tr.Get("/{id}", dep.TasksHandler.Get)
			tr.Put("/{id}", dep.TasksHandler.Update)
			tr.Delete("/{id}", dep.TasksHandler.Delete)
		})
	}
}
