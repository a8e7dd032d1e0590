package router

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/tasktracker-server/internal/api/http/handler"
	"github.com/dtroode/tasktracker-server/internal/api/http/middleware"
	"github.com/dtroode/tasktracker-server/internal/api/http/response"
	"github.com/dtroode/tasktracker-server/internal/apierror"
	"github.com/dtroode/tasktracker-server/internal/logger"
	"github.com/dtroode/tasktracker-server/internal/model"
)

// Deps lists everything the REST router needs. Maintenance is optional and
// the /api/test/clean route exists only when it is set.
type Deps struct {
	AuthService        handler.AuthService
	TaskService        handler.TaskService
	MaintenanceService handler.MaintenanceService

	TokenService   middleware.TokenService
	UserResolver   middleware.UserResolver
	ContextManager model.ContextManager
	Pinger         model.Pinger

	Registry    *prometheus.Registry
	CORSOrigins []string
	Logger      *logger.Logger
}

func (d Deps) validate() error {
	switch {
	case d.AuthService == nil:
		return errors.New("nil auth service")
	case d.TaskService == nil:
		return errors.New("nil task service")
	case d.TokenService == nil:
		return errors.New("nil token service")
	case d.UserResolver == nil:
		return errors.New("nil user resolver")
	case d.ContextManager == nil:
		return errors.New("nil context manager")
	case d.Pinger == nil:
		return errors.New("nil pinger")
	case d.Registry == nil:
		return errors.New("nil metrics registry")
	case d.Logger == nil:
		return errors.New("nil logger")
	}
	return nil
}

// New builds the REST handler tree.
func New(deps Deps) (http.Handler, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	metrics := middleware.NewMetrics(deps.Registry)
	logging := middleware.NewLogging(deps.Logger)
	authenticate := middleware.NewAuthenticate(deps.TokenService, deps.UserResolver, deps.ContextManager, deps.Logger)

	authHandler := handler.NewAuth(deps.AuthService, metrics, deps.ContextManager, deps.Logger)
	taskHandler := handler.NewTask(deps.TaskService, deps.ContextManager, deps.Logger)
	healthHandler := handler.NewHealth(deps.Pinger, deps.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logging.Handle)
	r.Use(metrics.Handle)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(corsOptions(deps.CORSOrigins)))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.WriteError(w, apierror.NewErrRouteNotFound(r.URL.Path))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Check)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.With(authenticate.Handle).Get("/profile", authHandler.Profile)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(authenticate.Handle)

			r.Get("/", taskHandler.List)
			r.Post("/", taskHandler.Create)
			r.Get("/{id}", taskHandler.Get)
			r.Put("/{id}", taskHandler.Update)
			r.Delete("/{id}", taskHandler.Delete)
		})

		if deps.MaintenanceService != nil {
			maintenanceHandler := handler.NewMaintenance(deps.MaintenanceService, deps.Logger)
			r.Post("/test/clean", maintenanceHandler.Clean)
		}
	})

	return r, nil
}

func corsOptions(origins []string) cors.Options {
	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}

	return cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.HeaderXRequestID},
		ExposedHeaders: []string{middleware.HeaderXRequestID},
		MaxAge:         300,
	}
}
