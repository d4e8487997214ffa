// Package web serves the journal over HTTP: server-rendered pages driven by
// the dashboard controller and a JSON API under /api/v1.
package web

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/mindjournal/internal/config"
	"github.com/dmitrijs2005/mindjournal/internal/controller"
	"github.com/dmitrijs2005/mindjournal/internal/logging"
	"github.com/dmitrijs2005/mindjournal/internal/metrics"
	"github.com/dmitrijs2005/mindjournal/internal/models"
	"github.com/dmitrijs2005/mindjournal/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AuthManager is the session manager used by the handlers.
type AuthManager interface {
	controller.Authenticator
	Logout(ctx context.Context, current *models.Session) error
	CurrentSession(ctx context.Context, token string) (*models.Session, error)
}

// Archive exports journals.
type Archive interface {
	Export(ctx context.Context, userID string) ([]byte, error)
	Upload(ctx context.Context, userID string) (string, error)
}

// Deps are the collaborators of the server.
type Deps struct {
	Auth       AuthManager
	Entries    controller.Entries
	Reflector  controller.Reflector
	Archive    Archive
	Workspaces *controller.Workspaces
	Config     *config.Config
	Logger     logging.Logger
}

// Server holds the router and the handler dependencies.
type Server struct {
	auth       AuthManager
	entries    controller.Entries
	reflector  controller.Reflector
	archive    Archive
	workspaces *controller.Workspaces
	cfg        *config.Config
	log        logging.Logger
	metrics    *metrics.Metrics
	validator  *validation.Validator
	pages      *pages
	router     *chi.Mux
}

// NewServer creates the server with all routes configured.
func NewServer(d Deps) *Server {
	s := &Server{
		auth:       d.Auth,
		entries:    d.Entries,
		reflector:  d.Reflector,
		archive:    d.Archive,
		workspaces: d.Workspaces,
		cfg:        d.Config,
		log:        d.Logger.With("module", "web"),
		metrics:    metrics.NewMetrics(),
		validator:  validation.New(),
		pages:      mustParsePages(),
		router:     chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.observe)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	// Pages.
	s.router.Get("/login", s.handleLoginPage)
	s.router.Post("/login", s.handleLoginSubmit)
	s.router.Post("/signup", s.handleSignUpSubmit)
	s.router.Post("/logout", s.handleLogoutSubmit)

	s.router.Group(func(r chi.Router) {
		r.Use(s.requirePageSession)

		r.Get("/", s.handleDashboard)
		r.Post("/entries/new", s.dashboardAction(actNewEntry))
		r.Post("/entries/{id}/edit", s.dashboardAction(actEdit))
		r.Post("/entries/{id}/delete", s.dashboardAction(actRequestDelete))
		r.Post("/editor/save", s.dashboardAction(actSave))
		r.Post("/editor/cancel", s.dashboardAction(actCancel))
		r.Post("/editor/reflect", s.dashboardAction(actReflect))
		r.Post("/delete/confirm", s.dashboardAction(actConfirmDelete))
		r.Post("/delete/cancel", s.dashboardAction(actCancelDelete))
		r.Post("/notice/dismiss", s.dashboardAction(actDismiss))
		r.Get("/export", s.handleExport)
		r.Post("/export/archive", s.handleArchive)
	})

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: false,
			MaxAge:           300,
		}))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", s.handleAPISignUp)
			r.Post("/login", s.handleAPILogin)
			r.Post("/logout", s.handleAPILogout)
			r.With(s.requireAPISession).Get("/session", s.handleAPISession)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAPISession)

			r.Get("/entries", s.handleAPIListEntries)
			r.Post("/entries", s.handleAPICreateEntry)
			r.Put("/entries/{id}", s.handleAPIUpdateEntry)
			r.Delete("/entries/{id}", s.handleAPIDeleteEntry)
			r.Post("/reflections", s.handleAPIReflect)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
