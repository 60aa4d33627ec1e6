// Package httpserver exposes the licensing JSON API over HTTP.
package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/licensegate/licensegate/internal/filestore"
	"github.com/licensegate/licensegate/internal/service"
)

// Server wires services into HTTP handlers.
type Server struct {
	auth     service.AuthService
	licenses service.LicenseService
	requests service.RequestService
	catalog  service.CatalogService
	files    filestore.Store
	signKey  []byte
	log      *zap.Logger
}

// New constructs a Server with injected services.
func New(
	auth service.AuthService,
	licenses service.LicenseService,
	requests service.RequestService,
	catalog service.CatalogService,
	files filestore.Store,
	signKey []byte,
	log *zap.Logger,
) *Server {
	return &Server{
		auth:     auth,
		licenses: licenses,
		requests: requests,
		catalog:  catalog,
		files:    files,
		signKey:  signKey,
		log:      log,
	}
}

// Routes builds the router: two unauthenticated client endpoints, the
// account endpoints, an authenticated catalog surface, and the admin API.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(Recover(s.log))
	r.Use(Logging(s.log))
	r.Use(Authenticate(s.signKey))

	r.Route("/api", func(r chi.Router) {
		// wire contract for client probes
		r.Post("/ping", s.handlePing)
		r.Post("/request_activation", s.handleRequestActivation)

		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)
			r.Get("/programs", s.handleListPrograms)
			r.Get("/programs/{id}/download", s.handleDownloadProgram)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin)

			r.Get("/licenses", s.handleAdminListLicenses)
			r.Post("/licenses", s.handleAdminGrantLicense)
			r.Post("/licenses/{id}/activate", s.setLicenseActive(true))
			r.Post("/licenses/{id}/deactivate", s.setLicenseActive(false))
			r.Delete("/licenses/{id}", s.handleAdminDeleteLicense)

			r.Get("/requests", s.handleAdminListRequests)
			r.Post("/requests/{id}/approve", s.handleAdminApproveRequest)
			r.Post("/requests/{id}/reject", s.handleAdminRejectRequest)

			r.Get("/programs", s.handleAdminListPrograms)
			r.Post("/programs", s.handleAdminIndexProgram)
			r.Delete("/programs/{id}", s.handleAdminDeleteProgram)

			r.Get("/users", s.handleAdminListUsers)
		})
	})
	return r
}
