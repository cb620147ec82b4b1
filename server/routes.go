package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jrsteele09/clinic-gateway/token/jwt"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	RouteHealth       = "/health"
	RouteMetrics      = "/metrics"
	RouteLogin        = "/api/auth/login"
	RouteInstitutions = "/api/institutions"
	RouteInstitution  = "/api/institutions/{institutionID}"
	RouteStaff        = "/api/institutions/{institutionID}/staff"
)

func (s *Server) initRoutes() {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(s.RecoverMiddleware)
	r.Use(s.LoggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.GetDevAllowedOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get(RouteHealth, s.HealthHandler())
	r.Handle(RouteMetrics, promhttp.Handler())
	r.Post(RouteLogin, s.LoginHandler())

	r.With(s.RequireAuth, s.RequireRole(jwt.RoleSystemAdmin)).Get(RouteInstitutions, s.ListInstitutionsHandler())
	r.With(s.RequireAuth, s.RequireInstitution).Get(RouteInstitution, s.GetInstitutionHandler())

	r.Route(RouteStaff, func(r chi.Router) {
		r.Use(s.RequireAuth, s.RequireInstitution)

		r.Get("/", s.ListStaffHandler())
		r.Get("/{staffID}", s.GetStaffHandler())

		admin := r.With(s.RequireRole(jwt.RoleClinicAdmin, jwt.RoleSystemAdmin))
		admin.Post("/", s.CreateStaffHandler())
		admin.Put("/{staffID}", s.UpdateStaffHandler())
		admin.Delete("/{staffID}", s.DeleteStaffHandler())
	})

	s.router = r
}
