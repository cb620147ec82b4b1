package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/clinic-gateway/institutions"
	"github.com/jrsteele09/clinic-gateway/internal/config"
	"github.com/jrsteele09/clinic-gateway/token/jwt"
	"github.com/jrsteele09/clinic-gateway/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Server is a development stand-in for the dashboards' backend. It issues
// tokens in the shape the dashboards read and serves institution scoped
// staff records.
type Server struct {
	env          string
	router       chi.Router
	config       config.DevServerConfig
	users        users.UserRepo
	institutions institutions.Repo
	creator      *jwt.Creator
	logger       zerolog.Logger
}

func New(cfg config.Config, userRepo users.UserRepo, institutionRepo institutions.Repo) (*Server, error) {
	s := &Server{
		env:          cfg.GetEnv(),
		config:       cfg,
		users:        userRepo,
		institutions: institutionRepo,
		creator:      NewCreator(cfg),
		logger:       log.Logger,
	}

	if err := s.InitialiseSystem(cfg.GetDevSeedPassword()); err != nil {
		return nil, fmt.Errorf("[Server New] failed to initialise the system: %w", err)
	}

	s.initRoutes()
	return s, nil
}

// NewCreator builds the token creator for the configured claim style
func NewCreator(cfg config.DevServerConfig) *jwt.Creator {
	var opts []jwt.CreatorOption
	if cfg.GetDevClaimStyle() == config.ClaimStyleClinic {
		opts = append(opts, jwt.WithClaimNames("clinic_id", "user_id", "userRole"))
	}
	return jwt.NewCreator(jwt.NewHMACSigner(cfg.GetDevSigningSecret()), cfg.GetDevTokenExpiry(), opts...)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
