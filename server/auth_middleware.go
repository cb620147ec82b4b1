package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	apperrors "github.com/jrsteele09/clinic-gateway/internal/errors"
	"github.com/jrsteele09/clinic-gateway/token/jwt"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyClaims stores verified token claims
	ContextKeyClaims ContextKey = "claims"
	// ContextKeyInstitutionID stores the institution from the URL
	ContextKeyInstitutionID ContextKey = "institution_id"
)

// ClaimsFromContext returns the claims stored by RequireAuth
func ClaimsFromContext(ctx context.Context) (jwt.Claims, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(jwt.Claims)
	return claims, ok
}

// InstitutionFromContext returns the institution stored by RequireInstitution
func InstitutionFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ContextKeyInstitutionID).(int64)
	return id, ok
}

// RequireAuth validates the Bearer token's signature and expiry
func (s *Server) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeMessage(w, http.StatusUnauthorized, "Missing Authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			writeMessage(w, http.StatusUnauthorized, "Invalid Authorization header format")
			return
		}

		claims, err := s.creator.Verify(parts[1])
		if err != nil {
			s.logger.Debug().Err(err).Msg("rejected bearer token")
			writeMessage(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireInstitution checks the {institutionID} path parameter against the
// token's institution. System admins may act on any institution that
// exists.
func (s *Server) RequireInstitution(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		institutionID, err := strconv.ParseInt(chi.URLParam(r, "institutionID"), 10, 64)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid institution id")
			return
		}

		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeError(w, apperrors.ErrForbidden)
			return
		}

		role, _ := claims.Role()
		tokenInstitution, ok := claims.InstitutionID()
		if role != jwt.RoleSystemAdmin && (!ok || tokenInstitution != institutionID) {
			writeMessage(w, http.StatusForbidden, "You do not have access to this institution")
			return
		}
		if _, err := s.institutions.Get(institutionID); err != nil {
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyInstitutionID, institutionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole allows the request only when the token carries one of roles
func (s *Server) RequireRole(roles ...jwt.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeError(w, apperrors.ErrForbidden)
				return
			}
			role, _ := claims.Role()
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeMessage(w, http.StatusForbidden, "Your role may not perform this action")
		})
	}
}
