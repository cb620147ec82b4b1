package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	apperrors "github.com/jrsteele09/clinic-gateway/internal/errors"
	"github.com/jrsteele09/clinic-gateway/token/jwt"
	"github.com/jrsteele09/clinic-gateway/users"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string   `json:"token"`
	Role  jwt.Role `json:"role"`
}

type createStaffRequest struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Role       jwt.Role `json:"role"`
	Phone      string   `json:"phone"`
	Department string   `json:"department"`
	Password   string   `json:"password"`
}

type updateStaffRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeMessage answers with the {"message": ...} envelope the dashboards
// display on failure
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidRequest):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
	case apperrors.Is(err, apperrors.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "Forbidden")
	case apperrors.Is(err, apperrors.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Not found")
	case apperrors.Is(err, apperrors.ErrConflict):
		writeMessage(w, http.StatusConflict, "A user with this email already exists")
	default:
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidRequest, "invalid JSON body: %v", err)
	}
	return nil
}

func staffIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "staffID"), 10, 64)
	if err != nil {
		return 0, apperrors.Wrapf(apperrors.ErrInvalidRequest, "invalid staff id")
	}
	return id, nil
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
	}
}

func (s *Server) ListInstitutionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		list, err := s.institutions.List(offset, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) GetInstitutionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := InstitutionFromContext(r.Context())
		institution, err := s.institutions.Get(id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, institution)
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}

		user, err := s.users.GetByEmail(req.Email)
		if err != nil || !users.CheckPasswordHash(req.Password, user.PasswordHash) {
			s.logger.Warn().Str("email", req.Email).Msg("login failed")
			writeError(w, apperrors.ErrInvalidCredentials)
			return
		}

		token, err := s.creator.CreateAccessToken(jwt.Subject{
			UserID:        user.ID,
			InstitutionID: user.InstitutionID,
			Role:          user.Role,
		})
		if err != nil {
			s.logger.Err(err).Msg("failed to create access token")
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, loginResponse{Token: token, Role: user.Role})
	}
}

func (s *Server) ListStaffHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		institutionID, _ := InstitutionFromContext(r.Context())

		role := jwt.Role(r.URL.Query().Get("role"))
		if role != "" && !role.Valid() {
			writeMessage(w, http.StatusBadRequest, "Unknown role "+string(role))
			return
		}

		staff, err := s.users.List(institutionID, role)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, staff)
	}
}

func (s *Server) GetStaffHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		institutionID, _ := InstitutionFromContext(r.Context())
		id, err := staffIDParam(r)
		if err != nil {
			writeError(w, err)
			return
		}
		user, err := s.users.GetByID(institutionID, id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) CreateStaffHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		institutionID, _ := InstitutionFromContext(r.Context())

		var req createStaffRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}

		user := &users.User{
			InstitutionID: institutionID,
			Name:          strings.TrimSpace(req.Name),
			Email:         strings.TrimSpace(req.Email),
			Role:          req.Role,
			Phone:         req.Phone,
			Department:    req.Department,
		}
		if err := user.Validate(); err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Password != "" {
			if err := users.ValidatePassword(req.Password); err != nil {
				writeMessage(w, http.StatusBadRequest, err.Error())
				return
			}
			hash, err := users.HashPassword(req.Password)
			if err != nil {
				writeError(w, err)
				return
			}
			user.PasswordHash = hash
		}

		if err := s.users.Create(user); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, user)
	}
}

func (s *Server) UpdateStaffHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		institutionID, _ := InstitutionFromContext(r.Context())
		id, err := staffIDParam(r)
		if err != nil {
			writeError(w, err)
			return
		}

		var req updateStaffRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}

		user, err := s.users.GetByID(institutionID, id)
		if err != nil {
			writeError(w, err)
			return
		}
		if req.Name != nil {
			user.Name = strings.TrimSpace(*req.Name)
		}
		if req.Email != nil {
			user.Email = strings.TrimSpace(*req.Email)
		}
		if req.Phone != nil {
			user.Phone = *req.Phone
		}
		if req.Department != nil {
			user.Department = *req.Department
		}
		if err := user.Validate(); err != nil {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := s.users.Update(user); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) DeleteStaffHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		institutionID, _ := InstitutionFromContext(r.Context())
		id, err := staffIDParam(r)
		if err != nil {
			writeError(w, err)
			return
		}

		claims, _ := ClaimsFromContext(r.Context())
		if self, ok := claims.UserID(); ok && self == id {
			writeMessage(w, http.StatusBadRequest, "You cannot delete your own account")
			return
		}

		if err := s.users.Delete(institutionID, id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": id})
	}
}
