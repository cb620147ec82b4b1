package server

import (
	"fmt"

	"github.com/jrsteele09/clinic-gateway/institutions"
	apperrors "github.com/jrsteele09/clinic-gateway/internal/errors"
	"github.com/jrsteele09/clinic-gateway/token/jwt"
	"github.com/jrsteele09/clinic-gateway/users"
)

// DemoInstitutionID is the institution the seeded accounts belong to
const DemoInstitutionID int64 = 1

// Institutions created at startup. Only the first has staff.
var demoInstitutions = []institutions.Institution{
	{ID: DemoInstitutionID, Name: "Demo General Hospital", Kind: institutions.KindHospital},
	{ID: 2, Name: "Demo Harbour Clinic", Kind: institutions.KindClinic},
	{ID: 3, Name: "Demo Pathology Lab", Kind: institutions.KindLab},
}

// DemoEmail returns the seeded account email for a role, e.g.
// doctor@clinic.test
func DemoEmail(role jwt.Role) string {
	return fmt.Sprintf("%s@clinic.test", role)
}

// InitialiseSystem seeds the demo institutions and one account per role in
// the first of them. It is safe to call again: existing accounts are left
// untouched.
func (s *Server) InitialiseSystem(password string) error {
	for _, institution := range demoInstitutions {
		if err := s.institutions.Upsert(&institution); err != nil {
			return fmt.Errorf("seeding institution %d: %w", institution.ID, err)
		}
	}

	hash, err := users.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}

	for _, role := range jwt.Roles {
		user := &users.User{
			InstitutionID: DemoInstitutionID,
			Name:          fmt.Sprintf("Demo %s", role),
			Email:         DemoEmail(role),
			Role:          role,
			PasswordHash:  hash,
		}
		err := s.users.Create(user)
		if apperrors.Is(err, apperrors.ErrConflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seeding %s: %w", role, err)
		}
		s.logger.Debug().Str("email", user.Email).Int64("id", user.ID).Msg("seeded demo account")
	}
	return nil
}
