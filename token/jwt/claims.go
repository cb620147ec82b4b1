package jwt

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Role is the dashboard a user is allowed into
type Role string

const (
	RoleDoctor      Role = "doctor"
	RoleNurse       Role = "nurse"
	RoleLab         Role = "lab"
	RoleClinicAdmin Role = "clinicadmin"
	RoleSystemAdmin Role = "systemadmin"
)

// Roles lists every known role
var Roles = []Role{RoleDoctor, RoleNurse, RoleLab, RoleClinicAdmin, RoleSystemAdmin}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Claim name aliases issued by the auth server. Within each group the
// first name that yields a usable value wins.
var (
	InstitutionIDClaims = []string{"hospitalId", "hospital_id", "clinicId", "clinic_id"}
	UserIDClaims        = []string{"userId", "user_id", "id"}
	RoleClaims          = []string{"role", "userRole"}
)

const ExpiryClaim = "exp"

// Claims is the decoded payload segment of a bearer token. Numbers are
// held as json.Number.
type Claims jwtlib.MapClaims

// InstitutionID resolves the clinic/hospital/lab id
func (c Claims) InstitutionID() (int64, bool) {
	return c.firstInt(InstitutionIDClaims)
}

// UserID resolves the authenticated user's id
func (c Claims) UserID() (int64, bool) {
	return c.firstInt(UserIDClaims)
}

// Role resolves the user's role. Unknown role names are returned as is.
func (c Claims) Role() (Role, bool) {
	for _, name := range RoleClaims {
		if s, ok := c[name].(string); ok && s != "" {
			return Role(s), true
		}
	}
	return "", false
}

// ExpiresAt returns the exp claim in seconds since the epoch
func (c Claims) ExpiresAt() (int64, bool) {
	exp, err := jwtlib.MapClaims(c).GetExpirationTime()
	if err != nil || exp == nil {
		return 0, false
	}
	return exp.Unix(), true
}

func (c Claims) firstInt(names []string) (int64, bool) {
	for _, name := range names {
		if v, ok := toInt64(c[name]); ok {
			return v, true
		}
	}
	return 0, false
}

// toInt64 accepts whole JSON numbers and decimal strings
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt64(f)
	case float64:
		return floatToInt64(n)
	case int64:
		return n, true
	case int:
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func floatToInt64(f float64) (int64, bool) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
