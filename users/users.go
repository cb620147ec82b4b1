package users

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jrsteele09/clinic-gateway/token/jwt"
	"golang.org/x/crypto/bcrypt"
)

// User is a staff account of one institution
type User struct {
	ID            int64    `json:"id"`                   // Unique identifier, assigned by the repo
	InstitutionID int64    `json:"institutionId"`        // Clinic, hospital or lab the user belongs to
	Name          string   `json:"name"`                 // Display name
	Email         string   `json:"email"`                // Login, unique across institutions
	Role          jwt.Role `json:"role"`                 // Dashboard the user is allowed into
	Phone         string   `json:"phone,omitempty"`      // Contact number
	Department    string   `json:"department,omitempty"` // Ward, unit or lab section
	PasswordHash  string   `json:"-"`                    // never serialize
}

// IsAdmin reports whether the user may manage staff
func (u *User) IsAdmin() bool {
	return u.Role == jwt.RoleClinicAdmin || u.Role == jwt.RoleSystemAdmin
}

// Validate checks the fields every stored user must have
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("a valid email is required")
	}
	if !u.Role.Valid() {
		return fmt.Errorf("unknown role %q", u.Role)
	}
	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ValidatePassword enforces a minimum length and at least one letter and
// one digit
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	var letter, digit bool
	for _, c := range password {
		switch {
		case unicode.IsLetter(c):
			letter = true
		case unicode.IsDigit(c):
			digit = true
		}
	}
	if !letter || !digit {
		return fmt.Errorf("password must contain a letter and a digit")
	}
	return nil
}
