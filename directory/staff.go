package directory

import (
	"github.com/jrsteele09/clinic-gateway/token/jwt"
)

// StaffMember is a doctor, nurse, lab technician or administrator attached
// to an institution
type StaffMember struct {
	ID            int64    `json:"id"`
	InstitutionID int64    `json:"institutionId"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Role          jwt.Role `json:"role"`
	Phone         string   `json:"phone,omitempty"`
	Department    string   `json:"department,omitempty"`
}

// NewStaffMember is the payload for creating staff
type NewStaffMember struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Role       jwt.Role `json:"role"`
	Phone      string   `json:"phone,omitempty"`
	Department string   `json:"department,omitempty"`
	Password   string   `json:"password,omitempty"`
}

// StaffUpdate carries only the fields being changed
type StaffUpdate struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Department *string `json:"department,omitempty"`
}
