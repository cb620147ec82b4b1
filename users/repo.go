package users

import "github.com/jrsteele09/clinic-gateway/token/jwt"

type UserRepo interface {
	Create(user *User) error
	Update(user *User) error
	Delete(institutionID, id int64) error
	GetByID(institutionID, id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	// List returns the institution's users ordered by ID; an empty role
	// matches every role
	List(institutionID int64, role jwt.Role) ([]*User, error)
}
