package auth

import (
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	// Read, write and restore defaults
	RoleAdmin Role = "admin"
	// Read / Write
	RoleOperator Role = "operator"
	// Readonly
	RoleViewer Role = "viewer"
)

// ParseRole accepts the role names stored in the user file.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleAdmin, RoleOperator, RoleViewer:
		return r, true
	default:
		return "", false
	}
}

type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

func (u *User) CanWrite() bool {
	return u.Role == RoleAdmin || u.Role == RoleOperator
}

func (u *User) CanReset() bool {
	return u.Role == RoleAdmin
}

// Basic password hashing
func HashPassword(plain string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
}

func CheckPassword(hash []byte, plain string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(plain)) == nil
}
