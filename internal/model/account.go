package model

import "time"

const (
	RoleUser      = "user"
	RoleSuperuser = "superuser"
)

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleSuperuser
}

type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicAccount is the client-facing view of an account. The password hash
// never leaves the service layer.
type PublicAccount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (a Account) Public() PublicAccount {
	return PublicAccount{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}
}

// Claims is the verified payload of an auth token. Authorization decisions
// trust the role claim as of issuance; a role change takes effect when the
// holder logs in again.
type Claims struct {
	UserID string `json:"sub"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

type AuthResult struct {
	Token string        `json:"token"`
	User  PublicAccount `json:"user"`
}
