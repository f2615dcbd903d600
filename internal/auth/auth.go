package auth

import (
	"ratehub/internal/domain/users"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the authenticated identity extracted from a verified
// token. It is produced once per request by the token middleware and
// never mutated downstream.
type Claims struct {
	UserID int64
	Role   users.Role
}

type Authenticator interface {
	GenerateToken(userID int64, role users.Role) (string, error)
	ValidateToken(token string) (*jwt.Token, error)
}
