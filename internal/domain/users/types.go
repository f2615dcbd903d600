package users

import (
	"errors"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("a user with that email already exists")
	QueryTimeoutDuration = time.Second * 5
)

// Role is the closed set of account roles. Authorization decisions
// compare against these constants only, never raw strings.
type Role string

const (
	RoleUser       Role = "user"
	RoleStoreOwner Role = "storeOwner"
	RoleAdmin      Role = "admin"
)

type User struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	Email                string    `json:"email"`
	Address              string    `json:"address"`
	Role                 Role      `json:"role"`
	Password             password  `json:"-"`
	ResetPasswordToken   string    `json:"-"` // Sensitive data
	ResetPasswordExpires time.Time `json:"-"` // Internal use only
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Password struct to store plain text and hash
type password struct {
	text *string `json:"-"` // Hide plaintext password
	hash []byte  `json:"-"` // Hide hashed password
}

func (p *password) Set(text string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(text), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	p.text = &text
	p.hash = hash

	return nil
}

func (p *password) Compare(text string) error {
	return bcrypt.CompareHashAndPassword(p.hash, []byte(text))
}

// Go's regexp has no lookahead, so the policy is three separate checks
// rather than one expression.
var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	specialRe = regexp.MustCompile(`[!@#$%^&*]`)
)

// ValidPassword reports whether text satisfies the password policy:
// 8-16 characters with at least one uppercase letter and at least one
// of !@#$%^&*.
func ValidPassword(text string) bool {
	if len(text) < 8 || len(text) > 16 {
		return false
	}
	return upperRe.MatchString(text) && specialRe.MatchString(text)
}

// Filters narrows the admin user listing. Name and Email are substring
// matches, Role is an exact match. Empty fields are ignored.
type Filters struct {
	Name  string
	Email string
	Role  string
}
