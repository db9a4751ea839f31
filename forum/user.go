package forum

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is a registered account. The password is only ever stored as a
// bcrypt hash; the plaintext never leaves the registration/login handlers.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser allocates an id and timestamp for a fresh account. The password
// hash is set separately via SetPassword.
func NewUser(username string) *User {
	return &User{
		ID:        uuid.New().String(),
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
}

// Identity satisfies Identifiable.
func (u *User) Identity() string {
	return u.ID
}

// SetPassword hashes the plaintext with a per-call random salt. Hashing the
// same password twice produces different hashes; use PasswordMatches to
// compare.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// PasswordMatches reports whether the plaintext matches the stored hash.
// A malformed or empty hash is simply a non-match.
func (u *User) PasswordMatches(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
