package users

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is the principal record held by the store. The auth core only reads it
// transiently per request; it never caches or mutates one.
type User struct {
	ID           string    `json:"id,omitempty"`         // Unique identifier for the user
	Login        string    `json:"login"`                // Unique login name
	Role         string    `json:"role"`                 // Role carried into token claims
	PasswordHash string    `json:"-"`                    // Hashed password - never serialize
	CreatedAt    time.Time `json:"created_at,omitempty"` // When the user registered
}

// ValidateNewUser checks the fields required at registration.
func ValidateNewUser(login, password, role string) error {
	if login == "" || password == "" || role == "" {
		return fmt.Errorf("login, password and role are required")
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
