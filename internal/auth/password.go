package auth

import (
	"context"

	"github.com/robertarktes/flight-seat-reservations/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// StaticCredentials holds administrator hashes in memory. It backs the
// memory store in development runs.
type StaticCredentials map[string]string

func NewStaticCredentials(username, password string) (StaticCredentials, error) {
	creds := StaticCredentials{}
	if username == "" || password == "" {
		return creds, nil
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	creds[username] = hash
	return creds, nil
}

func (c StaticCredentials) PasswordHash(_ context.Context, username string) (string, error) {
	hash, ok := c[username]
	if !ok {
		return "", domain.ErrNotFound
	}
	return hash, nil
}
