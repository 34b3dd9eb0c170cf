// Package auth issues and verifies administrator bearer tokens.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/robertarktes/flight-seat-reservations/internal/domain"
)

const (
	MsgLoginRequired       = "Please log in as an administrator."
	MsgCredentialsRequired = "Username and password are required."
	MsgInvalidCredentials  = "Invalid username or password."
	MsgLoggedIn            = "Successfully logged in."
	MsgLoggedOut           = "You have been logged out."

	roleAdmin = "ADMIN"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// CredentialStore looks up administrator password hashes. A missing
// administrator is domain.ErrNotFound.
type CredentialStore interface {
	PasswordHash(ctx context.Context, username string) (string, error)
}

// Revocations remembers logged out token ids until they would have expired
// anyway.
type Revocations interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Session struct {
	Token     string
	ExpiresAt time.Time
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	creds   CredentialStore
	revoked Revocations
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
}

// NewAuthenticator signs tokens with secret. A nil revocations falls back to
// an in-process list.
func NewAuthenticator(creds CredentialStore, revoked Revocations, secret string, ttl time.Duration) *Authenticator {
	if revoked == nil {
		revoked = NewMemoryRevocations()
	}
	return &Authenticator{creds: creds, revoked: revoked, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (a *Authenticator) Login(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return Session{}, domain.NewValidationError(MsgCredentialsRequired)
	}

	hash, err := a.creds.PasswordHash(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if !VerifyPassword(hash, password) {
		return Session{}, ErrInvalidCredentials
	}

	now := a.now().UTC()
	exp := now.Add(a.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: roleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := t.SignedString(a.secret)
	if err != nil {
		return Session{}, errors.Wrap(err, "sign admin token")
	}
	return Session{Token: signed, ExpiresAt: exp}, nil
}

// Verify turns a raw bearer token into an AdminToken. Any defect, including
// a revoked token, is domain.ErrUnauthorized.
func (a *Authenticator) Verify(ctx context.Context, raw string) (domain.AdminToken, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return domain.AdminToken{}, errors.Mark(errors.Wrap(err, "parse admin token"), domain.ErrUnauthorized)
	}
	if c.Role != roleAdmin || c.ID == "" || c.Subject == "" {
		return domain.AdminToken{}, domain.ErrUnauthorized
	}

	revoked, err := a.revoked.IsRevoked(ctx, c.ID)
	if err != nil {
		return domain.AdminToken{}, err
	}
	if revoked {
		return domain.AdminToken{}, domain.ErrUnauthorized
	}
	return domain.AdminToken{ID: c.ID, Username: c.Subject, ExpiresAt: c.ExpiresAt.Time}, nil
}

func (a *Authenticator) Logout(ctx context.Context, token domain.AdminToken) error {
	ttl := token.ExpiresAt.Sub(a.now())
	if token.ID == "" || ttl <= 0 {
		return nil
	}
	return a.revoked.Revoke(ctx, token.ID, ttl)
}
