package auth

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/robertarktes/flight-seat-reservations/internal/domain"
)

type credentials map[string]string

func (c credentials) PasswordHash(_ context.Context, username string) (string, error) {
	hash, ok := c[username]
	if !ok {
		return "", domain.ErrNotFound
	}
	return hash, nil
}

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	return NewAuthenticator(credentials{"admin": hash}, nil, "test-secret", time.Hour)
}

func TestLoginAndVerify(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(t)

	session, err := a.Login(ctx, " admin ", " s3cret ")
	if err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
	if session.Token == "" || !session.ExpiresAt.After(time.Now()) {
		t.Fatalf("unexpected session %+v", session)
	}

	token, err := a.Verify(ctx, session.Token)
	if err != nil {
		t.Fatalf("expected token to verify, got %v", err)
	}
	if token.Username != "admin" || token.ID == "" || !token.Valid(time.Now()) {
		t.Errorf("unexpected admin token %+v", token)
	}
}

func TestLoginRejections(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(t)

	tests := []struct {
		name     string
		username string
		password string
		want     error
		message  string
	}{
		{name: "blank username", username: " ", password: "s3cret", message: MsgCredentialsRequired},
		{name: "blank password", username: "admin", password: "", message: MsgCredentialsRequired},
		{name: "wrong password", username: "admin", password: "nope", want: ErrInvalidCredentials},
		{name: "unknown admin", username: "root", password: "s3cret", want: ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Login(ctx, tt.username, tt.password)
			if tt.message != "" {
				var verr *domain.ValidationError
				if !errors.As(err, &verr) || verr.Message != tt.message {
					t.Fatalf("expected validation error %q, got %v", tt.message, err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestVerifyRejections(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(t)

	other := NewAuthenticator(a.creds, nil, "other-secret", time.Hour)
	foreign, err := other.Login(ctx, "admin", "s3cret")
	if err != nil {
		t.Fatal(err)
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims{
		Role: roleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID: "x", Subject: "admin", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(a.secret)
	if err != nil {
		t.Fatal(err)
	}

	notAdmin, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: "CUSTOMER",
		RegisteredClaims: jwt.RegisteredClaims{
			ID: "y", Subject: "admin", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(a.secret)
	if err != nil {
		t.Fatal(err)
	}

	for name, raw := range map[string]string{
		"empty":          "",
		"garbage":        "not-a-token",
		"foreign secret": foreign.Token,
		"other method":   hs512,
		"wrong role":     notAdmin,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := a.Verify(ctx, raw); !errors.Is(err, domain.ErrUnauthorized) {
				t.Errorf("expected unauthorized, got %v", err)
			}
		})
	}
}

func TestVerifyExpired(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(t)

	session, err := a.Login(ctx, "admin", "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	a.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	if _, err := a.Verify(ctx, session.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected expired token to be rejected, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(t)

	session, err := a.Login(ctx, "admin", "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	token, err := a.Verify(ctx, session.Token)
	if err != nil {
		t.Fatal(err)
	}

	if err := a.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := a.Verify(ctx, session.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected revoked token to be rejected, got %v", err)
	}

	fresh, err := a.Login(ctx, "admin", "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Verify(ctx, fresh.Token); err != nil {
		t.Errorf("a new login should not be affected by the old logout, got %v", err)
	}
}

func TestMemoryRevocationsExpire(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRevocations()
	now := time.Now()
	m.now = func() time.Time { return now }

	if err := m.Revoke(ctx, "a", time.Minute); err != nil {
		t.Fatal(err)
	}
	if revoked, _ := m.IsRevoked(ctx, "a"); !revoked {
		t.Fatal("expected token to be revoked")
	}

	now = now.Add(2 * time.Minute)
	if revoked, _ := m.IsRevoked(ctx, "a"); revoked {
		t.Error("expected revocation to lapse with the token")
	}
}
