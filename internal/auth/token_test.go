package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(testSecret, DefaultTokenTTL)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	return m
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
	m, err := NewTokenManager(testSecret, 0)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	if m.TTL() != 24*time.Hour {
		t.Fatalf("default ttl = %v", m.TTL())
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := newTestManager(t)
	id := Identity{ID: "user-1", Username: "alice"}

	token, err := m.Issue(id)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Identity() != id {
		t.Fatalf("identity = %+v, want %+v", claims.Identity(), id)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatalf("expected exp and iat, got %+v", claims.RegisteredClaims)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != DefaultTokenTTL {
		t.Fatalf("exp - iat = %v", got)
	}
}

func TestVerifyExpiryBoundary(t *testing.T) {
	issued := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	m := newTestManager(t)

	token, err := m.WithClock(fixedClock(issued)).Issue(Identity{ID: "user-1", Username: "alice"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	exp := issued.Add(DefaultTokenTTL)

	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{name: "just issued", at: issued},
		{name: "one second before expiry", at: exp.Add(-time.Second)},
		{name: "at expiry", at: exp, wantErr: ErrExpired},
		{name: "one second after expiry", at: exp.Add(time.Second), wantErr: ErrExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.WithClock(fixedClock(tt.at)).Verify(token)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerifyRejects(t *testing.T) {
	m := newTestManager(t)
	good, err := m.Issue(Identity{ID: "user-1", Username: "alice"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other, err := NewTokenManager("a-completely-different-secret", DefaultTokenTTL)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	foreign, err := other.Issue(Identity{ID: "user-1", Username: "alice"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: "user-1"}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign HS512: %v", err)
	}

	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Username: "alice"}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "wrong key", token: foreign, wantErr: ErrInvalidSignature},
		{name: "wrong algorithm", token: hs512, wantErr: ErrInvalidSignature},
		{name: "garbage", token: "not-a-token", wantErr: ErrMalformed},
		{name: "empty", token: "", wantErr: ErrMalformed},
		{name: "three garbage segments", token: "a.b.c", wantErr: ErrMalformed},
		{name: "missing subject id", token: noID, wantErr: ErrMalformed},
		{name: "tampered payload", token: tampered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tt.token)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerifyTokenWithoutExpiry(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "user-1", Username: "alice"}).
		SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	m := newTestManager(t).WithClock(fixedClock(time.Now().Add(10 * 365 * 24 * time.Hour)))
	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("token without exp should verify, got %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("UserID = %q", claims.UserID)
	}
}
