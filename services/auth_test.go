package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestAuth(t *testing.T) (*AuthService, *fakeClock) {
	t.Helper()
	auth := NewAuthService(openTestDB(t), "test-secret", time.Hour)
	clock := &fakeClock{t: time.Now()}
	auth.Now = clock.Now
	return auth, clock
}

func TestRegisterLoginResolve(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()

	token, err := auth.Register(ctx, "  Alice ", "pw1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	login, err := auth.Resolve(ctx, token)
	if err != nil || login != "alice" {
		t.Fatalf("resolve = %q, %v", login, err)
	}

	if _, err := auth.Register(ctx, "ALICE", "other"); !errors.Is(err, ErrLoginTaken) {
		t.Fatalf("duplicate register: %v", err)
	}

	token, err = auth.Login(ctx, "aLiCe", "pw1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login, _ := auth.Resolve(ctx, token); login != "alice" {
		t.Fatalf("login token resolves to %q", login)
	}

	if _, err := auth.Login(ctx, "alice", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("wrong password: %v", err)
	}
	if _, err := auth.Login(ctx, "nobody", "pw1"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("unknown login: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	auth, _ := newTestAuth(t)
	tests := []struct {
		name, login, password string
	}{
		{"empty login", "   ", "secret"},
		{"long login", "abcdefghijklmnopqrstuvwxyz012345", "secret"},
		{"short password", "bob", "pw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Register(context.Background(), tt.login, tt.password)
			wantKind(t, err, KindInvalidInput)
		})
	}
}

func TestResolveRejectsBadTokens(t *testing.T) {
	auth, clock := newTestAuth(t)
	ctx := context.Background()
	token, _ := auth.Register(ctx, "alice", "pw1")

	other := NewAuthService(auth.DB, "another-secret", time.Hour)
	forged, _ := other.issue("alice")

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"wrong key", forged},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Resolve(ctx, tt.token)
			wantKind(t, err, KindUnauthenticated)
		})
	}

	clock.Advance(2 * time.Hour)
	if _, err := auth.Resolve(ctx, token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expired token: %v", err)
	}
}
