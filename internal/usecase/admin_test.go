package usecase_test

import (
	"errors"
	"testing"

	"github.com/puredesi/oilshop/internal/config"
	domainErrors "github.com/puredesi/oilshop/internal/domain/errors"
	"github.com/puredesi/oilshop/internal/test"
	. "github.com/puredesi/oilshop/internal/usecase"
)

func newTestAdminAuth() *AdminAuthUseCase {
	cfg := &config.Config{AdminLogin: "admin", AdminPasswordHash: "hash:secret"}
	return NewAdminAuthUseCase(cfg, test.HasherStub{}, test.StrategyStub{
		IssueFn: func(subject string) (string, error) { return "token-" + subject, nil },
		ParseFn: func(token string) (string, error) {
			if token != "token-admin" {
				return "", errors.New("bad token")
			}
			return "admin", nil
		},
	})
}

func TestAdminAuthenticate(t *testing.T) {
	u := newTestAdminAuth()

	token, err := u.Authenticate("admin", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "token-admin" {
		t.Fatalf("token = %q", token)
	}

	subject, err := u.ParseToken(token)
	if err != nil || subject != "admin" {
		t.Fatalf("parse: %q %v", subject, err)
	}
}

func TestAdminAuthenticateRejections(t *testing.T) {
	u := newTestAdminAuth()

	cases := [][2]string{
		{"", "secret"},
		{"admin", ""},
		{"root", "secret"},
		{"admin", "wrong"},
	}
	for _, c := range cases {
		if _, err := u.Authenticate(c[0], c[1]); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
			t.Errorf("login %q password %q: expected invalid credentials, got %v", c[0], c[1], err)
		}
	}
}
