package usecase

import (
	"strings"

	"github.com/puredesi/oilshop/internal/config"
	domainErrors "github.com/puredesi/oilshop/internal/domain/errors"
	pkgAuth "github.com/puredesi/oilshop/internal/pkg/auth"
)

// AdminAuthUseCase authenticates the back-office operator. There is a single
// admin identity configured at deploy time; no self-service registration.
type AdminAuthUseCase struct {
	login        string
	passwordHash string
	hasher       pkgAuth.PasswordHasher
	tokens       pkgAuth.Strategy
}

// NewAdminAuthUseCase constructs AdminAuthUseCase from config credentials.
func NewAdminAuthUseCase(cfg *config.Config, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AdminAuthUseCase {
	return &AdminAuthUseCase{
		login:        cfg.AdminLogin,
		passwordHash: cfg.AdminPasswordHash,
		hasher:       hasher,
		tokens:       strategy,
	}
}

// Authenticate validates admin credentials and returns a session token.
func (u *AdminAuthUseCase) Authenticate(login, password string) (string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return "", domainErrors.ErrInvalidCredentials
	}
	if login != u.login {
		return "", domainErrors.ErrInvalidCredentials
	}
	if err := u.hasher.Compare(u.passwordHash, password); err != nil {
		return "", domainErrors.ErrInvalidCredentials
	}
	return u.tokens.IssueToken(login)
}

// ParseToken extracts the admin subject from a session token.
func (u *AdminAuthUseCase) ParseToken(token string) (string, error) {
	if token == "" {
		return "", pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}
