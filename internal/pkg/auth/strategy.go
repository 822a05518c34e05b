package auth

import "time"

// Strategy issues and validates admin session tokens.
type Strategy interface {
	IssueToken(subject string) (string, error)
	ParseToken(token string) (string, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
