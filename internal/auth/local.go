package auth

import (
	"context"
	"fmt"

	"github.com/yasmngoncalves/PolarisApp/internal"
)

// LocalAuthProvider accepts a single static token and maps it to a demo user. Development only.
type LocalAuthProvider struct {
	Token  string
	User   internal.User
	logger internal.Logger
}

func (a *LocalAuthProvider) Authenticate(ctx context.Context, token string) (*internal.User, error) {
	if token == a.Token {
		u := a.User
		return &u, nil
	}
	a.logger.Warnf("invalid local token")
	return nil, fmt.Errorf("local auth: %w", internal.ErrUnauthorized)
}

func NewLocalAuthProvider(token string, logger internal.Logger) *LocalAuthProvider {
	return &LocalAuthProvider{
		Token:  token,
		User:   internal.User{ID: "u1", Email: "demo@polaris.local", Name: "Demo User"},
		logger: logger,
	}
}
