package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/yasmngoncalves/PolarisApp/internal"
)

const issuer = "polaris"

type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// JWTProvider issues and verifies HS256 session tokens.
type JWTProvider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger internal.Logger
}

func NewJWTProvider(secret string, ttl time.Duration, logger internal.Logger) *JWTProvider {
	return &JWTProvider{secret: []byte(secret), ttl: ttl, now: time.Now, logger: logger}
}

func (p *JWTProvider) Issue(user internal.User) (string, time.Time, error) {
	now := p.now()
	exp := now.Add(p.ttl)
	claims := Claims{
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

func (p *JWTProvider) Authenticate(ctx context.Context, token string) (*internal.User, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		if !errors.Is(err, jwt.ErrTokenExpired) {
			p.logger.Warnf("rejected token: %v", err)
		}
		return nil, fmt.Errorf("jwt: %w", internal.ErrUnauthorized)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("jwt: missing subject: %w", internal.ErrUnauthorized)
	}
	return &internal.User{ID: claims.Subject, Email: claims.Email, Name: claims.Name}, nil
}
