package auth

import (
	"context"

	"github.com/yasmngoncalves/PolarisApp/internal"
)

// Provider resolves a bearer token to the user it was issued for.
type Provider interface {
	Authenticate(ctx context.Context, token string) (*internal.User, error)
}
