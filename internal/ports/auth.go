package ports

import "context"

type AuthClaims struct {
	UserID string
	Email  string
	Role   string
	Valid  bool
}

type AuthClient interface {
	ValidateToken(ctx context.Context, token string) (AuthClaims, error)
}
