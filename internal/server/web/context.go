package web

import (
	"context"

	"github.com/dsmirnov/authkeeper/internal/server/auth"
)

type ctxKey string

const (
	accessClaimsKey  ctxKey = "access_claims"
	refreshClaimsKey ctxKey = "refresh_claims"
)

// AccessClaimsFromCtx returns the verified access-token claims placed into
// the request context by the Authenticate middleware.
func AccessClaimsFromCtx(ctx context.Context) (*auth.AccessClaims, bool) {
	claims, ok := ctx.Value(accessClaimsKey).(*auth.AccessClaims)
	return claims, ok
}

// RefreshClaimsFromCtx returns the verified refresh-token claims placed into
// the request context by the ValidateRefreshToken middleware.
func RefreshClaimsFromCtx(ctx context.Context) (*auth.RefreshClaims, bool) {
	claims, ok := ctx.Value(refreshClaimsKey).(*auth.RefreshClaims)
	return claims, ok
}
