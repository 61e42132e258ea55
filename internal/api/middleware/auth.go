package middleware

import (
	"context"
	"net/http"
	"time"

	"account_api/internal/common"
	"account_api/internal/common/security"
	"account_api/internal/domain/repository"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	UserIDCtxKey      contextKey = "userID"
	TokenIDCtxKey     contextKey = "tokenID"
	TokenExpiryCtxKey contextKey = "tokenExpiry"
)

const msgNotAuthenticated = "User is not Authenticated!"

// Authenticator rejects requests without a valid, unrevoked token and
// places the resolved identity into the request context. Handlers read
// it back with the Get*FromContext helpers; there is no ambient session
// state anywhere else.
func Authenticator(revocations repository.TokenRevocations) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				common.RespondWithError(w, http.StatusUnauthorized, msgNotAuthenticated)
				return
			}

			userID, err := security.GetUserIDFromClaims(claims)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, msgNotAuthenticated)
				return
			}
			tokenID, err := security.GetTokenIDFromClaims(claims)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, msgNotAuthenticated)
				return
			}
			expiresAt, err := security.GetExpiryFromClaims(claims)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, msgNotAuthenticated)
				return
			}

			revoked, err := revocations.IsRevoked(r.Context(), tokenID)
			if err != nil {
				common.RespondWithError(w, http.StatusInternalServerError, "Failed to verify token: "+err.Error())
				return
			}
			if revoked {
				common.RespondWithError(w, http.StatusUnauthorized, msgNotAuthenticated)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
			ctx = context.WithValue(ctx, TokenIDCtxKey, tokenID)
			ctx = context.WithValue(ctx, TokenExpiryCtxKey, expiresAt)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Helper to get user ID from context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}

// Helper to get the token's jti from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDCtxKey).(string)
	return tokenID, ok
}

// Helper to get the token's expiry from context
func GetTokenExpiryFromContext(ctx context.Context) (time.Time, bool) {
	expiresAt, ok := ctx.Value(TokenExpiryCtxKey).(time.Time)
	return expiresAt, ok
}
