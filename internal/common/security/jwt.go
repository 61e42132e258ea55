package security

import (
	"errors"
	"time"

	"account_api/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
}

// TTL returns the configured access-token lifetime.
func TTL() time.Duration {
	return time.Duration(config.AppConfig.JWTTTLMinutes) * time.Minute
}

// GenerateToken mints a signed token for the user and returns the token
// string together with its jti. The jti is what the revocation list keys on.
func GenerateToken(userID string) (string, string, error) {
	jti := uuid.NewString()
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"jti":     jti,
		"exp":     now.Add(TTL()).Unix(),
		"iat":     now.Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, jti, err
}

// Helper functions to extract claims, used by the auth middleware.

func GetUserIDFromClaims(claims map[string]interface{}) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetTokenIDFromClaims(claims map[string]interface{}) (string, error) {
	jti, ok := claims["jti"].(string)
	if !ok {
		return "", errors.New("jti claim is missing or not a string")
	}
	return jti, nil
}

func GetExpiryFromClaims(claims map[string]interface{}) (time.Time, error) {
	// jwtauth hands back "exp" as time.Time; a raw numeric claim shows up
	// as float64 when decoded from JSON.
	switch v := claims["exp"].(type) {
	case time.Time:
		return v, nil
	case float64:
		return time.Unix(int64(v), 0), nil
	case int64:
		return time.Unix(v, 0), nil
	}
	return time.Time{}, errors.New("exp claim is missing")
}
