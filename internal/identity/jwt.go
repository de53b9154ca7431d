package identity

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload issued by the identity service.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

// JWTResolver validates HS256 bearer tokens issued by the identity service.
type JWTResolver struct {
	secret []byte
	issuer string // Empty disables the issuer check
}

// NewJWTResolver creates a resolver for tokens signed with the given secret.
func NewJWTResolver(secret, issuer string) *JWTResolver {
	return &JWTResolver{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Resolve validates the token and returns the user id it carries.
func (r *JWTResolver) Resolve(_ context.Context, credential string) (int64, error) {
	claims := &Claims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if r.issuer != "" {
		opts = append(opts, jwt.WithIssuer(r.issuer))
	}

	token, err := jwt.ParseWithClaims(credential, claims, func(_ *jwt.Token) (any, error) {
		return r.secret, nil
	}, opts...)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrAuthFailure, err)
	}
	if !token.Valid {
		return 0, ErrAuthFailure
	}
	if claims.UserID <= 0 {
		return 0, fmt.Errorf("%w: token has no user_id claim", ErrAuthFailure)
	}

	return claims.UserID, nil
}
