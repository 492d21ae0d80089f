package core

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenTTL is the fixed validity window of an access token.
const tokenTTL = 7 * 24 * time.Hour

// tokenClaims carries the identity snapshot embedded in an access token.
// Email and name are denormalized copies taken at issuance.
type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// TokenIssuer mints signed access tokens.
type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

// Issue creates an HS256-signed token for the given user, valid for seven days.
func (i *TokenIssuer) Issue(userID uuid.UUID, email, displayName string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		Email: email,
		Name:  displayName,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// TokenVerifier validates access tokens and extracts the caller identity.
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Verify parses and validates tokenString. It fails closed with
// ErrTokenInvalid on malformed input, a bad signature, an expired token, a
// signing method other than HS256, or a subject that is not a valid UUID.
// Verification is pure computation: no storage lookup happens here, so a
// token stays valid for its full window even if the user record changes.
func (v *TokenVerifier) Verify(tokenString string) (Identity, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Identity{}, ErrTokenInvalid
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, ErrTokenInvalid
	}
	return Identity{ID: id, Email: claims.Email}, nil
}
