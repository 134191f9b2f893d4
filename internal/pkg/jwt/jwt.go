package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const issuer = "sacred-word-core"

// ErrInvalidToken covers malformed, expired and wrongly signed tokens.
var ErrInvalidToken = errors.New("invalid token")

var secret = []byte("sacred-word-secret-change-me")

// SetSecret configures the signing secret. Call once on startup; the
// compiled-in default is for development only.
func SetSecret(s string) {
	if s != "" {
		secret = []byte(s)
	}
}

// Claims is the token payload. UserID carries the owner's model ID.
type Claims struct {
	UserID string `json:"uid"`
	jwtlib.RegisteredClaims
}

var parser = jwtlib.NewParser(
	jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
	jwtlib.WithIssuer(issuer),
	jwtlib.WithExpirationRequired(),
)

// Sign issues a token for the user, valid for ttl.
func Sign(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwtlib.NewNumericDate(now),
			NotBefore: jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(secret)
}

// Parse validates a token and returns its claims.
func Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenStr, claims, func(*jwtlib.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
