package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity claim carried by a session token. Email is the only
// stable identifier in the system.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens. Verification is a pure function
// of token plus secret; nothing is persisted server-side.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

func (c *Codec) Issue(email string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			Audience:  []string{"staywell-api"},
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

func (c *Codec) Parse(tokenString string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims, ok := tok.Claims.(*Claims); ok && tok.Valid && claims.Email != "" {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// TTL reports the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}
