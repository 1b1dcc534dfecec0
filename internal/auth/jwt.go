package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is fixed; there is no refresh or revocation, the token simply expires.
const TokenTTL = 7 * 24 * time.Hour

type JWT struct{ secret []byte }

func NewJWT(secret string) *JWT { return &JWT{secret: []byte(secret)} }

type Claims struct {
	AdminID int64 `json:"admin_id"`
	jwt.RegisteredClaims
}

func (j *JWT) Sign(adminID int64, ttl time.Duration) (string, error) {
	claims := Claims{AdminID: adminID, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl))}}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(j.secret)
}

func (j *JWT) Parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) { return j.secret, nil })
	if err != nil { return nil, err }
	if c, ok := parsed.Claims.(*Claims); ok && parsed.Valid { return c, nil }
	return nil, errors.New("invalid token")
}
