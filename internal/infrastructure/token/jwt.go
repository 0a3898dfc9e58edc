package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/auvet/auth-service/internal/core/domain"
)

// DefaultTTL is the token lifetime used when none is configured.
const DefaultTTL = 24 * time.Hour

// JWTCodec signs and verifies session tokens with an HMAC-SHA256 shared
// secret.
type JWTCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTCodec(secret string, ttl time.Duration) *JWTCodec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &JWTCodec{secret: []byte(secret), ttl: ttl}
}

type sessionClaims struct {
	CPF         string `json:"cpf"`
	Email       string `json:"email"`
	UserType    string `json:"user_type"`
	AccessLevel int    `json:"access_level"`
	jwt.RegisteredClaims
}

func (c sessionClaims) toDomain() domain.TokenClaims {
	return domain.TokenClaims{
		CPF:         c.CPF,
		Email:       c.Email,
		UserType:    c.UserType,
		AccessLevel: c.AccessLevel,
	}
}

// Issue signs the claims into a bearer token with issued-at and expiry set
// from the configured TTL.
func (c *JWTCodec) Issue(claims domain.TokenClaims) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		CPF:         claims.CPF,
		Email:       claims.Email,
		UserType:    claims.UserType,
		AccessLevel: claims.AccessLevel,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})
	return t.SignedString(c.secret)
}

// Verify validates the signature and expiry. Every failure is reported as
// domain.ErrInvalidToken so callers cannot tell a bad signature from an
// expired or malformed token.
func (c *JWTCodec) Verify(token string) (domain.TokenClaims, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.TokenClaims{}, domain.ErrInvalidToken
	}
	return claims.toDomain(), nil
}

// Decode extracts claims without verifying the signature, returning nil on
// malformed input. Introspection only; never use it for authorization.
func (c *JWTCodec) Decode(token string) *domain.TokenClaims {
	var claims sessionClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil
	}
	decoded := claims.toDomain()
	return &decoded
}
