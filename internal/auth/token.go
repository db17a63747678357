package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpiredToken is returned when the token's exp claim is in the past.
	ErrExpiredToken = errors.New("token expired")
	// ErrInvalidToken covers every other decoding or signature failure.
	ErrInvalidToken = errors.New("malformed or invalid token")
)

// Claims is the verified payload of a session token.
type Claims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// TokenService issues and verifies HS256 session tokens. Tokens are
// self-contained: verification is signature plus expiry only, and there is no
// server-side revocation, so an issued token stays valid for its full TTL even
// after password changes or account deletion.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

const DefaultTokenTTL = 24 * time.Hour

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured validity window.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue creates a signed token for the subject. Extra claims are merged into
// the claim set; reserved claim names (sub, iat, exp) cannot be overridden.
func (s *TokenService) Issue(subject string, extra map[string]string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = subject
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(s.ttl).Unix()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// Verify parses and validates a token, returning its claims. Expired tokens
// fail with ErrExpiredToken; every other failure (bad signature, wrong
// algorithm, garbage input) is ErrInvalidToken. The error never reveals
// whether the subject still exists.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrInvalidToken
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken
	}
	out := &Claims{Subject: sub, ExpiresAt: exp.Time}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	return out, nil
}
