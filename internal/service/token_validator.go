package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/guttosm/print-order-service/internal/domain/dto"
)

// ErrInvalidToken is returned when a token is malformed, expired or signed
// with another key.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenValidator checks bearer tokens issued by the order API's auth service.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*dto.Claims, error)
}

// TokenConfig holds what a token must satisfy.
type TokenConfig struct {
	SecretKey string
	// Issuer, when set, must match the token's iss claim.
	Issuer string
	Leeway time.Duration
}

// TokenClaims is the JWT payload: identity plus registered claims.
type TokenClaims struct {
	dto.Claims
	jwt.RegisteredClaims
}

// JWTValidator implements TokenValidator for HMAC-signed tokens.
type JWTValidator struct {
	secretKey []byte
	parser    *jwt.Parser
}

// NewTokenValidator creates a validator for tokens signed with cfg.SecretKey.
func NewTokenValidator(cfg TokenConfig) *JWTValidator {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	return &JWTValidator{
		secretKey: []byte(cfg.SecretKey),
		parser:    jwt.NewParser(opts...),
	}
}

// ValidateToken parses tokenString and returns its claims. A token without a
// user_id claim takes its subject as the user id.
func (v *JWTValidator) ValidateToken(_ context.Context, tokenString string) (*dto.Claims, error) {
	claims := &TokenClaims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return &claims.Claims, nil
}

// SignToken issues a token for claims valid for ttl. Used by tooling and tests;
// production tokens come from the auth service.
func SignToken(secretKey string, claims dto.Claims, issuer string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &TokenClaims{
		Claims: claims,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString([]byte(secretKey))
}
