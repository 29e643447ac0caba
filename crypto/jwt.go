package crypto

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"werewolf/domain"

	"github.com/golang-jwt/jwt/v5"
)

// ScopeRooms lets a token create, destroy and pause rooms.
const ScopeRooms = "rooms"

const issuer = "werewolf"

type adminClaims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// JWTManager issues and checks the bearer tokens of the room API. Tokens are
// meant for the text-command frontend, not for players.
type JWTManager struct {
	secretKey []byte
	maxAge    time.Duration
}

func NewJWTManager(secretKey string, maxAge time.Duration) *JWTManager {
	return &JWTManager{
		secretKey: []byte(secretKey),
		maxAge:    maxAge,
	}
}

func (m *JWTManager) Generate(subject string, scopes []string, now time.Time) (string, error) {
	claims := adminClaims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.UnexpectedTokenGenError, err)
	}
	return signed, nil
}

// Verify checks the signature, expiry and that scope was granted, and returns
// the subject.
func (m *JWTManager) Verify(tokenString string, scope string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &adminClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidSigningAlg
		}
		return m.secretKey, nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSigningAlg):
			return "", err
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", domain.ErrExpiredToken
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return "", domain.ErrInvalidTokenSignature
		case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return "", domain.ErrCorruptedToken
		default:
			return "", fmt.Errorf("%w: %w", domain.UnexpectedTokenVerifyErr, err)
		}
	}

	claims, ok := token.Claims.(*adminClaims)
	if !ok || !token.Valid {
		return "", domain.ErrCorruptedToken
	}
	if !slices.Contains(claims.Scopes, scope) {
		return "", domain.ErrMissingScope
	}
	return claims.Subject, nil
}
