package authtest

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"storeguard/internal/auth/models"
	"storeguard/pkg/platform/clock"
)

const issuer = "storeguard-authtest"

// AccessTokenClaims are the claims carried by access tokens issued by Server.
type AccessTokenClaims struct {
	Email       string   `json:"email"`
	Role        string   `json:"role,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// tokenIssuer signs HS256 access tokens and mints opaque refresh tokens.
type tokenIssuer struct {
	signingKey []byte
	ttl        time.Duration
	clock      clock.Clock
}

func (t *tokenIssuer) accessToken(admin models.AdminIdentity) (string, error) {
	now := t.clock.Now()
	claims := AccessTokenClaims{
		Email:       admin.Email,
		Role:        admin.Role,
		Permissions: admin.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   admin.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

func (t *tokenIssuer) parse(raw string) (*AccessTokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &AccessTokenClaims{}, func(token *jwt.Token) (any, error) {
		return t.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.clock.Now),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*AccessTokenClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid access token claims")
	}
	return claims, nil
}

func newRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return "rt_" + hex.EncodeToString(b), nil
}
