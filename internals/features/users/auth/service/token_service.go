package service

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"feeportal_backend/internals/configs"
	userModel "feeportal_backend/internals/features/users/user/model"
)

/* ==========================
   Const & Types
========================== */

const (
	accessTTLDefault  = 24 * time.Hour
	refreshTTLDefault = 7 * 24 * time.Hour

	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

var errInvalidToken = errors.New("invalid token")

/* ==========================
   Small Helpers
========================== */

func nowUTC() time.Time { return time.Now().UTC() }

func getJWTSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_SECRET is not set")
	}
	return secret, nil
}

// getRefreshSecret falls back to the access secret when no dedicated one is configured.
func getRefreshSecret() (string, error) {
	if s := strings.TrimSpace(configs.JWTRefreshSecret); s != "" {
		return s, nil
	}
	return getJWTSecret()
}

/* ==========================
   Claims
========================== */

func buildAccessClaims(user userModel.UserModel, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"typ":       TokenTypeAccess,
		"sub":       user.ID.String(),
		"id":        user.ID.String(),
		"role":      user.Role,
		"user_name": user.UserName,
		"iat":       now.Unix(),
		"exp":       now.Add(accessTTLDefault).Unix(),
	}
}

func buildRefreshClaims(userID uuid.UUID, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"typ": TokenTypeRefresh,
		"sub": userID.String(),
		"id":  userID.String(),
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(refreshTTLDefault).Unix(),
	}
}

// IssueTokens signs a fresh access/refresh pair for user.
func IssueTokens(user userModel.UserModel, now time.Time) (TokenPair, error) {
	accessSecret, err := getJWTSecret()
	if err != nil {
		return TokenPair{}, err
	}
	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return TokenPair{}, err
	}

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, buildAccessClaims(user, now)).SignedString([]byte(accessSecret))
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, buildRefreshClaims(user.ID, now)).SignedString([]byte(refreshSecret))
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  now.Add(accessTTLDefault),
		RefreshExpiresAt: now.Add(refreshTTLDefault),
	}, nil
}

// parseSigned verifies signature, algorithm, expiry and the typ claim.
func parseSigned(raw, secret, wantType string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, errInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ != wantType {
		return nil, errInvalidToken
	}
	return claims, nil
}

func ParseRefreshToken(raw string) (uuid.UUID, jwt.MapClaims, error) {
	secret, err := getRefreshSecret()
	if err != nil {
		return uuid.Nil, nil, err
	}
	claims, err := parseSigned(raw, secret, TokenTypeRefresh)
	if err != nil {
		return uuid.Nil, nil, err
	}
	id, _ := claims["id"].(string)
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, nil, errInvalidToken
	}
	return uid, claims, nil
}

// resolveBlacklistTTL keeps a revoked token only as long as it could still be presented.
func resolveBlacklistTTL(claims jwt.MapClaims) time.Duration {
	ttl := 2 * time.Minute
	if claims == nil {
		return ttl
	}
	if exp, ok := claims["exp"].(float64); ok {
		until := time.Until(time.Unix(int64(exp), 0))
		if until > 0 {
			return until + time.Minute
		}
		return time.Minute
	}
	return ttl
}

// unverifiedClaims reads claims without checking the signature; only used to size blacklist TTLs.
func unverifiedClaims(raw string) jwt.MapClaims {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(raw, claims); err != nil {
		return nil
	}
	return claims
}
