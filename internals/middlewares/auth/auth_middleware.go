package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"feeportal_backend/internals/configs"
	authRepo "feeportal_backend/internals/features/users/auth/repository"
	helper "feeportal_backend/internals/helpers"
)

// AuthMiddleware validates the bearer/cookie access token, rejects blacklisted tokens
// and inactive users, and stores user_id/userRole/user_name in Locals.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1) token from Authorization header or cookie
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		// 2) signature
		secretKey := configs.JWTSecret
		if secretKey == "" {
			log.Error("[AUTH] JWT_SECRET is empty")
			return fiber.NewError(fiber.StatusInternalServerError, "missing JWT secret")
		}
		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true, ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		}); err != nil {
			log.Debugf("[AUTH] token parse error: %v", err)
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized - invalid token")
		}
		if typ, _ := claims["typ"].(string); typ != "" && typ != "access" {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized - not an access token")
		}

		// 3) expiry with clock skew
		if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized - token expired")
		}

		// 4) blacklist
		tx := db.WithContext(helper.ReqCtx(c))
		revoked, err := authRepo.IsTokenBlacklisted(tx, tokenString)
		if err != nil {
			log.Printf("[ERROR] blacklist lookup: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
		}
		if revoked {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized - token is blacklisted")
		}

		// 5) user exists and is active; role comes from the row so demotions apply immediately
		userID, err := extractUserID(claims)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized - invalid or missing user id")
		}
		state, err := loadUserState(tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "unauthorized - user not found")
			}
			log.Printf("[ERROR] load user state: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
		}
		if !state.IsActive {
			return fiber.NewError(fiber.StatusForbidden, "your account has been deactivated")
		}

		c.Locals(helper.LocUserID, userID.String())
		c.Locals(helper.LocUserRole, state.Role)
		c.Locals(helper.LocUserName, state.UserName)
		helper.SetRawAccessToken(c, tokenString)
		return c.Next()
	}
}
