package service

import (
	"errors"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"feeportal_backend/internals/configs"
	"feeportal_backend/internals/constants"
	authHelper "feeportal_backend/internals/features/users/auth/helper"
	authRepo "feeportal_backend/internals/features/users/auth/repository"
	userDTO "feeportal_backend/internals/features/users/user/dto"
	userModel "feeportal_backend/internals/features/users/user/model"
	helpers "feeportal_backend/internals/helpers"
)

// GoogleClaims is the subset of an ID token we rely on.
type GoogleClaims struct {
	Email string
	Name  string
	Sub   string
}

// VerifyGoogleIDToken is swapped in tests.
var VerifyGoogleIDToken = func(idToken, clientID string) (*GoogleClaims, error) {
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{clientID}); err != nil {
		return nil, err
	}
	cs, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, err
	}
	return &GoogleClaims{Email: cs.Email, Name: cs.Name, Sub: cs.Sub}, nil
}

/* ==========================
   REGISTER
========================== */

type registerInput struct {
	UserName string `json:"user_name"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a student account. Admins are promoted by another admin.
func Register(db *gorm.DB, c *fiber.Ctx) error {
	var input registerInput
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	input.UserName = strings.TrimSpace(input.UserName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FullName = strings.TrimSpace(input.FullName)

	if err := authHelper.ValidateRegisterInput(input.UserName, input.Email, input.Password); err != nil {
		return helpers.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	hash, err := authHelper.HashPassword(input.Password)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "password hashing failed")
	}

	user := userModel.UserModel{
		UserName: input.UserName,
		Email:    input.Email,
		Password: hash,
		Role:     constants.RoleStudent,
		IsActive: true,
	}
	if input.FullName != "" {
		user.FullName = &input.FullName
	}

	if err := authRepo.CreateUser(db.WithContext(helpers.ReqCtx(c)), &user); err != nil {
		if helpers.IsUniqueViolation(err) {
			return helpers.JsonError(c, fiber.StatusConflict, "user name or email already registered")
		}
		log.Printf("[ERROR] register: %v", err)
		return helpers.JsonError(c, fiber.StatusInternalServerError, "failed to create user")
	}

	log.WithField("user_id", user.ID).Info("[AUTH] student registered")
	return helpers.JsonCreated(c, "registration successful", userDTO.ToUserResponse(user))
}

/* ==========================
   LOGIN
========================== */

func Login(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "invalid input format")
	}
	input.Identifier = strings.TrimSpace(input.Identifier)

	if err := authHelper.ValidateLoginInput(input.Identifier, input.Password); err != nil {
		return helpers.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	user, err := authRepo.FindUserByEmailOrUsername(db.WithContext(helpers.ReqCtx(c)), input.Identifier)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[ERROR] login lookup: %v", err)
		}
		return helpers.JsonError(c, fiber.StatusUnauthorized, "wrong identifier or password")
	}
	if err := authHelper.CheckPasswordHash(user.Password, input.Password); err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "wrong identifier or password")
	}
	if !user.IsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "your account has been deactivated, contact an administrator")
	}

	return issueAndRespond(c, *user, "login successful")
}

/* ==========================
   LOGIN GOOGLE
========================== */

func LoginGoogle(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		IDToken string `json:"id_token"`
	}
	if err := c.BodyParser(&input); err != nil || strings.TrimSpace(input.IDToken) == "" {
		return helpers.JsonError(c, fiber.StatusBadRequest, "id_token is required")
	}

	claims, err := VerifyGoogleIDToken(input.IDToken, configs.GoogleClientID)
	if err != nil {
		log.Printf("[WARN] google id token rejected: %v", err)
		return helpers.JsonError(c, fiber.StatusUnauthorized, "invalid Google ID token")
	}

	tx := db.WithContext(helpers.ReqCtx(c))
	user, err := authRepo.FindUserByGoogleID(tx, claims.Sub)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = findOrCreateGoogleUser(tx, claims)
		if err != nil {
			if helpers.IsUniqueViolation(err) {
				return helpers.JsonError(c, fiber.StatusConflict, "email already registered")
			}
			log.Printf("[ERROR] google signup: %v", err)
			return helpers.JsonError(c, fiber.StatusInternalServerError, "failed to create Google user")
		}
	default:
		log.Printf("[ERROR] google lookup: %v", err)
		return helpers.JsonError(c, fiber.StatusInternalServerError, "failed to fetch user")
	}

	if !user.IsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "your account has been deactivated, contact an administrator")
	}
	return issueAndRespond(c, *user, "login successful")
}

// findOrCreateGoogleUser links an existing e-mail account or creates a new student.
func findOrCreateGoogleUser(db *gorm.DB, claims *GoogleClaims) (*userModel.UserModel, error) {
	if existing, err := authRepo.FindUserByEmail(db, claims.Email); err == nil {
		if err := authRepo.LinkGoogleID(db, existing.ID, claims.Sub); err != nil {
			return nil, err
		}
		existing.GoogleID = &claims.Sub
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := authHelper.HashPassword(uuid.NewString())
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(claims.Name)
	user := userModel.UserModel{
		UserName: googleUserName(claims),
		Email:    strings.ToLower(claims.Email),
		Password: hash,
		GoogleID: &claims.Sub,
		Role:     constants.RoleStudent,
		IsActive: true,
	}
	if name != "" {
		user.FullName = &name
	}
	if err := authRepo.CreateUser(db, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// googleUserName derives a unique-enough handle from the e-mail local part.
func googleUserName(claims *GoogleClaims) string {
	local := strings.SplitN(claims.Email, "@", 2)[0]
	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '.' {
			b.WriteRune(r)
		}
	}
	base := b.String()
	if len(base) > 40 {
		base = base[:40]
	}
	suffix := claims.Sub
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return base + "_" + suffix
}

/* ==========================
   REFRESH
========================== */

func RefreshToken(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.BodyParser(&input)
	raw := strings.TrimSpace(input.RefreshToken)
	if raw == "" {
		raw = strings.TrimSpace(c.Cookies("refresh_token"))
	}
	if raw == "" {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "refresh token is required")
	}

	userID, claims, err := ParseRefreshToken(raw)
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helpers.JsonError(c, fe.Code, fe.Message)
		}
		return helpers.JsonError(c, fiber.StatusUnauthorized, "invalid refresh token")
	}

	tx := db.WithContext(helpers.ReqCtx(c))
	revoked, err := authRepo.IsTokenBlacklisted(tx, raw)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "failed to check token")
	}
	if revoked {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "refresh token revoked")
	}

	user, err := authRepo.FindUserByID(tx, userID)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "user not found")
	}
	if !user.IsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "your account has been deactivated, contact an administrator")
	}

	// rotate: the presented refresh token is single-use
	if err := authRepo.BlacklistToken(tx, raw, resolveBlacklistTTL(claims)); err != nil {
		log.Printf("[WARN] failed to revoke refresh token: %v", err)
	}
	return issueAndRespond(c, *user, "token refreshed")
}

/* ==========================
   LOGOUT
========================== */

func Logout(db *gorm.DB, c *fiber.Ctx) error {
	tx := db.WithContext(helpers.ReqCtx(c))

	if access := helpers.GetRawAccessToken(c); access != "" {
		if err := authRepo.BlacklistToken(tx, access, resolveBlacklistTTL(unverifiedClaims(access))); err != nil {
			log.Printf("[WARN] failed to blacklist access token: %v", err)
		}
	} else {
		log.Info("[AUTH] logout without access token")
	}
	if rt := strings.TrimSpace(c.Cookies("refresh_token")); rt != "" {
		if err := authRepo.BlacklistToken(tx, rt, resolveBlacklistTTL(unverifiedClaims(rt))); err != nil {
			log.Printf("[WARN] failed to blacklist refresh token: %v", err)
		}
	}

	clearAuthCookies(c)
	return helpers.JsonOK(c, "logout successful", nil)
}

/* ==========================
   UTIL
========================== */

func issueAndRespond(c *fiber.Ctx, user userModel.UserModel, message string) error {
	pair, err := IssueTokens(user, nowUTC())
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helpers.JsonError(c, fe.Code, fe.Message)
		}
		log.Printf("[ERROR] sign tokens: %v", err)
		return helpers.JsonError(c, fiber.StatusInternalServerError, "failed to issue tokens")
	}
	setAuthCookies(c, pair)
	return helpers.JsonOK(c, message, fiber.Map{
		"user":   userDTO.ToUserResponse(user),
		"tokens": pair,
	})
}

func setAuthCookies(c *fiber.Ctx, pair TokenPair) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    pair.AccessToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  pair.AccessExpiresAt,
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    pair.RefreshToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/api/auth",
		Expires:  pair.RefreshExpiresAt,
	})
}

func clearAuthCookies(c *fiber.Ctx) {
	expired := nowUTC().Add(-time.Hour)
	for name, path := range map[string]string{"access_token": "/", "refresh_token": "/api/auth"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			HTTPOnly: true,
			Secure:   true,
			SameSite: "None",
			Path:     path,
			Expires:  expired,
			MaxAge:   -1,
		})
	}
}
