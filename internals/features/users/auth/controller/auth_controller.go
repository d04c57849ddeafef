package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"feeportal_backend/internals/features/users/auth/service"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

func (ac *AuthController) Register(c *fiber.Ctx) error       { return service.Register(ac.DB, c) }
func (ac *AuthController) Login(c *fiber.Ctx) error          { return service.Login(ac.DB, c) }
func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error    { return service.LoginGoogle(ac.DB, c) }
func (ac *AuthController) RefreshToken(c *fiber.Ctx) error   { return service.RefreshToken(ac.DB, c) }
func (ac *AuthController) Logout(c *fiber.Ctx) error         { return service.Logout(ac.DB, c) }
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error { return service.ChangePassword(ac.DB, c) }
func (ac *AuthController) Me(c *fiber.Ctx) error             { return service.Me(ac.DB, c) }
