package details

import (
	PaymentController "feeportal_backend/internals/features/finance/payments/controller"
	PaymentRoutes "feeportal_backend/internals/features/finance/payments/route"

	"github.com/gofiber/fiber/v2"
)

// Webhook endpoint lives under the public group; the gateway signs its calls.
func FinancePublicRoutes(r fiber.Router, svc PaymentController.PaymentUsecase, verifier PaymentController.SignatureVerifier) {
	PaymentRoutes.PaymentWebhookRoutes(r, svc, verifier)
}

func FinanceUserRoutes(r fiber.Router, svc PaymentController.PaymentUsecase) {
	PaymentRoutes.PaymentUserRoutes(r, svc)
}

func FinanceAdminRoutes(r fiber.Router, svc PaymentController.PaymentUsecase) {
	PaymentRoutes.PaymentAdminRoutes(r, svc)
}
