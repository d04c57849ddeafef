package route

import (
	"github.com/gofiber/fiber/v2"

	"feeportal_backend/internals/features/finance/payments/controller"
	"feeportal_backend/internals/middlewares"
)

// PaymentUserRoutes mounts the student fee and payment endpoints on an authenticated group.
func PaymentUserRoutes(user fiber.Router, svc controller.PaymentUsecase) {
	ctl := controller.NewPaymentUserController(svc)

	user.Get("/fees/summary", ctl.Summary)

	g := user.Group("/payments")
	g.Post("/", middlewares.PaymentRateLimiter(), ctl.Initiate)
	g.Get("/", ctl.ListMine)
	g.Get("/:product_id/status", middlewares.PaymentRateLimiter(), ctl.Status)
}

func PaymentAdminRoutes(admin fiber.Router, svc controller.PaymentUsecase) {
	ctl := controller.NewPaymentAdminController(svc)

	g := admin.Group("/payments")
	g.Get("/", ctl.List)
	g.Patch("/:product_id/status", ctl.OverrideStatus)

	admin.Get("/users/:id/fees/summary", ctl.UserSummary)
}

// PaymentWebhookRoutes is public: Midtrans authenticates with the notification signature.
func PaymentWebhookRoutes(public fiber.Router, svc controller.PaymentUsecase, verifier controller.SignatureVerifier) {
	ctl := controller.NewPaymentWebhookController(svc, verifier)
	public.Post("/payments/midtrans/notification", ctl.Midtrans)
}
