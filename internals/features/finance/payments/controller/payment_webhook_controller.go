package controller

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"feeportal_backend/internals/features/finance/payments/dto"
	"feeportal_backend/internals/features/finance/payments/service"
	helper "feeportal_backend/internals/helpers"
)

type SignatureVerifier interface {
	VerifySignature(orderID, statusCode, grossAmount, signature string) bool
}

type PaymentWebhookController struct {
	Svc      PaymentUsecase
	Verifier SignatureVerifier
}

func NewPaymentWebhookController(svc PaymentUsecase, verifier SignatureVerifier) *PaymentWebhookController {
	return &PaymentWebhookController{Svc: svc, Verifier: verifier}
}

/* =========================================================
   POST /payments/midtrans/notification
========================================================= */

// Midtrans verifies the notification signature, then reconciles against the Core API
// rather than trusting the posted status.
func (ctl *PaymentWebhookController) Midtrans(c *fiber.Ctx) error {
	var notif dto.MidtransNotification
	if err := c.BodyParser(&notif); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if notif.OrderID == "" || !ctl.Verifier.VerifySignature(notif.OrderID, notif.StatusCode, notif.GrossAmount, notif.SignatureKey) {
		log.WithField("order_id", notif.OrderID).Warn("[WEBHOOK] invalid midtrans signature")
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid signature")
	}

	entry := log.WithFields(log.Fields{
		"order_id":           notif.OrderID,
		"transaction_status": notif.TransactionStatus,
		"fraud_status":       notif.FraudStatus,
	})

	res, err := ctl.Svc.ReconcileByProductID(helper.ReqCtx(c), notif.OrderID)
	if err != nil {
		// unknown orders are acknowledged so Midtrans stops retrying
		if service.KindOf(err) == service.KindNotFound {
			entry.Warn("[WEBHOOK] transaction not found, ignored")
			return helper.JsonOK(c, "ignored", fiber.Map{"order_id": notif.OrderID, "reason": "transaction not found"})
		}
		return respondPaymentError(c, err, "process notification")
	}

	entry.WithField("status", res.Status).Info("[WEBHOOK] processed")
	return helper.JsonOK(c, "processed", res)
}
