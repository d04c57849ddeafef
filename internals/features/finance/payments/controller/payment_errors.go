package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"feeportal_backend/internals/features/finance/payments/service"
	helper "feeportal_backend/internals/helpers"
)

var kindStatus = map[service.ErrorKind]int{
	service.KindConfiguration: fiber.StatusUnprocessableEntity,
	service.KindValidation:    fiber.StatusBadRequest,
	service.KindAlreadyPaid:   fiber.StatusConflict,
	service.KindOverpayment:   fiber.StatusConflict,
	service.KindNotFound:      fiber.StatusNotFound,
	service.KindGateway:       fiber.StatusBadGateway,
	service.KindConflict:      fiber.StatusConflict,
}

// respondPaymentError writes a payment error with its kind and, when known, the max payable amount.
func respondPaymentError(c *fiber.Ctx, err error, op string) error {
	var pe *service.Error
	if !errors.As(err, &pe) {
		log.WithError(err).Errorf("[ERROR] %s", op)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to "+op)
	}

	status, ok := kindStatus[pe.Kind]
	if !ok {
		status = fiber.StatusInternalServerError
	}
	if pe.Kind == service.KindGateway {
		log.WithError(pe.Err).Warnf("[PAYMENT] %s: gateway error", op)
	}

	var details map[string]any
	if pe.Remaining != nil {
		details = map[string]any{"max_payable": *pe.Remaining}
	}
	return helper.JsonErrorWithDetails(c, status, string(pe.Kind), pe.Message, details)
}
