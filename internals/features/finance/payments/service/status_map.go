package service

import (
	"strings"

	"feeportal_backend/internals/features/finance/payments/model"
)

// Gateway statuses that are not part of any provider vocabulary but come from the adapters.
const (
	GatewayStatusNotFound       = "not_found"
	GatewayStatusAmountMismatch = "amount_mismatch"
)

var gatewayStatusMap = map[string]model.PaymentStatus{
	"complete":   model.PaymentStatusComplete,
	"completed":  model.PaymentStatusComplete,
	"settlement": model.PaymentStatusComplete,
	"capture":    model.PaymentStatusComplete,

	"pending": model.PaymentStatusPending,

	"failed":   model.PaymentStatusFailed,
	"failure":  model.PaymentStatusFailed,
	"deny":     model.PaymentStatusFailed,
	"cancel":   model.PaymentStatusFailed,
	"canceled": model.PaymentStatusFailed,
	"expire":   model.PaymentStatusFailed,
	"expired":  model.PaymentStatusFailed,

	"refund":         model.PaymentStatusRefunded,
	"refunded":       model.PaymentStatusRefunded,
	"partial_refund": model.PaymentStatusRefunded,
	"full_refund":    model.PaymentStatusRefunded,
}

// MapGatewayStatus translates a gateway status string into the internal enum.
// Unknown values map to NEEDS_REVIEW.
func MapGatewayStatus(raw string) model.PaymentStatus {
	if s, ok := gatewayStatusMap[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return model.PaymentStatusNeedsReview
}
