package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"feeportal_backend/internals/features/finance/payments/model"
)

func TestMapGatewayStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want model.PaymentStatus
	}{
		{"COMPLETE", model.PaymentStatusComplete},
		{"settlement", model.PaymentStatusComplete},
		{"capture", model.PaymentStatusComplete},
		{"pending", model.PaymentStatusPending},
		{" Pending ", model.PaymentStatusPending},
		{"deny", model.PaymentStatusFailed},
		{"cancel", model.PaymentStatusFailed},
		{"expire", model.PaymentStatusFailed},
		{"failure", model.PaymentStatusFailed},
		{"FAILED", model.PaymentStatusFailed},
		{"refund", model.PaymentStatusRefunded},
		{"partial_refund", model.PaymentStatusRefunded},
		{"REFUNDED", model.PaymentStatusRefunded},
		{GatewayStatusNotFound, model.PaymentStatusNeedsReview},
		{GatewayStatusAmountMismatch, model.PaymentStatusNeedsReview},
		{"authorize", model.PaymentStatusNeedsReview},
		{"", model.PaymentStatusNeedsReview},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, MapGatewayStatus(tt.raw))
		})
	}
}
